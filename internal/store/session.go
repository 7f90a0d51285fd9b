package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/wordiz/internal/vocab"
)

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	drv *entsql.Driver
}

type configRow struct {
	ID             string `sql:"id"`
	LearnerID      string `sql:"learner_id"`
	NativeLanguage string `sql:"native_language"`
	LanguageTested string `sql:"language_tested"`
	Difficulty     string `sql:"difficulty"`
	Domain         string `sql:"domain"`
	SessionType    string `sql:"session_type"`
	CreatedAt      int64  `sql:"created_at"`
}

type sessionRow struct {
	ID          string `sql:"id"`
	ConfigID    string `sql:"config_id"`
	LearnerID   string `sql:"learner_id"`
	SourceLang  string `sql:"source_lang"`
	TargetLang  string `sql:"target_lang"`
	Domain      string `sql:"domain"`
	Difficulty  string `sql:"difficulty"`
	SessionType string `sql:"session_type"`
	CreatedAt   int64  `sql:"created_at"`
	CompletedAt *int64 `sql:"completed_at"`
	Score       *int   `sql:"score"`
}

type sessionWordRow struct {
	ID                string `sql:"id"`
	Position          int    `sql:"position"`
	Concept           string `sql:"concept"`
	TranslationFromID string `sql:"translation_from_id"`
	TranslationToID   string `sql:"translation_to_id"`
	FromLanguage      string `sql:"from_language"`
	ToLanguage        string `sql:"to_language"`
	Prompt            string `sql:"prompt"`
	ExpectedAnswer    string `sql:"expected_answer"`
	PromptLanguage    string `sql:"prompt_language"`
	AnswerLanguage    string `sql:"answer_language"`
	Correct           *bool  `sql:"correct"`
	UserAnswer        string `sql:"user_answer"`
}

var (
	configColumns = []string{
		"id", "learner_id", "native_language", "language_tested",
		"difficulty", "domain", "session_type", "created_at",
	}
	sessionColumns = []string{
		"id", "config_id", "learner_id", "source_lang", "target_lang", "domain",
		"difficulty", "session_type", "created_at", "completed_at", "score",
	}
	sessionWordColumns = []string{
		"id", "position", "concept", "translation_from_id", "translation_to_id",
		"from_language", "to_language", "prompt", "expected_answer",
		"prompt_language", "answer_language", "correct", "user_answer",
	}
)

func (r *sessionRepo) CreateConfig(ctx context.Context, cfg *SessionConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now()
	}

	_, err := execute(ctx, r.drv, entsql.Dialect(r.drv.Dialect()).
		Insert(tableSessionConfigs).
		Columns(configColumns...).
		Values(cfg.ID, cfg.LearnerID, cfg.NativeLanguage, cfg.LanguageTested,
			string(cfg.Difficulty), cfg.Domain, string(cfg.SessionType), toMillis(cfg.CreatedAt)))
	if err != nil {
		return fmt.Errorf("insert session config: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetConfig(ctx context.Context, id string) (*SessionConfig, error) {
	t := entsql.Table(tableSessionConfigs)
	sel := entsql.Dialect(r.drv.Dialect()).Select().From(t)
	sel.Select(t.Columns(configColumns...)...).Where(entsql.EQ(t.C("id"), id))

	var rows []configRow
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query session config: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("session config %s: %w", id, ErrNotFound)
	}
	row := rows[0]
	return &SessionConfig{
		ID:             row.ID,
		LearnerID:      row.LearnerID,
		NativeLanguage: row.NativeLanguage,
		LanguageTested: row.LanguageTested,
		Difficulty:     vocab.Difficulty(row.Difficulty),
		Domain:         row.Domain,
		SessionType:    vocab.SessionType(row.SessionType),
		CreatedAt:      fromMillis(row.CreatedAt),
	}, nil
}

func (r *sessionRepo) CreateSession(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	dia := r.drv.Dialect()

	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		_, err := execute(ctx, tx, entsql.Dialect(dia).
			Insert(tableSessions).
			Columns(sessionColumns...).
			Values(sess.ID, sess.ConfigID, sess.LearnerID, sess.SourceLang, sess.TargetLang,
				sess.Domain, string(sess.Difficulty), string(sess.SessionType),
				toMillis(sess.CreatedAt), nil, nil))
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		for i := range sess.Words {
			w := &sess.Words[i]
			if w.ID == "" {
				w.ID = uuid.NewString()
			}
			w.Position = i
			_, err := execute(ctx, tx, entsql.Dialect(dia).
				Insert(tableSessionWords).
				Columns(append([]string{"session_id"}, sessionWordColumns...)...).
				Values(sess.ID, w.ID, w.Position, w.Concept, w.TranslationFromID, w.TranslationToID,
					w.FromLanguage, w.ToLanguage, w.Prompt, w.ExpectedAnswer,
					w.PromptLanguage, w.AnswerLanguage, nil, ""))
			if err != nil {
				return fmt.Errorf("insert session word %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetSession(ctx context.Context, id string) (*Session, error) {
	return getSession(ctx, r.drv, r.drv.Dialect(), id)
}

func getSession(ctx context.Context, eq dialect.ExecQuerier, dia, id string) (*Session, error) {
	t := entsql.Table(tableSessions)
	sel := entsql.Dialect(dia).Select().From(t)
	sel.Select(t.Columns(sessionColumns...)...).Where(entsql.EQ(t.C("id"), id))

	var rows []sessionRow
	if err := scanAll(ctx, eq, sel, &rows); err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	sess := rows[0].toSession()

	w := entsql.Table(tableSessionWords)
	wsel := entsql.Dialect(dia).Select().From(w)
	wsel.Select(w.Columns(sessionWordColumns...)...).
		Where(entsql.EQ(w.C("session_id"), id)).
		OrderBy(w.C("position"))

	var words []sessionWordRow
	if err := scanAll(ctx, eq, wsel, &words); err != nil {
		return nil, fmt.Errorf("query session words: %w", err)
	}
	sess.Words = make([]SessionWord, 0, len(words))
	for _, row := range words {
		sess.Words = append(sess.Words, SessionWord(row))
	}
	return sess, nil
}

func (r *sessionRepo) ListSessions(ctx context.Context, learnerID string, opts QueryOpts) ([]Session, error) {
	t := entsql.Table(tableSessions)
	sel := entsql.Dialect(r.drv.Dialect()).Select().From(t)
	sel.Select(t.Columns(sessionColumns...)...)

	preds := []*entsql.Predicate{entsql.EQ(t.C("learner_id"), learnerID)}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("created_at"), toMillis(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("created_at"), toMillis(opts.To)))
	}
	sel.Where(entsql.And(preds...)).OrderBy(entsql.Desc(t.C("created_at")), entsql.Desc(t.C("id")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows []sessionRow
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	out := make([]Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toSession())
	}
	return out, nil
}

func (r *sessionRepo) CompleteSession(ctx context.Context, id string, results []WordResult, score int, now time.Time) (*Session, error) {
	dia := r.drv.Dialect()
	var out *Session

	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		sess, err := getSession(ctx, tx, dia, id)
		if err != nil {
			return err
		}
		if sess.Completed() {
			return fmt.Errorf("session %s: %w", id, ErrAlreadyCompleted)
		}

		byID := make(map[string]*SessionWord, len(sess.Words))
		for i := range sess.Words {
			byID[sess.Words[i].ID] = &sess.Words[i]
		}

		for _, res := range results {
			w, ok := byID[res.SessionWordID]
			if !ok {
				continue
			}
			correct := res.Correct
			w.Correct = &correct
			w.UserAnswer = res.Answer

			_, err := execute(ctx, tx, entsql.Dialect(dia).
				Update(tableSessionWords).
				Set("correct", correct).
				Set("user_answer", res.Answer).
				Where(entsql.And(
					entsql.EQ("id", w.ID),
					entsql.EQ("session_id", id),
				)))
			if err != nil {
				return fmt.Errorf("update session word %s: %w", w.ID, err)
			}

			if err := bumpProgress(ctx, tx, dia, sess.LearnerID, w.TranslationToID, correct, now); err != nil {
				return err
			}
		}

		n, err := execute(ctx, tx, entsql.Dialect(dia).
			Update(tableSessions).
			Set("score", score).
			Set("completed_at", toMillis(now)).
			Where(entsql.And(entsql.EQ("id", id), entsql.IsNull("completed_at"))))
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("session %s: %w", id, ErrAlreadyCompleted)
		}

		sess.Score = &score
		sess.CompletedAt = fromMillis(toMillis(now))
		out = sess
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyCompleted) {
			return nil, err
		}
		return nil, fmt.Errorf("complete session: %w", err)
	}
	return out, nil
}

// bumpProgress adds one correct or incorrect review to the learner's tally
// for a translation.
func bumpProgress(ctx context.Context, eq dialect.ExecQuerier, dia, learnerID, translationID string, correct bool, now time.Time) error {
	correctInc, incorrectInc := 0, 1
	if correct {
		correctInc, incorrectInc = 1, 0
	}

	_, err := execute(ctx, eq, entsql.Dialect(dia).
		Insert(tableUserProgress).
		Columns("learner_id", "translation_id", "correct_count", "incorrect_count", "last_reviewed").
		Values(learnerID, translationID, correctInc, incorrectInc, toMillis(now)).
		OnConflict(
			entsql.ConflictColumns("learner_id", "translation_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Add("correct_count", correctInc)
				u.Add("incorrect_count", incorrectInc)
				u.SetExcluded("last_reviewed")
			}),
		))
	if err != nil {
		return fmt.Errorf("update progress for %s: %w", translationID, err)
	}
	return nil
}

func (row sessionRow) toSession() *Session {
	s := &Session{
		ID:          row.ID,
		ConfigID:    row.ConfigID,
		LearnerID:   row.LearnerID,
		SourceLang:  row.SourceLang,
		TargetLang:  row.TargetLang,
		Domain:      row.Domain,
		Difficulty:  vocab.Difficulty(row.Difficulty),
		SessionType: vocab.SessionType(row.SessionType),
		CreatedAt:   fromMillis(row.CreatedAt),
		Score:       row.Score,
	}
	if row.CompletedAt != nil {
		s.CompletedAt = fromMillis(*row.CompletedAt)
	}
	return s
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

package provision

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/wordiz/internal/auth"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Meta keys set on provisioned items.
const (
	MetaConcept        = "concept"
	MetaDomain         = "domain"
	MetaDifficulty     = "difficulty"
	MetaPromptLanguage = "prompt_language"
	MetaAnswerLanguage = "answer_language"
)

// Local provisions sessions directly from the store. The learner is taken
// from the context (see auth.WithLearner). It is safe for concurrent use.
type Local struct {
	catalog  store.CatalogRepo
	sessions store.SessionRepo
	progress store.ProgressRepo
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

var _ Service = (*Local)(nil)

// LocalOption configures a Local.
type LocalOption func(*Local)

// WithRand sets the source used to draw and orient words.
func WithRand(r *rand.Rand) LocalOption {
	return func(l *Local) { l.rnd = r }
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

// NewLocal returns a store-backed Service.
func NewLocal(catalog store.CatalogRepo, sessions store.SessionRepo, opts ...LocalOption) *Local {
	l := &Local{
		catalog:  catalog,
		sessions: sessions,
		now:      time.Now,
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// SaveConfig validates and stores cfg for the context's learner and
// returns the stored config.
func (l *Local) SaveConfig(ctx context.Context, cfg Config) (Config, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return cfg, err
	}
	sc := &store.SessionConfig{
		LearnerID:      auth.LearnerFrom(ctx),
		NativeLanguage: cfg.NativeLanguage,
		LanguageTested: cfg.LanguageTested,
		Difficulty:     cfg.Difficulty,
		Domain:         cfg.Domain,
		SessionType:    cfg.SessionType,
		CreatedAt:      l.now(),
	}
	if err := l.sessions.CreateConfig(ctx, sc); err != nil {
		return cfg, fmt.Errorf("save session config: %w", err)
	}
	cfg.ConfigID = sc.ID
	return cfg, nil
}

// loadConfig fetches a saved config owned by the context's learner.
func (l *Local) loadConfig(ctx context.Context, id string) (Config, error) {
	sc, err := l.sessions.GetConfig(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return Config{}, fmt.Errorf("config %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load session config: %w", err)
	}
	if sc.LearnerID != auth.LearnerFrom(ctx) {
		return Config{}, fmt.Errorf("config %s: %w", id, ErrForbidden)
	}
	return Config{
		ConfigID:       sc.ID,
		NativeLanguage: sc.NativeLanguage,
		LanguageTested: sc.LanguageTested,
		Difficulty:     sc.Difficulty,
		Domain:         sc.Domain,
		SessionType:    sc.SessionType,
	}, nil
}

// Start draws Difficulty.WordCount() random pairs matching cfg and stores
// them as a new session. A config without ConfigID is saved first.
func (l *Local) Start(ctx context.Context, cfg Config) (*Provisioned, error) {
	var err error
	if cfg.ConfigID != "" {
		cfg, err = l.loadConfig(ctx, cfg.ConfigID)
	} else {
		cfg, err = l.SaveConfig(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}

	pairs, err := l.catalog.CandidatePairs(ctx, store.PairQuery{
		From:       cfg.NativeLanguage,
		To:         cfg.LanguageTested,
		Domain:     cfg.Domain,
		Difficulty: cfg.Difficulty,
	})
	if err != nil {
		return nil, fmt.Errorf("select words: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s to %s: %w", cfg.NativeLanguage, cfg.LanguageTested, ErrNoWords)
	}

	sess := &store.Session{
		ConfigID:    cfg.ConfigID,
		LearnerID:   auth.LearnerFrom(ctx),
		SourceLang:  cfg.NativeLanguage,
		TargetLang:  cfg.LanguageTested,
		Domain:      cfg.Domain,
		Difficulty:  cfg.Difficulty,
		SessionType: cfg.SessionType,
		CreatedAt:   l.now(),
		Words:       l.draw(pairs, cfg),
	}
	if err := l.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	p := &Provisioned{
		SessionID: sess.ID,
		ConfigID:  cfg.ConfigID,
		Config:    cfg,
		Items:     make([]Item, 0, len(sess.Words)),
	}
	for _, w := range sess.Words {
		p.Items = append(p.Items, itemFromWord(w, sess))
	}
	return p, nil
}

// draw shuffles the candidates, keeps the first WordCount and orients each
// one according to the session type.
func (l *Local) draw(pairs []vocab.Pair, cfg Config) []store.SessionWord {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rnd.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	if n := cfg.Difficulty.WordCount(); len(pairs) > n {
		pairs = pairs[:n]
	}

	words := make([]store.SessionWord, 0, len(pairs))
	for _, p := range pairs {
		w := store.SessionWord{
			Concept:           p.Concept,
			TranslationFromID: p.FromID,
			TranslationToID:   p.ToID,
			FromLanguage:      cfg.NativeLanguage,
			ToLanguage:        cfg.LanguageTested,
		}
		if l.expression(cfg.SessionType) {
			w.Prompt, w.ExpectedAnswer = p.From, p.To
			w.PromptLanguage, w.AnswerLanguage = cfg.NativeLanguage, cfg.LanguageTested
		} else {
			w.Prompt, w.ExpectedAnswer = p.To, p.From
			w.PromptLanguage, w.AnswerLanguage = cfg.LanguageTested, cfg.NativeLanguage
		}
		words = append(words, w)
	}
	return words
}

// expression reports whether the next word is asked native-to-tested.
// Callers hold l.mu.
func (l *Local) expression(t vocab.SessionType) bool {
	switch t {
	case vocab.Expression:
		return true
	case vocab.Mixed:
		return l.rnd.IntN(2) == 1
	default:
		return false
	}
}

func itemFromWord(w store.SessionWord, sess *store.Session) Item {
	return Item{
		ID:             w.ID,
		Prompt:         w.Prompt,
		ExpectedAnswer: w.ExpectedAnswer,
		Meta: map[string]string{
			MetaConcept:        w.Concept,
			MetaDomain:         sess.Domain,
			MetaDifficulty:     string(sess.Difficulty),
			MetaPromptLanguage: w.PromptLanguage,
			MetaAnswerLanguage: w.AnswerLanguage,
		},
	}
}

// Submit scores the results with session.Rate over every word in the
// session and completes it. Results for unknown items are ignored and only
// the first result per item counts.
func (l *Local) Submit(ctx context.Context, sessionID string, results []session.Result) (*Receipt, error) {
	if len(results) == 0 {
		return nil, ErrEmptyResults
	}

	sess, err := l.ownSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Completed() {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrAlreadySubmitted)
	}

	known := make(map[string]bool, len(sess.Words))
	for _, w := range sess.Words {
		known[w.ID] = true
	}
	var (
		wrs     []store.WordResult
		correct int
		seen    = make(map[string]bool, len(results))
	)
	for _, r := range results {
		if !known[r.ItemID] || seen[r.ItemID] {
			continue
		}
		seen[r.ItemID] = true
		if r.Correct {
			correct++
		}
		wrs = append(wrs, store.WordResult{SessionWordID: r.ItemID, Correct: r.Correct, Answer: r.Answer})
	}
	if len(wrs) == 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrEmptyResults)
	}

	score := session.Rate(correct, len(sess.Words))
	done, err := l.sessions.CompleteSession(ctx, sessionID, wrs, score, l.now())
	switch {
	case errors.Is(err, store.ErrAlreadyCompleted):
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrAlreadySubmitted)
	case errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("submit results: %w", err)
	}

	return &Receipt{
		SessionID:   sessionID,
		Score:       score,
		Correct:     correct,
		Total:       len(sess.Words),
		CompletedAt: done.CompletedAt,
	}, nil
}

// ownSession loads a session and checks it belongs to the context's learner.
func (l *Local) ownSession(ctx context.Context, id string) (*store.Session, error) {
	sess, err := l.sessions.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.LearnerID != auth.LearnerFrom(ctx) {
		return nil, fmt.Errorf("session %s: %w", id, ErrForbidden)
	}
	return sess, nil
}

// Session returns one of the learner's sessions with its words.
func (l *Local) Session(ctx context.Context, id string) (*SessionDetail, error) {
	sess, err := l.ownSession(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &SessionDetail{SessionInfo: infoFromSession(sess), Words: make([]WordInfo, 0, len(sess.Words))}
	for _, w := range sess.Words {
		d.Words = append(d.Words, WordInfo{
			ID:             w.ID,
			Concept:        w.Concept,
			Prompt:         w.Prompt,
			ExpectedAnswer: w.ExpectedAnswer,
			Correct:        w.Correct,
			Answer:         w.UserAnswer,
		})
	}
	return d, nil
}

// History lists the learner's sessions newest first. A limit of zero
// returns all of them.
func (l *Local) History(ctx context.Context, limit int) ([]SessionInfo, error) {
	list, err := l.sessions.ListSessions(ctx, auth.LearnerFrom(ctx), store.QueryOpts{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]SessionInfo, 0, len(list))
	for i := range list {
		out = append(out, infoFromSession(&list[i]))
	}
	return out, nil
}

// Languages lists the catalog's languages.
func (l *Local) Languages(ctx context.Context) ([]vocab.Language, error) {
	return l.catalog.Languages(ctx)
}

// Domains lists the catalog's domains.
func (l *Local) Domains(ctx context.Context) ([]vocab.Domain, error) {
	return l.catalog.Domains(ctx)
}

func infoFromSession(s *store.Session) SessionInfo {
	info := SessionInfo{
		ID:             s.ID,
		ConfigID:       s.ConfigID,
		NativeLanguage: s.SourceLang,
		LanguageTested: s.TargetLang,
		Domain:         s.Domain,
		Difficulty:     s.Difficulty,
		SessionType:    s.SessionType,
		CreatedAt:      s.CreatedAt,
		Score:          s.Score,
	}
	if s.Completed() {
		t := s.CompletedAt
		info.CompletedAt = &t
	}
	return info
}

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/wordiz/internal/vocab"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	s, err := Open(DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testWordList() *vocab.WordList {
	tr := func(en, es, fr string) []vocab.Translation {
		out := []vocab.Translation{{Language: "en", Text: en}, {Language: "es", Text: es}}
		if fr != "" {
			out = append(out, vocab.Translation{Language: "fr", Text: fr})
		}
		return out
	}
	return &vocab.WordList{
		Languages: []vocab.Language{
			{Code: "en", Name: "English"},
			{Code: "es", Name: "Spanish"},
			{Code: "fr", Name: "French"},
		},
		Domains: []vocab.Domain{
			{Code: "ANIMALS", Name: "Animals"},
			{Code: "HOME", Name: "Home"},
		},
		Words: []vocab.Word{
			{Concept: "dog", Domain: "ANIMALS", Difficulty: vocab.Easy, Translations: tr("dog", "perro", "chien")},
			{Concept: "cat", Domain: "ANIMALS", Difficulty: vocab.Easy, Translations: tr("cat", "gato", "")},
			{Concept: "squirrel", Domain: "ANIMALS", Difficulty: vocab.Hard, Translations: tr("squirrel", "ardilla", "écureuil")},
			{Concept: "house", Domain: "HOME", Difficulty: vocab.Easy, Translations: tr("house", "casa", "maison")},
			{Concept: "kitchen", Domain: "HOME", Difficulty: vocab.Medium, Translations: tr("kitchen", "cocina", "cuisine")},
		},
	}
}

func seedStore(t *testing.T, s *Store) {
	t.Helper()
	if _, err := s.CatalogRepo().ImportWords(context.Background(), testWordList()); err != nil {
		t.Fatalf("import words: %v", err)
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("Dialect() = %q, want sqlite3", s.Dialect())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{
		tableLanguages, tableDomains, tableWords, tableTranslations,
		tableSessionConfigs, tableSessions, tableSessionWords,
		tableUserProgress, tableLLMEvents, tableSequence,
	} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestImportWords(t *testing.T) {
	s := openTestStore(t)
	repo := s.CatalogRepo()
	ctx := context.Background()

	stats, err := repo.ImportWords(ctx, testWordList())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Words != 5 || stats.Translations != 14 {
		t.Errorf("stats = %+v, want 5 words and 14 translations", stats)
	}

	n, err := repo.CountWords(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 5 {
		t.Errorf("CountWords = %d, want 5", n)
	}

	langs, err := repo.Languages(ctx)
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	if len(langs) != 3 || langs[0].Code != "en" || langs[0].Name != "English" {
		t.Errorf("Languages = %+v, want en/es/fr ordered by code", langs)
	}

	domains, err := repo.Domains(ctx)
	if err != nil {
		t.Fatalf("domains: %v", err)
	}
	if len(domains) != 2 {
		t.Errorf("Domains = %+v, want 2", domains)
	}
}

func TestImportWordsIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	repo := s.CatalogRepo()
	ctx := context.Background()

	seedStore(t, s)

	wl := testWordList()
	wl.Words[0].Translations[1].Text = "perrito"
	wl.Words[0].Difficulty = vocab.Medium
	if _, err := repo.ImportWords(ctx, wl); err != nil {
		t.Fatalf("second import: %v", err)
	}

	n, _ := repo.CountWords(ctx)
	if n != 5 {
		t.Errorf("CountWords after re-import = %d, want 5", n)
	}

	words, err := repo.Words(ctx, "ANIMALS")
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	var dog *vocab.Word
	for i := range words {
		if words[i].Concept == "dog" {
			dog = &words[i]
		}
	}
	if dog == nil {
		t.Fatal("dog missing after re-import")
	}
	if dog.Difficulty != vocab.Medium {
		t.Errorf("dog difficulty = %q, want MEDIUM", dog.Difficulty)
	}
	if got, _ := dog.Text("es"); got != "perrito" {
		t.Errorf("dog es = %q, want perrito", got)
	}
	if len(dog.Translations) != 3 {
		t.Errorf("dog has %d translations, want 3", len(dog.Translations))
	}
}

func TestImportWordsUnknownDomainRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	wl := testWordList()
	wl.Words = append(wl.Words, vocab.Word{
		Concept: "rocket", Domain: "SPACE", Difficulty: vocab.Easy,
		Translations: []vocab.Translation{{Language: "en", Text: "rocket"}},
	})
	if _, err := s.CatalogRepo().ImportWords(ctx, wl); err == nil {
		t.Fatal("expected foreign key failure for unknown domain")
	}

	n, err := s.CatalogRepo().CountWords(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("CountWords = %d after failed import, want 0", n)
	}
}

func TestCandidatePairs(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)
	repo := s.CatalogRepo()
	ctx := context.Background()

	tests := []struct {
		name string
		q    PairQuery
		want []string
	}{
		{"all en-es", PairQuery{From: "en", To: "es"}, []string{"cat", "dog", "house", "kitchen", "squirrel"}},
		{"ALL domain", PairQuery{From: "en", To: "es", Domain: vocab.AllDomains}, []string{"cat", "dog", "house", "kitchen", "squirrel"}},
		{"both languages required", PairQuery{From: "fr", To: "en"}, []string{"dog", "house", "kitchen", "squirrel"}},
		{"domain", PairQuery{From: "en", To: "es", Domain: "HOME"}, []string{"house", "kitchen"}},
		{"easy only", PairQuery{From: "en", To: "es", Difficulty: vocab.Easy}, []string{"cat", "dog", "house"}},
		{"medium is cumulative", PairQuery{From: "en", To: "es", Difficulty: vocab.Medium}, []string{"cat", "dog", "house", "kitchen"}},
		{"hard and domain", PairQuery{From: "en", To: "es", Domain: "ANIMALS", Difficulty: vocab.Hard}, []string{"cat", "dog", "squirrel"}},
		{"unknown language", PairQuery{From: "en", To: "de"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := repo.CandidatePairs(ctx, tt.q)
			if err != nil {
				t.Fatalf("candidate pairs: %v", err)
			}
			var got []string
			for _, p := range pairs {
				got = append(got, p.Concept)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("concepts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidatePairsTexts(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)

	pairs, err := s.CatalogRepo().CandidatePairs(context.Background(), PairQuery{From: "en", To: "es", Domain: "HOME", Difficulty: vocab.Easy})
	if err != nil {
		t.Fatalf("candidate pairs: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	p := pairs[0]
	if p.From != "house" || p.To != "casa" {
		t.Errorf("pair = %q -> %q, want house -> casa", p.From, p.To)
	}
	if p.FromID == "" || p.ToID == "" || p.FromID == p.ToID {
		t.Errorf("translation ids = %q, %q; want two distinct ids", p.FromID, p.ToID)
	}
}

func TestSessionConfigRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	cfg := &SessionConfig{
		LearnerID:      "ana",
		NativeLanguage: "en",
		LanguageTested: "es",
		Difficulty:     vocab.Medium,
		Domain:         "HOME",
		SessionType:    vocab.Expression,
	}
	if err := repo.CreateConfig(ctx, cfg); err != nil {
		t.Fatalf("create config: %v", err)
	}
	if cfg.ID == "" {
		t.Fatal("expected generated config id")
	}

	got, err := repo.GetConfig(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if got.LearnerID != "ana" || got.Difficulty != vocab.Medium || got.SessionType != vocab.Expression {
		t.Errorf("config = %+v", got)
	}

	if _, err := repo.GetConfig(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConfig(missing) err = %v, want ErrNotFound", err)
	}
}

func createTestSession(t *testing.T, s *Store, learner string, created time.Time) *Session {
	t.Helper()
	ctx := context.Background()

	pairs, err := s.CatalogRepo().CandidatePairs(ctx, PairQuery{From: "en", To: "es", Domain: "HOME"})
	if err != nil {
		t.Fatalf("candidate pairs: %v", err)
	}
	sess := &Session{
		LearnerID:   learner,
		SourceLang:  "en",
		TargetLang:  "es",
		Domain:      "HOME",
		Difficulty:  vocab.Hard,
		SessionType: vocab.Expression,
		CreatedAt:   created,
	}
	for _, p := range pairs {
		sess.Words = append(sess.Words, SessionWord{
			Concept:           p.Concept,
			TranslationFromID: p.FromID,
			TranslationToID:   p.ToID,
			FromLanguage:      "en",
			ToLanguage:        "es",
			Prompt:            p.From,
			ExpectedAnswer:    p.To,
			PromptLanguage:    "en",
			AnswerLanguage:    "es",
		})
	}
	if err := s.SessionRepo().CreateSession(ctx, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sess
}

func TestCreateAndGetSession(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)
	ctx := context.Background()

	sess := createTestSession(t, s, "ana", time.Now())

	got, err := s.SessionRepo().GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Completed() || got.Score != nil {
		t.Error("new session should not be completed")
	}
	if len(got.Words) != 2 {
		t.Fatalf("words = %d, want 2", len(got.Words))
	}
	for i, w := range got.Words {
		if w.Position != i {
			t.Errorf("word %d position = %d", i, w.Position)
		}
		if w.Correct != nil {
			t.Errorf("word %d correct = %v, want nil", i, *w.Correct)
		}
		if w.ID != sess.Words[i].ID {
			t.Errorf("word %d id = %q, want %q", i, w.ID, sess.Words[i].ID)
		}
	}

	if _, err := s.SessionRepo().GetSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession(missing) err = %v, want ErrNotFound", err)
	}
}

func TestListSessions(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	first := createTestSession(t, s, "ana", base)
	second := createTestSession(t, s, "ana", base.Add(time.Minute))
	createTestSession(t, s, "ben", base.Add(2*time.Minute))

	got, err := s.SessionRepo().ListSessions(ctx, "ana", QueryOpts{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sessions, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("order = [%s %s], want newest first", got[0].ID, got[1].ID)
	}
	if got[0].Words != nil {
		t.Error("ListSessions should not load words")
	}

	limited, err := s.SessionRepo().ListSessions(ctx, "ana", QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d sessions", len(limited))
	}
}

func TestCompleteSession(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)
	repo := s.SessionRepo()
	ctx := context.Background()

	sess := createTestSession(t, s, "ana", time.Now())
	now := time.Now()

	done, err := repo.CompleteSession(ctx, sess.ID, []WordResult{
		{SessionWordID: sess.Words[0].ID, Correct: true, Answer: sess.Words[0].ExpectedAnswer},
		{SessionWordID: sess.Words[1].ID, Correct: false, Answer: "nope"},
		{SessionWordID: "not-in-session", Correct: true},
	}, 50, now)
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if done.Score == nil || *done.Score != 50 {
		t.Errorf("score = %v, want 50", done.Score)
	}
	if !done.Completed() {
		t.Error("session should be completed")
	}

	got, err := repo.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.CompletedAt.UnixMilli() != now.UnixMilli() {
		t.Errorf("completed_at = %v, want %v", got.CompletedAt, now)
	}
	if w := got.Words[0]; w.Correct == nil || !*w.Correct {
		t.Errorf("word 0 correct = %v, want true", w.Correct)
	}
	if w := got.Words[1]; w.Correct == nil || *w.Correct || w.UserAnswer != "nope" {
		t.Errorf("word 1 = %+v, want incorrect with answer nope", w)
	}

	_, err = repo.CompleteSession(ctx, sess.ID, nil, 0, now)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("second complete err = %v, want ErrAlreadyCompleted", err)
	}

	_, err = repo.CompleteSession(ctx, "missing", nil, 0, now)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("complete missing err = %v, want ErrNotFound", err)
	}
}

func TestProgressAccumulates(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)
	repo := s.SessionRepo()
	ctx := context.Background()

	t0 := time.Now().Add(-time.Hour)
	for i, correct := range []bool{true, false, true} {
		sess := createTestSession(t, s, "ana", t0.Add(time.Duration(i)*time.Minute))
		results := []WordResult{{SessionWordID: sess.Words[0].ID, Correct: correct}}
		if _, err := repo.CompleteSession(ctx, sess.ID, results, 0, t0.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("complete %d: %v", i, err)
		}
	}

	entries, err := s.ProgressRepo().Progress(ctx, "ana", QueryOpts{})
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.CorrectCount != 2 || e.IncorrectCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", e.CorrectCount, e.IncorrectCount)
	}
	if e.Language != "es" || e.Concept == "" || e.Text == "" {
		t.Errorf("entry = %+v, want es translation details", e)
	}
	if e.LastReviewed.UnixMilli() != t0.Add(2*time.Minute).UnixMilli() {
		t.Errorf("last reviewed = %v, want latest completion", e.LastReviewed)
	}

	other, err := s.ProgressRepo().Progress(ctx, "ben", QueryOpts{})
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("ben has %d progress entries, want 0", len(other))
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"word-gen", "word-gen", "hint"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      purpose,
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    100,
			Success:      i != 2,
			ErrorMessage: map[bool]string{true: "boom"}[i == 2],
			RequestBody:  "req",
			ResponseBody: "resp",
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Purpose != "hint" || events[0].Success || events[0].ErrorMessage != "boom" {
		t.Errorf("newest event = %+v, want failed hint", events[0])
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Error("events should be ordered by sequence descending")
	}

	limited, _ := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d", len(limited))
	}
	after, _ := repo.QueryLLMEvents(ctx, QueryOpts{After: events[1].Sequence})
	if len(after) != 1 {
		t.Errorf("after filter returned %d, want 1", len(after))
	}

	ev, err := repo.GetLLMEvent(ctx, events[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ev.RequestBody != "req" || ev.ResponseBody != "resp" || !ev.Success {
		t.Errorf("event = %+v", ev)
	}
	if _, err := repo.GetLLMEvent(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLLMEvent(9999) err = %v, want ErrNotFound", err)
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("usage rows = %d, want 2", len(usage))
	}
	// Ordered by key: hint, word-gen.
	if usage[1].Key != "word-gen" || usage[1].Calls != 2 || usage[1].InputTokens != 30 {
		t.Errorf("word-gen usage = %+v, want 2 calls, 30 input tokens", usage[1])
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Calls != 3 || byModel[0].AvgLatencyMs != 100 {
		t.Errorf("model usage = %+v", byModel)
	}
}

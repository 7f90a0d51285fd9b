package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/wordiz/internal/vocab"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted is returned when results are submitted for a
	// session that already has them.
	ErrAlreadyCompleted = errors.New("session already completed")
)

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After (events only)
	Before int64     // sequence < Before (events only)
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// PairQuery selects translation pairs for a new session.
type PairQuery struct {
	From string // native language code
	To   string // tested language code

	// Domain restricts concepts to one domain. Empty or vocab.AllDomains
	// means every domain.
	Domain string

	// Difficulty selects cumulatively; see vocab.Difficulty.Includes.
	// Empty means every difficulty.
	Difficulty vocab.Difficulty
}

// ImportStats reports what ImportWords changed.
type ImportStats struct {
	Languages    int
	Domains      int
	Words        int
	Translations int
}

// CatalogRepo manages languages, domains, words and translations.
type CatalogRepo interface {
	UpsertLanguage(ctx context.Context, l vocab.Language) error
	UpsertDomain(ctx context.Context, d vocab.Domain) error

	// ImportWords upserts every language, domain, word and translation in
	// wl. Words are keyed by concept and translations by (concept, language),
	// so importing the same list twice changes nothing.
	ImportWords(ctx context.Context, wl *vocab.WordList) (ImportStats, error)

	Languages(ctx context.Context) ([]vocab.Language, error)
	Domains(ctx context.Context) ([]vocab.Domain, error)

	// Words lists concepts with their translations, filtered by domain
	// (empty for all).
	Words(ctx context.Context, domain string) ([]vocab.Word, error)

	// CandidatePairs returns every concept translated into both q.From and
	// q.To that passes the domain and difficulty filters.
	CandidatePairs(ctx context.Context, q PairQuery) ([]vocab.Pair, error)

	CountWords(ctx context.Context) (int, error)
}

// SessionConfig is a learner's saved choice of languages and filters.
type SessionConfig struct {
	ID             string
	LearnerID      string
	NativeLanguage string
	LanguageTested string
	Difficulty     vocab.Difficulty
	Domain         string
	SessionType    vocab.SessionType
	CreatedAt      time.Time
}

// SessionWord is one drawn pair within a session.
type SessionWord struct {
	ID                string
	Position          int
	Concept           string
	TranslationFromID string
	TranslationToID   string
	FromLanguage      string
	ToLanguage        string
	Prompt            string
	ExpectedAnswer    string
	PromptLanguage    string
	AnswerLanguage    string

	// Correct is nil until results are submitted.
	Correct    *bool
	UserAnswer string
}

// Session is a provisioned practice session.
type Session struct {
	ID          string
	ConfigID    string
	LearnerID   string
	SourceLang  string
	TargetLang  string
	Domain      string
	Difficulty  vocab.Difficulty
	SessionType vocab.SessionType
	CreatedAt   time.Time
	CompletedAt time.Time // zero while in progress

	// Score is the first-try success rate, nil while in progress.
	Score *int

	Words []SessionWord
}

// Completed reports whether results have been submitted.
func (s *Session) Completed() bool {
	return !s.CompletedAt.IsZero()
}

// WordResult is the submitted outcome for one session word.
type WordResult struct {
	SessionWordID string
	Correct       bool
	Answer        string
}

// SessionRepo manages session configs, sessions and their results.
type SessionRepo interface {
	CreateConfig(ctx context.Context, cfg *SessionConfig) error
	GetConfig(ctx context.Context, id string) (*SessionConfig, error)

	// CreateSession stores the session and its words in one transaction.
	// IDs left empty are generated.
	CreateSession(ctx context.Context, sess *Session) error

	// GetSession returns the session with its words in position order.
	GetSession(ctx context.Context, id string) (*Session, error)

	// ListSessions returns a learner's sessions newest first, without words.
	ListSessions(ctx context.Context, learnerID string, opts QueryOpts) ([]Session, error)

	// CompleteSession records results, updates the learner's progress and
	// sets the score, all in one transaction. Results for words that do
	// not belong to the session are ignored.
	CompleteSession(ctx context.Context, id string, results []WordResult, score int, now time.Time) (*Session, error)
}

// ProgressEntry is a learner's running tally for one translation.
type ProgressEntry struct {
	TranslationID  string
	Concept        string
	Language       string
	Text           string
	CorrectCount   int
	IncorrectCount int
	LastReviewed   time.Time
}

// ProgressRepo reads per-learner progress.
type ProgressRepo interface {
	// Progress returns entries most recently reviewed first.
	Progress(ctx context.Context, learnerID string, opts QueryOpts) ([]ProgressEntry, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns ErrNotFound for unknown ids.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

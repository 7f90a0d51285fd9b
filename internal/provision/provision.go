// Package provision creates practice sessions and records their results,
// either in-process against the store or over HTTP against a Wordiz server.
package provision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Config selects the languages and filters for a new session.
type Config struct {
	// ConfigID starts a session from a saved config. The remaining fields
	// are ignored when it is set.
	ConfigID string `json:"config_id,omitempty"`

	NativeLanguage string            `json:"native_language"`
	LanguageTested string            `json:"language_tested"`
	Difficulty     vocab.Difficulty  `json:"difficulty"`
	Domain         string            `json:"domain,omitempty"`
	SessionType    vocab.SessionType `json:"session_type"`
}

// Normalize canonicalizes the config and checks it. Language codes are
// lowercased, the domain uppercased, an empty difficulty defaults to EASY
// and an empty session type to COMPREHENSION.
func (c Config) Normalize() (Config, error) {
	c.NativeLanguage = strings.ToLower(strings.TrimSpace(c.NativeLanguage))
	c.LanguageTested = strings.ToLower(strings.TrimSpace(c.LanguageTested))
	c.Domain = strings.ToUpper(strings.TrimSpace(c.Domain))

	if c.NativeLanguage == "" || c.LanguageTested == "" {
		return c, fmt.Errorf("%w: native and tested languages are required", ErrInvalidConfig)
	}
	if c.NativeLanguage == c.LanguageTested {
		return c, fmt.Errorf("%w: native and tested languages must differ", ErrInvalidConfig)
	}

	if c.Difficulty == "" {
		c.Difficulty = vocab.Easy
	}
	d, err := vocab.ParseDifficulty(string(c.Difficulty))
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.Difficulty = d

	if c.SessionType == "" {
		c.SessionType = vocab.Comprehension
	}
	st, err := vocab.ParseSessionType(string(c.SessionType))
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.SessionType = st
	return c, nil
}

// Item is the wire form of a quiz item.
type Item struct {
	ID             string            `json:"id"`
	Prompt         string            `json:"prompt"`
	ExpectedAnswer string            `json:"expected_answer"`
	Meta           map[string]string `json:"meta,omitempty"`
}

// Provisioned is a freshly created session ready for the engine.
type Provisioned struct {
	SessionID string `json:"session_id"`
	ConfigID  string `json:"config_id,omitempty"`
	Config    Config `json:"config"`
	Items     []Item `json:"items"`
}

// SessionItems converts the wire items for session.Engine.Initialize.
func (p *Provisioned) SessionItems() []session.Item {
	out := make([]session.Item, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, session.Item{
			ID:             it.ID,
			Prompt:         it.Prompt,
			ExpectedAnswer: it.ExpectedAnswer,
			Meta:           it.Meta,
		})
	}
	return out
}

// Receipt acknowledges a submitted session.
type Receipt struct {
	SessionID   string    `json:"session_id"`
	Score       int       `json:"score"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completed_at"`
}

// SessionInfo summarizes a past or in-progress session.
type SessionInfo struct {
	ID             string            `json:"id"`
	ConfigID       string            `json:"config_id,omitempty"`
	NativeLanguage string            `json:"native_language"`
	LanguageTested string            `json:"language_tested"`
	Domain         string            `json:"domain,omitempty"`
	Difficulty     vocab.Difficulty  `json:"difficulty"`
	SessionType    vocab.SessionType `json:"session_type"`
	CreatedAt      time.Time         `json:"created_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	Score          *int              `json:"score,omitempty"`
}

// WordInfo is one session word in a SessionDetail.
type WordInfo struct {
	ID             string `json:"id"`
	Concept        string `json:"concept"`
	Prompt         string `json:"prompt"`
	ExpectedAnswer string `json:"expected_answer"`
	Correct        *bool  `json:"correct,omitempty"`
	Answer         string `json:"answer,omitempty"`
}

// SessionDetail is a session with its words.
type SessionDetail struct {
	SessionInfo
	Words []WordInfo `json:"words"`
}

// Provisioner creates sessions.
type Provisioner interface {
	Start(ctx context.Context, cfg Config) (*Provisioned, error)
}

// Submitter records the results of a completed session.
type Submitter interface {
	Submit(ctx context.Context, sessionID string, results []session.Result) (*Receipt, error)
}

// Service is everything the terminal UI needs from a backend.
type Service interface {
	Provisioner
	Submitter
	Languages(ctx context.Context) ([]vocab.Language, error)
	Domains(ctx context.Context) ([]vocab.Domain, error)
	History(ctx context.Context, limit int) ([]SessionInfo, error)
	Session(ctx context.Context, id string) (*SessionDetail, error)
	Stats(ctx context.Context) (*Stats, error)
}

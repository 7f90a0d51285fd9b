// Package screentest provides an in-memory provision.Service and key
// helpers for screen tests.
package screentest

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Service is a scripted provision.Service. Set the Err fields to fail the
// matching call.
type Service struct {
	mu sync.Mutex

	Items     []provision.Item
	StartErr  error
	SubmitErr error
	Sessions  []provision.SessionInfo
	Details   map[string]*provision.SessionDetail

	Started   []provision.Config
	Submitted map[string][]session.Result
}

var _ provision.Service = (*Service)(nil)

// NewService returns a service that provisions the casa/perro session.
func NewService() *Service {
	return &Service{
		Items: []provision.Item{
			{ID: "1", Prompt: "casa", ExpectedAnswer: "house", Meta: map[string]string{
				provision.MetaPromptLanguage: "es", provision.MetaAnswerLanguage: "en",
			}},
			{ID: "2", Prompt: "perro", ExpectedAnswer: "dog", Meta: map[string]string{
				provision.MetaPromptLanguage: "es", provision.MetaAnswerLanguage: "en",
			}},
		},
		Details:   map[string]*provision.SessionDetail{},
		Submitted: map[string][]session.Result{},
	}
}

func (s *Service) Start(_ context.Context, cfg provision.Config) (*provision.Provisioned, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StartErr != nil {
		return nil, s.StartErr
	}
	s.Started = append(s.Started, cfg)
	return &provision.Provisioned{
		SessionID: fmt.Sprintf("session-%d", len(s.Started)),
		Config:    cfg,
		Items:     s.Items,
	}, nil
}

func (s *Service) Submit(_ context.Context, sessionID string, results []session.Result) (*provision.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SubmitErr != nil {
		return nil, s.SubmitErr
	}
	s.Submitted[sessionID] = results
	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}
	return &provision.Receipt{
		SessionID:   sessionID,
		Score:       session.Rate(correct, len(results)),
		Correct:     correct,
		Total:       len(results),
		CompletedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func (s *Service) Languages(context.Context) ([]vocab.Language, error) {
	return []vocab.Language{{Code: "en", Name: "English"}, {Code: "es", Name: "Spanish"}, {Code: "fr", Name: "French"}}, nil
}

func (s *Service) Domains(context.Context) ([]vocab.Domain, error) {
	return []vocab.Domain{{Code: "ANIMALS", Name: "Animals"}, {Code: "FOOD", Name: "Food"}}, nil
}

func (s *Service) History(_ context.Context, limit int) ([]provision.SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 && len(s.Sessions) > limit {
		return s.Sessions[:limit], nil
	}
	return s.Sessions, nil
}

func (s *Service) Session(_ context.Context, id string) (*provision.SessionDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.Details[id]
	if !ok {
		return nil, provision.ErrNotFound
	}
	return d, nil
}

func (s *Service) Stats(context.Context) (*provision.Stats, error) {
	st := provision.BuildStats(nil)
	return &st, nil
}

// Key returns a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special returns a key press for a non-printable key such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Type returns one key press per rune of s.
func Type(s string) []tea.KeyPressMsg {
	out := make([]tea.KeyPressMsg, 0, len(s))
	for _, r := range s {
		out = append(out, Key(r))
	}
	return out
}

// Run executes cmd and returns its message, or nil. Batches are not
// expanded.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

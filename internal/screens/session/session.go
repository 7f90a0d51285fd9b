package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/screens/summary"
	sess "github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/layout"
)

const callTimeout = 30 * time.Second

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseFeedback
	phaseSubmitting
	phaseError
)

// SessionScreen drives a session.Engine over a freshly provisioned session.
// All engine calls happen inside Update.
type SessionScreen struct {
	svc    provision.Service
	cfg    provision.Config
	engine *sess.Engine

	input       components.TextInput
	phase       phase
	confirmQuit bool
	current     sess.Item
	items       map[string]provision.Item
	last        sess.Outcome
	notice      string
	errMsg      string
}

var (
	_ screen.Screen           = (*SessionScreen)(nil)
	_ screen.KeyHintProvider  = (*SessionScreen)(nil)
	_ screen.EscapeHandler    = (*SessionScreen)(nil)
	_ screen.ProgressProvider = (*SessionScreen)(nil)
)

// New creates a session screen that provisions cfg on Init.
func New(svc provision.Service, cfg provision.Config) *SessionScreen {
	return &SessionScreen{
		svc:    svc,
		cfg:    cfg,
		engine: sess.NewEngine(),
		input:  components.NewTextInput("Type the translation...", 80),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.startSession(), s.input.Init())
}

func (s *SessionScreen) Title() string {
	return "Practice"
}

func (s *SessionScreen) HandlesEscape() bool {
	switch s.phase {
	case phaseAnswering, phaseFeedback, phaseSubmitting:
		return true
	}
	return false
}

func (s *SessionScreen) HeaderProgress() string {
	p := s.engine.Progress()
	if p.Total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", p.Retired, p.Total)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.phase {
	case phaseAnswering:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Skip"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	case phaseError:
		return []layout.KeyHint{
			{Key: "any key", Description: "Back"},
		}
	}
	return nil
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		return s.handleStarted(msg)

	case resultsSubmittedMsg:
		report := summary.Report{
			Summary:   msg.Summary,
			Items:     s.items,
			Receipt:   msg.Receipt,
			SubmitErr: msg.Err,
		}
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(report)}
		}

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering && !s.confirmQuit {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) startSession() tea.Cmd {
	svc, cfg := s.svc, s.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		p, err := svc.Start(ctx, cfg)
		return sessionStartedMsg{Provisioned: p, Err: err}
	}
}

func (s *SessionScreen) handleStarted(msg sessionStartedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		return s.fail(fmt.Errorf("start session: %w", msg.Err))
	}
	if err := s.engine.Initialize(msg.Provisioned.SessionID, msg.Provisioned.SessionItems()); err != nil {
		return s.fail(err)
	}
	s.items = make(map[string]provision.Item, len(msg.Provisioned.Items))
	for _, it := range msg.Provisioned.Items {
		s.items[it.ID] = it
	}
	s.phase = phaseAnswering
	s.current, _ = s.engine.CurrentItem()
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.phase == phaseError {
		return s, router.Pop()
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.engine.Reset()
			return s, router.Pop()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.phase {
	case phaseFeedback:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		return s.advance()

	case phaseAnswering:
		switch key {
		case "esc":
			s.confirmQuit = true
			return s, nil
		case "enter":
			return s.submitAnswer()
		case "tab":
			return s.skip()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	raw := s.input.Value()
	if strings.TrimSpace(raw) == "" {
		return s, nil
	}
	out, err := s.engine.SubmitAnswer(raw)
	if err != nil {
		return s.fail(err)
	}
	s.last = out
	s.notice = ""
	s.input.Submit(out.Correct)
	s.phase = phaseFeedback
	return s, nil
}

func (s *SessionScreen) skip() (screen.Screen, tea.Cmd) {
	if err := s.engine.SkipWord(); err != nil {
		return s.fail(err)
	}
	s.notice = fmt.Sprintf("Skipped %q. It will come back later.", s.current.Prompt)
	s.input.Reset()
	s.current, _ = s.engine.CurrentItem()
	return s, nil
}

// advance leaves the feedback view for the next item, or submits the
// results once every item is retired.
func (s *SessionScreen) advance() (screen.Screen, tea.Cmd) {
	if s.engine.IsComplete() {
		return s.finish()
	}
	s.phase = phaseAnswering
	s.input.Reset()
	s.current, _ = s.engine.CurrentItem()
	return s, nil
}

func (s *SessionScreen) finish() (screen.Screen, tea.Cmd) {
	sum, err := s.engine.Summary()
	if err != nil {
		return s.fail(err)
	}
	s.phase = phaseSubmitting
	svc := s.svc
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		receipt, err := svc.Submit(ctx, sum.SessionID, sum.Results())
		return resultsSubmittedMsg{Summary: sum, Receipt: receipt, Err: err}
	}
}

func (s *SessionScreen) fail(err error) (screen.Screen, tea.Cmd) {
	s.phase = phaseError
	s.errMsg = err.Error()
	return s, nil
}

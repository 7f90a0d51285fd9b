// Package setup is the session configuration screen.
package setup

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	sessionscreen "github.com/abhisek/wordiz/internal/screens/session"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Picker rows in display order. The Start button follows the last one.
const (
	rowNative = iota
	rowTested
	rowDifficulty
	rowDomain
	rowSessionType
	rowStart
)

type catalogLoadedMsg struct {
	Languages []vocab.Language
	Domains   []vocab.Domain
	Err       error
}

// SetupScreen lets the learner pick languages and filters for a session.
type SetupScreen struct {
	svc      provision.Service
	defaults provision.Config

	pickers []components.Picker
	focus   int
	loaded  bool
	errMsg  string
	warning string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a setup screen. Fields set in defaults preselect the
// matching options.
func New(svc provision.Service, defaults provision.Config) *SetupScreen {
	return &SetupScreen{svc: svc, defaults: defaults}
}

func (s *SetupScreen) Init() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		langs, err := svc.Languages(ctx)
		if err != nil {
			return catalogLoadedMsg{Err: err}
		}
		domains, err := svc.Domains(ctx)
		return catalogLoadedMsg{Languages: langs, Domains: domains, Err: err}
	}
}

func (s *SetupScreen) Title() string {
	return "New Session"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		if len(msg.Languages) < 2 {
			s.errMsg = "the word catalog needs at least two languages (try: wordiz words import)"
			return s, nil
		}
		s.pickers = s.buildPickers(msg.Languages, msg.Domains)
		return s, nil

	case tea.KeyPressMsg:
		if !s.loaded || s.errMsg != "" {
			return s, nil
		}
		switch msg.String() {
		case "up", "k", "shift+tab":
			if s.focus > 0 {
				s.focus--
			}
			return s, nil
		case "down", "j", "tab":
			if s.focus < rowStart {
				s.focus++
			}
			return s, nil
		case "enter":
			return s.start()
		}
		if s.focus < rowStart {
			s.pickers[s.focus] = s.pickers[s.focus].Update(msg)
			s.warning = ""
		}
	}
	return s, nil
}

func (s *SetupScreen) buildPickers(langs []vocab.Language, domains []vocab.Domain) []components.Picker {
	langOpts := make([]components.Option, 0, len(langs))
	for _, l := range langs {
		langOpts = append(langOpts, components.Option{Value: l.Code, Label: l.Name})
	}

	native := s.defaults.NativeLanguage
	if native == "" {
		native = "en"
	}
	tested := s.defaults.LanguageTested
	if tested == "" || tested == native {
		for _, l := range langs {
			if l.Code != native {
				tested = l.Code
				break
			}
		}
	}

	diffOpts := make([]components.Option, 0, len(vocab.AllDifficulties))
	for _, d := range vocab.AllDifficulties {
		diffOpts = append(diffOpts, components.Option{Value: string(d), Label: d.Label()})
	}

	domainOpts := []components.Option{{Value: vocab.AllDomains, Label: "All topics"}}
	for _, d := range domains {
		domainOpts = append(domainOpts, components.Option{Value: d.Code, Label: d.Name})
	}

	typeOpts := make([]components.Option, 0, len(vocab.AllSessionTypes))
	for _, t := range vocab.AllSessionTypes {
		typeOpts = append(typeOpts, components.Option{Value: string(t), Label: t.Label()})
	}

	return []components.Picker{
		rowNative:      components.NewPicker("I speak", langOpts, native),
		rowTested:      components.NewPicker("I'm learning", langOpts, tested),
		rowDifficulty:  components.NewPicker("Difficulty", diffOpts, strings.ToUpper(string(s.defaults.Difficulty))),
		rowDomain:      components.NewPicker("Topic", domainOpts, strings.ToUpper(s.defaults.Domain)),
		rowSessionType: components.NewPicker("Session type", typeOpts, strings.ToUpper(string(s.defaults.SessionType))),
	}
}

// Config returns the session config built from the pickers.
func (s *SetupScreen) Config() provision.Config {
	cfg := provision.Config{
		NativeLanguage: s.pickers[rowNative].Value(),
		LanguageTested: s.pickers[rowTested].Value(),
		Difficulty:     vocab.Difficulty(s.pickers[rowDifficulty].Value()),
		SessionType:    vocab.SessionType(s.pickers[rowSessionType].Value()),
	}
	if d := s.pickers[rowDomain].Value(); d != vocab.AllDomains {
		cfg.Domain = d
	}
	return cfg
}

func (s *SetupScreen) start() (screen.Screen, tea.Cmd) {
	cfg, err := s.Config().Normalize()
	if err != nil {
		s.warning = strings.TrimPrefix(err.Error(), provision.ErrInvalidConfig.Error()+": ")
		return s, nil
	}
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: sessionscreen.New(s.svc, cfg)}
	}
}

func (s *SetupScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading languages...")
	}

	cw := components.ContentWidth(width)
	var rows []string
	for i, p := range s.pickers {
		rows = append(rows, p.View(i == s.focus, 16))
	}
	form := lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(rows, "\n\n"))

	sections := []string{
		theme.Title.Render("Set up your session"),
		components.Card(form, cw),
		components.Button("START", s.focus == rowStart, false, components.ButtonWidth),
	}
	if s.warning != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(s.warning))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

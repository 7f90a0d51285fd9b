package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Limit is how many past sessions the screen loads.
const Limit = 50

type historyLoadedMsg struct {
	Sessions []provision.SessionInfo
	Err      error
}

type detailLoadedMsg struct {
	ID     string
	Detail *provision.SessionDetail
	Err    error
}

// HistoryScreen lists past sessions. Enter expands a session's words.
type HistoryScreen struct {
	svc      provision.Service
	sessions []provision.SessionInfo
	details  map[string]*provision.SessionDetail
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc provision.Service) *HistoryScreen {
	return &HistoryScreen{
		svc:      svc,
		details:  make(map[string]*provision.SessionDetail),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sessions, err := svc.History(ctx, Limit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) loadDetail(id string) tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		d, err := svc.Session(ctx, id)
		return detailLoadedMsg{ID: id, Detail: d, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case detailLoadedMsg:
		if msg.Err == nil {
			s.details[msg.ID] = msg.Detail
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].ID
			if s.expanded[s.selected] && s.details[id] == nil {
				return s, s.loadDetail(id)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, info := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+sessionLine(info))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetail(info.ID, width))
		}
	}

	return b.String()
}

// sessionLine renders one row, e.g.
// "Jan 02, 2026  EN → ES  ANIMALS  Easy  80%".
func sessionLine(info provision.SessionInfo) string {
	domain := info.Domain
	if domain == "" {
		domain = vocab.AllDomains
	}
	score := "in progress"
	if info.Score != nil {
		score = fmt.Sprintf("%d%%", *info.Score)
	}
	return fmt.Sprintf("%s  %s → %s  %-10s  %-6s  %s",
		info.CreatedAt.Local().Format("Jan 02, 2006"),
		strings.ToUpper(info.NativeLanguage),
		strings.ToUpper(info.LanguageTested),
		domain,
		info.Difficulty.Label(),
		score,
	)
}

func (s *HistoryScreen) renderDetail(id string, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	d := s.details[id]
	if d == nil {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Loading words...")) + "\n"
	}

	var b strings.Builder
	for _, w := range d.Words {
		mark, style := "·", lipgloss.NewStyle().Foreground(theme.TextDim)
		if w.Correct != nil {
			if *w.Correct {
				mark, style = "✓", lipgloss.NewStyle().Foreground(theme.Success)
			} else {
				mark, style = "✗", lipgloss.NewStyle().Foreground(theme.Error)
			}
		}
		line := fmt.Sprintf("    %s %s → %s", mark, w.Prompt, w.ExpectedAnswer)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

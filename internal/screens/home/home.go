package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/screens/history"
	"github.com/abhisek/wordiz/internal/screens/setup"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/layout"
)

// stats summarizes the learner's recent sessions. last is -1 when no
// session has been scored.
type stats struct {
	completed int
	average   int
	last      int
}

type statsLoadedMsg struct {
	Sessions []provision.SessionInfo
	Err      error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	svc    provision.Service
	menu   components.Menu
	stats  stats
	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen. defaults preselects the setup screen.
// notice, when set, is shown under the menu (e.g. an update hint).
func New(svc provision.Service, defaults provision.Config, notice string) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START PRACTICE", Action: func() tea.Cmd {
			return router.Push(setup.New(svc, defaults))
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return router.Push(history.New(svc))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		svc:    svc,
		menu:   components.NewMenu(items),
		stats:  stats{last: -1},
		notice: notice,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Refresh reloads stats when the learner comes back from a session.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	svc := h.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sessions, err := svc.History(ctx, history.Limit)
		return statsLoadedMsg{Sessions: sessions, Err: err}
	}
}

// computeStats averages the scored sessions. Sessions arrive newest first.
func computeStats(sessions []provision.SessionInfo) stats {
	st := stats{last: -1}
	total := 0
	for _, s := range sessions {
		if s.Score == nil {
			continue
		}
		if st.last < 0 {
			st.last = *s.Score
		}
		st.completed++
		total += *s.Score
	}
	st.average = session.Rate(total, 100*st.completed)
	return st
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		// Stats are decoration; a failed load keeps the old numbers.
		if msg.Err == nil {
			h.stats = computeStats(msg.Sessions)
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < layout.CompactHeight+6 || width < 90
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(RenderMascot(mascotFor(h.stats.last))))
	}
	sections = append(sections, components.StatsBar(statsText(h.stats, compact), cw))
	sections = append(sections, components.MenuButtons(
		h.menu.Labels(), h.menu.Selected, cw, h.menu.DisabledSet(), compact))
	if h.notice != "" {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Faint(true).
			Render(h.notice))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

// Report is everything the summary screen shows about a finished session.
type Report struct {
	Summary *session.Summary

	// Items maps item ids to the provisioned items for display.
	Items map[string]provision.Item

	// Receipt is nil when the submission failed with SubmitErr.
	Receipt   *provision.Receipt
	SubmitErr error
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	report Report
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(report Report) *SummaryScreen {
	return &SummaryScreen{report: report}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.report.Summary
	if sum == nil {
		return ""
	}
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.Title.Render("Session complete!")))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().
		Foreground(rateColor(sum.SuccessRate)).
		Bold(true).
		Render(fmt.Sprintf("%d%%", sum.SuccessRate))))
	b.WriteString("\n")
	b.WriteString(center(theme.Hint.Render(fmt.Sprintf("%d of %d words right on the first try",
		len(sum.SuccessfulFirstTry), sum.TotalItems))))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))

	if len(sum.SuccessfulFirstTry) > 0 {
		b.WriteString(center(theme.Correct.Render("First try")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")
		for _, r := range sum.SuccessfulFirstTry {
			b.WriteString(center(theme.Body.Render(s.wordLine(r))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(sum.Unsuccessful) > 0 {
		b.WriteString(center(theme.Incorrect.Render("Keep practicing")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")
		for _, r := range sum.Unsuccessful {
			line := s.wordLine(r)
			if r.Skipped {
				line += "  (skipped)"
			} else if r.Attempts > 1 {
				line += fmt.Sprintf("  (%d tries)", r.Attempts)
			}
			b.WriteString(center(theme.Body.Render(line)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(center(s.submissionLine()))
	return b.String()
}

// wordLine renders "prompt → expected" for a ledger record.
func (s *SummaryScreen) wordLine(r session.AnswerRecord) string {
	it, ok := s.report.Items[r.ItemID]
	if !ok {
		return r.ItemID
	}
	return fmt.Sprintf("%s → %s", it.Prompt, it.ExpectedAnswer)
}

func (s *SummaryScreen) submissionLine() string {
	if s.report.SubmitErr != nil {
		return lipgloss.NewStyle().Foreground(theme.Error).
			Render(fmt.Sprintf("Results not saved: %v", s.report.SubmitErr))
	}
	if r := s.report.Receipt; r != nil {
		return theme.Hint.Render(fmt.Sprintf("Saved · score %d · %s",
			r.Score, r.CompletedAt.Local().Format("Jan 02 15:04")))
	}
	return ""
}

func rateColor(rate int) color.Color {
	switch {
	case rate >= 80:
		return theme.Success
	case rate >= 50:
		return theme.Highlight
	default:
		return theme.Accent
	}
}

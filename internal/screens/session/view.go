package session

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/provision"
	sess "github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	switch s.phase {
	case phaseLoading:
		return renderMessage(width, theme.TextDim, "Preparing your session...")
	case phaseSubmitting:
		return renderMessage(width, theme.TextDim, "Saving your results...")
	case phaseError:
		return renderMessage(width, theme.Error,
			fmt.Sprintf("Error: %s\n\nPress any key to go back.", s.errMsg))
	}
	return s.renderItem(width)
}

func (s *SessionScreen) renderItem(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var b strings.Builder

	p := s.engine.Progress()
	bar := components.QueueBar{Retired: p.Retired, Total: p.Total, Width: min(width-8, 50)}
	b.WriteString("\n")
	b.WriteString(center.Render(bar.View()))
	b.WriteString("\n\n\n")

	b.WriteString(center.Render(directionLine(s.current)))
	b.WriteString("\n\n")
	b.WriteString(center.Render(lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true).
		Render(s.current.Prompt)))
	b.WriteString("\n\n")

	b.WriteString(center.Render("Answer: " + s.input.View()))
	b.WriteString("\n\n")

	switch {
	case s.phase == phaseFeedback:
		b.WriteString(center.Render(s.renderFeedback()))
	case s.notice != "":
		b.WriteString(center.Render(theme.Hint.Render(s.notice)))
	}
	return b.String()
}

func (s *SessionScreen) renderFeedback() string {
	if s.last.Correct {
		return theme.Correct.Render("✓ Correct!")
	}
	lines := []string{
		theme.Incorrect.Render("✗ Not quite."),
		theme.Body.Render(fmt.Sprintf("Expected: %s", s.last.Expected)),
		theme.Hint.Render("This word will come back later."),
	}
	return strings.Join(lines, "\n")
}

// directionLine names the languages involved, e.g. "ES → EN".
func directionLine(it sess.Item) string {
	from := strings.ToUpper(it.Meta[provision.MetaPromptLanguage])
	to := strings.ToUpper(it.Meta[provision.MetaAnswerLanguage])
	if from == "" || to == "" {
		return theme.Hint.Render("Translate")
	}
	return theme.Hint.Render(fmt.Sprintf("Translate %s → %s", from, to))
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Abandon this session?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Your answers will not be saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Error).Render("[Y] Yes, abandon"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderMessage(width int, fg color.Color, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Render("\n\n\n" + text)
}

package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// QueueBar shows how many words of a session have been retired.
type QueueBar struct {
	Retired int
	Total   int
	Width   int
}

// View renders the bar followed by a "retired/total" counter. The bar is
// never narrower than four cells.
func (q QueueBar) View() string {
	counter := fmt.Sprintf("  %d/%d", q.Retired, q.Total)
	cells := max(q.Width-lipgloss.Width(counter), 4)

	filled := 0
	if q.Total > 0 {
		filled = min(max(cells*q.Retired/q.Total, 0), cells)
	}

	done := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
	todo := lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", cells-filled))
	return done + todo + lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)
}

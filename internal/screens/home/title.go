package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

const titleFull = `██╗    ██╗ ██████╗ ██████╗ ██████╗ ██╗███████╗
██║    ██║██╔═══██╗██╔══██╗██╔══██╗██║╚══███╔╝
██║ █╗ ██║██║   ██║██████╔╝██║  ██║██║  ███╔╝
██║███╗██║██║   ██║██╔══██╗██║  ██║██║ ███╔╝
╚███╔███╔╝╚██████╔╝██║  ██║██████╔╝██║███████╗
 ╚══╝╚══╝  ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚═╝╚══════╝`

const titleCompact = "W · O · R · D · I · Z"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true)

	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

// statsText renders the dashboard line from session stats.
func statsText(st stats, compact bool) string {
	sessionStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	avgStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	lastStyle := lipgloss.NewStyle().Foreground(theme.Info).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	last := dimStyle.Render("▶ NO SCORE YET")
	if st.last >= 0 {
		last = lastStyle.Render(fmt.Sprintf("▶ LAST %d%%", st.last))
	}

	if compact {
		return fmt.Sprintf("%s %s %s",
			sessionStyle.Render(fmt.Sprintf("★%d", st.completed)),
			avgStyle.Render(fmt.Sprintf("◆%d%%", st.average)),
			last,
		)
	}
	return fmt.Sprintf("%s  %s  %s",
		sessionStyle.Render(fmt.Sprintf("★ %d SESSIONS", st.completed)),
		avgStyle.Render(fmt.Sprintf("◆ AVG %d%%", st.average)),
		last,
	)
}

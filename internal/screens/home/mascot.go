package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // no recent score
	MascotCelebrating                      // last score 80% or better
	MascotAlert                            // last score below 50%
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ aÄñ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ aÄñ │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ aÄñ │
└─────┘`

// mascotFor picks the variant for the last session score; a negative
// score means none yet.
func mascotFor(last int) MascotVariant {
	switch {
	case last < 0:
		return MascotIdle
	case last >= 80:
		return MascotCelebrating
	case last < 50:
		return MascotAlert
	}
	return MascotIdle
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Highlight
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

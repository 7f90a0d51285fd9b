package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// Option is one choice of a Picker.
type Option struct {
	Value string
	Label string
}

// Picker cycles through a fixed list of options with left and right.
type Picker struct {
	Label    string
	Options  []Option
	Selected int
}

// NewPicker selects the option whose value is initial, or the first.
func NewPicker(label string, options []Option, initial string) Picker {
	p := Picker{Label: label, Options: options}
	for i, o := range options {
		if o.Value == initial {
			p.Selected = i
			break
		}
	}
	return p
}

// Value returns the selected option's value, or "" when empty.
func (p Picker) Value() string {
	if len(p.Options) == 0 {
		return ""
	}
	return p.Options[p.Selected].Value
}

// Update handles left/right cycling. Other keys are ignored.
func (p Picker) Update(msg tea.Msg) Picker {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(p.Options) == 0 {
		return p
	}
	switch kmsg.String() {
	case "left", "h":
		p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
	case "right", "l", "space":
		p.Selected = (p.Selected + 1) % len(p.Options)
	}
	return p
}

// View renders "Label   ‹ Option ›" with labelWidth padding.
func (p Picker) View(focused bool, labelWidth int) string {
	label := lipgloss.NewStyle().
		Width(labelWidth).
		Foreground(theme.TextDim).
		Render(p.Label)

	text := "(none)"
	if len(p.Options) > 0 {
		text = p.Options[p.Selected].Label
	}

	value := lipgloss.NewStyle().Foreground(theme.Text)
	if focused {
		value = value.Foreground(theme.Primary).Bold(true)
		text = fmt.Sprintf("‹ %s ›", text)
	} else {
		text = fmt.Sprintf("  %s  ", text)
	}
	return label + value.Render(text)
}

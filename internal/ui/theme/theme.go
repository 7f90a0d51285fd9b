// Package theme holds the Wordiz palette and shared text styles.
package theme

import (
	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#818CF8") // indigo, titles
	Secondary = lipgloss.Color("#2DD4BF") // teal, progress
	Accent    = lipgloss.Color("#FB923C") // orange, mascot and warnings
	Highlight = lipgloss.Color("#FDE047") // yellow, prompts and focus
	Info      = lipgloss.Color("#67E8F9") // cyan, stats

	Success = lipgloss.Color("#4ADE80")
	Error   = lipgloss.Color("#FB7185")

	Text    = lipgloss.Color("#F1F5F9")
	TextDim = lipgloss.Color("#94A3B8")
	BgDark  = lipgloss.Color("#0B1120")
	BgCard  = lipgloss.Color("#1E293B")
	Border  = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Body  = lipgloss.NewStyle().Foreground(Text)
	Hint  = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Correct and Incorrect mark answer feedback.
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

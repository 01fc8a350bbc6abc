// Package theme is the shared palette and text styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. Colors are chosen for a dark terminal background.
var (
	Primary   = lipgloss.Color("#7C83FD")
	Secondary = lipgloss.Color("#2DD4BF")
	Accent    = lipgloss.Color("#FBBF24")
	Success   = lipgloss.Color("#4ADE80")
	Error     = lipgloss.Color("#FB7185")
	Recording = lipgloss.Color("#DC2626")
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#8B95A7")
	BgCard    = lipgloss.Color("#1B2233")
	Border    = lipgloss.Color("#3A4457")
)

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	Title    = fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = fg(TextDim).Align(lipgloss.Center)
	Body     = fg(Text)
	Hint     = fg(TextDim).Italic(true)

	// Target is the sentence being practiced.
	Target = fg(Text).Bold(true)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)

	// Correct and Incorrect mark words in a writing diff.
	Correct   = fg(Success).Bold(true)
	Incorrect = fg(Error).Bold(true).Underline(true)

	RecordingBadge = fg(Text).Background(Recording).Bold(true).Padding(0, 1)
	ErrorText      = fg(Error)
)

// Score bands.
const (
	GoodScore = 80
	FairScore = 50
)

// ScoreColor maps a 0-100 score to its band color.
func ScoreColor(score int) color.Color {
	switch {
	case score >= GoodScore:
		return Success
	case score >= FairScore:
		return Accent
	}
	return Error
}

// ScoreStyle renders a score in its band color.
func ScoreStyle(score int) lipgloss.Style {
	return fg(ScoreColor(score)).Bold(true)
}

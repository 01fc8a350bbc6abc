package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/speakup/internal/ui/theme"
)

// ScoreBar draws "Label  ██████░░░░   72" in the score's band color.
type ScoreBar struct {
	Label string
	Score int
	Width int
}

func NewScoreBar(label string, score, width int) ScoreBar {
	return ScoreBar{Label: label, Score: score, Width: width}
}

func (b ScoreBar) View() string {
	score := min(max(b.Score, 0), 100)
	number := theme.ScoreStyle(score).Render(fmt.Sprintf("%5d", score))

	prefix := ""
	if b.Label != "" {
		prefix = theme.Body.Render(b.Label) + "  "
	}
	cells := max(b.Width-lipgloss.Width(prefix)-lipgloss.Width(number), 4)
	filled := cells * score / 100

	track := lipgloss.NewStyle().Foreground(theme.ScoreColor(score)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", cells-filled))
	return prefix + track + number
}

package exercise

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/ui/theme"
)

// renderSummary shows the drill's phrases with the score each ended on.
func renderSummary(phrases []phrase.SavedPhrase, cw int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Exercise complete!"))
	b.WriteString("\n\n")

	total, scored := 0, 0
	for _, p := range phrases {
		if p.Scored() {
			total += *p.LastScore
			scored++
		}
	}
	statsLine := fmt.Sprintf("Phrases: %d", len(phrases))
	if scored > 0 {
		statsLine += fmt.Sprintf("        Average: %d", total/scored)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(divider)
	b.WriteString("\n")

	for _, p := range phrases {
		score := lipgloss.NewStyle().Foreground(theme.TextDim).Render("  --")
		if p.Scored() {
			score = theme.ScoreStyle(*p.LastScore).Render(fmt.Sprintf("%4d", *p.LastScore))
		}
		text := []rune(p.Text)
		if len(text) > cw-8 && cw > 9 {
			text = append(text[:cw-9], '…')
		}
		b.WriteString(score + "  " + theme.Body.Render(string(text)) + "\n")
	}
	return b.String()
}

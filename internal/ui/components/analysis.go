package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/speakup/internal/speech"
	"github.com/abhisek/speakup/internal/ui/theme"
)

// AnalysisView renders a pronunciation analysis: score bar, what was
// heard, numbered mispronounced words, feedback and tips.
func AnalysisView(res *speech.AnalysisResult, width int) string {
	if res == nil {
		return ""
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(NewScoreBar("Accuracy", res.AccuracyScore, width).View())
	if res.IsPerfect {
		b.WriteString("\n" + theme.Correct.Render("Perfect!"))
	}

	if res.Transcription != "" {
		b.WriteString("\n\n" + dim.Render("Heard: "))
		b.WriteString(wrap.Render(theme.Body.Render(res.Transcription)))
	}

	if len(res.MispronouncedWords) > 0 {
		b.WriteString("\n\n" + dim.Render("Work on:") + "\n")
		words := make([]string, 0, len(res.MispronouncedWords))
		for i, w := range res.MispronouncedWords {
			label := theme.Incorrect.Render(w)
			if i < 9 {
				label = dim.Render(fmt.Sprintf("%d ", i+1)) + label
			}
			words = append(words, label)
		}
		b.WriteString(wrap.Render(strings.Join(words, "   ")))
	}

	if res.Feedback != "" {
		b.WriteString("\n\n" + wrap.Render(theme.Body.Render(res.Feedback)))
	}
	if res.Tips != "" {
		b.WriteString("\n\n" + wrap.Render(lipgloss.NewStyle().Foreground(theme.Secondary).Render("Tip: "+res.Tips)))
	}
	return b.String()
}

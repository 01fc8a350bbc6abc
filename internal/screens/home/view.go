package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/speakup/internal/speech"
	"github.com/abhisek/speakup/internal/ui/theme"
)

const titleArt = `┏━┓┏━┓┏━╸┏━┓╻┏ ╻ ╻┏━┓
┗━┓┣━┛┣╸ ┣━┫┣┻┓┃ ┃┣━┛
┗━┛╹  ┗━╸╹ ╹╹ ╹┗━┛╹  `

// contentWidth returns the uniform inner width shared by every section.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

func renderHome(menu string, stats libraryStats, difficulty speech.Difficulty, notice string, width int) string {
	cw := contentWidth(width)
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	sections := []string{
		center.Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(titleArt)),
		center.Render(theme.Subtitle.Render("your terminal pronunciation coach")),
		center.Render(renderStatsBar(stats, difficulty, cw)),
		center.Render(lipgloss.NewStyle().Width(cw).Render(menu)),
	}
	if notice != "" {
		sections = append(sections, center.Render(theme.ErrorText.Render(notice)))
	}
	return "\n" + strings.Join(sections, "\n\n")
}

func renderStatsBar(stats libraryStats, difficulty speech.Difficulty, cw int) string {
	value := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := []string{
		value.Render(fmt.Sprint(stats.Phrases)) + dim.Render(" saved"),
		value.Render(fmt.Sprint(stats.Practiced)) + dim.Render(" practiced"),
	}
	if stats.Practiced > 0 {
		parts = append(parts, theme.ScoreStyle(stats.Average).Render(fmt.Sprint(stats.Average))+dim.Render(" avg"))
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(difficulty.Label()))

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Render(strings.Join(parts, dim.Render("  ·  ")))
}

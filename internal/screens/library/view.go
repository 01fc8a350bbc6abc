package library

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/ui/theme"
)

func renderLibrary(s *LibraryScreen, width, height int) string {
	cw := min(max(width-8, 20), 80)
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var sections []string

	switch s.mode {
	case modeAdding:
		sections = append(sections, theme.Subtitle.Render("New phrase"), s.input.View(cw))
	case modeExporting:
		sections = append(sections,
			theme.Subtitle.Render("Export to file"),
			dim.Render("Use a .xlsx name for a spreadsheet, anything else writes a JSON backup."),
			s.input.View(cw))
	case modeImporting:
		sections = append(sections,
			theme.Subtitle.Render("Import from file"),
			dim.Render("A JSON backup replaces matching phrases. A .xlsx sheet only adds new ones."),
			s.input.View(cw))
	case modeConfirmDelete:
		if s.selected < len(s.phrases) {
			sections = append(sections, theme.ErrorText.Render(
				fmt.Sprintf("Delete %q? (y/n)", truncate(s.phrases[s.selected].Text, cw-14))))
		}
	}

	if s.busy {
		sections = append(sections, dim.Render("Working..."))
	}
	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Render(theme.ErrorText.Render(s.errMsg)))
	}

	// Rows left for the list after the sections above.
	used := 2
	for _, sec := range sections {
		used += lipgloss.Height(sec) + 1
	}
	sections = append(sections, renderList(s.phrases, s.selected, cw, max(height-used, 3)))

	block := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return "\n" + center.Render(block)
}

func renderList(phrases []phrase.SavedPhrase, selected, cw, rows int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if len(phrases) == 0 {
		return dim.Italic(true).Render("No saved phrases yet. Press a to add one.")
	}

	// Each entry takes two lines.
	visible := max(rows/2, 1)
	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	end := min(start+visible, len(phrases))

	var b strings.Builder
	for i := start; i < end; i++ {
		p := phrases[i]
		cursor := "  "
		text := theme.Unselected.Render(truncate(p.Text, cw-10))
		if i == selected {
			cursor = theme.Selected.Render("▸ ")
			text = theme.Selected.Render(truncate(p.Text, cw-10))
		}

		score := dim.Render("  --")
		if p.Scored() {
			score = theme.ScoreStyle(*p.LastScore).Render(fmt.Sprintf("%4d", *p.LastScore))
		}
		b.WriteString(cursor + score + "  " + text + "\n")

		meta := fmt.Sprintf("practiced %d×", p.PracticeCount)
		if p.Note != "" {
			meta += " · " + p.Note
		}
		b.WriteString("        " + dim.Render(truncate(meta, cw-8)) + "\n")
	}
	if len(phrases) > visible {
		b.WriteString(dim.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(phrases))))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 2 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

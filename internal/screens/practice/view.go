package practice

import (
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/ui"
	"github.com/abhisek/speakup/internal/ui/components"
	"github.com/abhisek/speakup/internal/ui/theme"
)

func contentWidth(frameWidth int) int {
	return min(max(frameWidth-8, 20), 72)
}

func renderPractice(s *PracticeScreen, width int) string {
	cw := contentWidth(width)
	ctrl := s.svc.Session
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var sections []string

	if s.editing {
		sections = append(sections,
			theme.Subtitle.Render("What would you like to say?"),
			s.input.View(cw),
		)
	} else {
		target := ctrl.Target()
		if strings.TrimSpace(target) == "" {
			target = dim.Render("No sentence yet. Press e to type one.")
		} else {
			target = theme.Target.Render(target)
		}
		card := theme.Card.Width(cw).Render(target)
		sections = append(sections, card)

		meta := dim.Render("Difficulty: ") + lipgloss.NewStyle().Foreground(theme.Secondary).Render(s.svc.Difficulty().Label())
		if id := ctrl.LinkedPhraseID(); id != "" {
			meta += dim.Render("   ·   saved in library")
		}
		sections = append(sections, meta)
	}

	sections = append(sections, renderStatus(s, cw))

	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Render(theme.ErrorText.Render(s.errMsg)))
	}

	block := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return "\n" + center.Render(block)
}

func renderStatus(s *PracticeScreen, cw int) string {
	ctrl := s.svc.Session
	if s.suggesting {
		return s.spinner.View() + " Thinking of a sentence..."
	}

	switch ctrl.Status() {
	case sess.Recording:
		return theme.RecordingBadge.Render("● REC") + "  " + theme.Body.Render("Speak now. Press space when done.")
	case sess.Analyzing:
		return s.spinner.View() + " Listening to your recording..."
	case sess.Result:
		return components.AnalysisView(ctrl.Result(), cw)
	case sess.Error:
		return lipgloss.NewStyle().Width(cw).Render(theme.ErrorText.Render(ui.Describe(ctrl.Err())))
	}

	if s.playing {
		return theme.Hint.Render("Playing...")
	}
	return theme.Hint.Render("Press space and read the sentence aloud.")
}

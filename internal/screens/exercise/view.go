package exercise

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	drill "github.com/abhisek/speakup/internal/exercise"
	sess "github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/ui"
	"github.com/abhisek/speakup/internal/ui/components"
	"github.com/abhisek/speakup/internal/ui/theme"
)

func renderExercise(s *ExerciseScreen, width int) string {
	cw := min(max(width-8, 20), 72)
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	wrap := lipgloss.NewStyle().Width(cw)

	if s.startErr != nil {
		return "\n\n" + center.Render(wrap.Render(theme.ErrorText.Render(ui.Describe(s.startErr))))
	}

	eng := s.svc.Exercise
	var sections []string

	if eng.Step() == drill.StepFinished {
		sections = append(sections, renderSummary(eng.Phrases(), cw))
	} else {
		sections = append(sections, renderProgress(eng, cw))
		sections = append(sections, renderStep(s, cw)...)
	}

	if s.errMsg != "" {
		sections = append(sections, wrap.Render(theme.ErrorText.Render(s.errMsg)))
	}

	return "\n" + center.Render(wrap.Render(strings.Join(sections, "\n\n")))
}

func renderProgress(eng *drill.Engine, cw int) string {
	i, n := eng.Position()
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("Phrase %d of %d", i+1, n))
	step := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	switch eng.Step() {
	case drill.StepWriting:
		return label + "   " + step.Render("WRITE")
	case drill.StepSpeaking:
		return label + "   " + step.Render("SPEAK")
	}
	return label + "   " + step.Render("RESULT")
}

func renderStep(s *ExerciseScreen, cw int) []string {
	eng := s.svc.Exercise
	cur, ok := eng.Current()
	if !ok {
		return nil
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	if eng.Step() == drill.StepWriting {
		hint := fmt.Sprintf("%d words. Press ctrl+l to hear it.", len(strings.Fields(cur.Text)))
		if cur.Note != "" {
			hint = cur.Note + "\n" + hint
		}
		return []string{
			theme.Card.Width(cw).Render(dim.Render(hint)),
			s.input.View(cw),
		}
	}

	out := []string{theme.Card.Width(cw).Render(theme.Target.Render(cur.Text))}
	if w := eng.WritingResult(); w != nil {
		out = append(out, renderWriting(w, cw))
	}

	ctrl := s.svc.Session
	switch {
	case eng.Step() == drill.StepSpeaking:
		switch ctrl.Status() {
		case sess.Recording:
			out = append(out, theme.RecordingBadge.Render("● REC")+"  "+theme.Body.Render("Say the sentence. Press space when done."))
		case sess.Analyzing:
			out = append(out, s.spinner.View()+" Listening to your recording...")
		case sess.Error:
			out = append(out, lipgloss.NewStyle().Width(cw).Render(theme.ErrorText.Render(ui.Describe(ctrl.Err()))))
		default:
			out = append(out, theme.Hint.Render("Press space and read the sentence aloud."))
		}
	default:
		if _, spoken := eng.SpeakingScore(); spoken {
			out = append(out, components.AnalysisView(ctrl.Result(), cw))
		} else {
			out = append(out, theme.Hint.Render("Now press space and say it."))
		}
	}
	if s.playing {
		out = append(out, dim.Render("Playing..."))
	}
	return out
}

func renderWriting(w *drill.WritingResult, cw int) string {
	words := make([]string, 0, len(w.Diff))
	for _, d := range w.Diff {
		if d.IsCorrect {
			words = append(words, theme.Correct.Render(d.Word))
		} else {
			words = append(words, theme.Incorrect.Render(d.Word))
		}
	}
	bar := components.NewScoreBar("Writing", w.Score, cw).View()
	return bar + "\n" + lipgloss.NewStyle().Width(cw).Render(strings.Join(words, " "))
}

package exercise

import (
	"context"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	drill "github.com/abhisek/speakup/internal/exercise"
	sess "github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/router"
	"github.com/abhisek/speakup/internal/screen"
	"github.com/abhisek/speakup/internal/ui"
	"github.com/abhisek/speakup/internal/ui/components"
	"github.com/abhisek/speakup/internal/ui/layout"
)

// ExerciseScreen drills the saved phrases: write each one, then say it.
type ExerciseScreen struct {
	svc     screen.Services
	input   components.TextInput
	spinner spinner.Model
	playing bool
	// startErr is set when the drill could not start; the screen then only
	// shows it and waits for esc.
	startErr error
	errMsg   string
}

var _ screen.Screen = (*ExerciseScreen)(nil)
var _ screen.KeyHintProvider = (*ExerciseScreen)(nil)

// New creates an exercise screen. The drill starts in Init.
func New(svc screen.Services) *ExerciseScreen {
	return &ExerciseScreen{
		svc:     svc,
		input:   components.NewTextInput("Type the sentence you hear...", 300),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *ExerciseScreen) Init() tea.Cmd {
	if s.svc.Exercise.Active() {
		return s.input.Init()
	}
	if err := s.svc.Exercise.Start(); err != nil {
		s.startErr = err
		return nil
	}
	s.input.Reset()
	return s.input.Init()
}

func (s *ExerciseScreen) Title() string {
	return "Exercise"
}

func (s *ExerciseScreen) KeyHints() []layout.KeyHint {
	if s.startErr != nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	eng := s.svc.Exercise
	switch eng.Step() {
	case drill.StepWriting:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Check"},
			{Key: "Ctrl+L", Description: "Listen"},
			{Key: "Esc", Description: "Quit drill"},
		}
	case drill.StepSpeaking:
		switch s.svc.Session.Status() {
		case sess.Recording:
			return []layout.KeyHint{{Key: "Space", Description: "Stop & analyze"}}
		case sess.Analyzing:
			return []layout.KeyHint{{Key: "", Description: "Analyzing..."}}
		case sess.Error:
			return []layout.KeyHint{
				{Key: "R", Description: "Try again"},
				{Key: "Esc", Description: "Quit drill"},
			}
		}
		return []layout.KeyHint{
			{Key: "Space", Description: "Record"},
			{Key: "L", Description: "Listen"},
			{Key: "Esc", Description: "Quit drill"},
		}
	case drill.StepResult:
		if _, ok := eng.SpeakingScore(); ok {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Next"},
				{Key: "L", Description: "Listen"},
				{Key: "Esc", Description: "Quit drill"},
			}
		}
		return []layout.KeyHint{
			{Key: "Space", Description: "Say it"},
			{Key: "L", Description: "Listen"},
			{Key: "Esc", Description: "Quit drill"},
		}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Done"}}
}

func (s *ExerciseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.RecordingStartedMsg:
		if msg.Err != nil {
			slog.Warn("start recording", "error", msg.Err)
		}
		return s, nil

	case screen.AnalysisDoneMsg:
		if err := s.svc.Session.Complete(context.Background(), msg.Outcome); err != nil {
			slog.Warn("record speaking score", "error", err)
			s.errMsg = ui.Describe(err)
		}
		return s, nil

	case screen.PlaybackDoneMsg:
		s.playing = false
		if msg.Err != nil {
			s.errMsg = ui.Describe(msg.Err)
		}
		return s, nil

	case spinner.TickMsg:
		if s.svc.Session.Status() != sess.Analyzing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.svc.Exercise.Step() == drill.StepWriting {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExerciseScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		return s, s.quit()
	}
	if s.startErr != nil {
		return s, nil
	}

	eng := s.svc.Exercise
	switch eng.Step() {
	case drill.StepWriting:
		return s.handleWritingKey(msg)

	case drill.StepResult:
		s.errMsg = ""
		if _, ok := eng.SpeakingScore(); ok {
			switch key {
			case "enter", "n":
				return s, s.next()
			case "l":
				return s, s.listen()
			}
			return s, nil
		}
		switch key {
		case "space":
			if err := eng.BeginSpeaking(); err != nil {
				s.errMsg = ui.Describe(err)
				return s, nil
			}
			return s, s.svc.StartRecording()
		case "l":
			return s, s.listen()
		}

	case drill.StepSpeaking:
		return s.handleSpeakingKey(key)

	case drill.StepFinished:
		if key == "enter" || key == "space" {
			return s, s.quit()
		}
	}
	return s, nil
}

func (s *ExerciseScreen) handleWritingKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if strings.TrimSpace(s.input.Value()) == "" {
			return s, nil
		}
		eng := s.svc.Exercise
		if err := eng.SetInput(s.input.Value()); err != nil {
			s.errMsg = ui.Describe(err)
			return s, nil
		}
		s.errMsg = ""
		if _, err := eng.CheckWriting(context.Background()); err != nil {
			slog.Warn("record writing score", "error", err)
			s.errMsg = ui.Describe(err)
		}
		return s, nil
	case "ctrl+l":
		return s, s.listen()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ExerciseScreen) handleSpeakingKey(key string) (screen.Screen, tea.Cmd) {
	ctrl := s.svc.Session
	switch ctrl.Status() {
	case sess.Recording:
		if key == "space" || key == "enter" {
			cmd, err := s.svc.StopRecording()
			if err != nil {
				slog.Warn("stop recording", "error", err)
				return s, nil
			}
			return s, tea.Batch(cmd, s.spinner.Tick)
		}
	case sess.Analyzing:
	case sess.Error:
		if key == "r" {
			ctrl.Reset()
		}
	default:
		switch key {
		case "space":
			s.errMsg = ""
			return s, s.svc.StartRecording()
		case "l":
			return s, s.listen()
		}
	}
	return s, nil
}

func (s *ExerciseScreen) next() tea.Cmd {
	if err := s.svc.Exercise.Next(); err != nil {
		s.errMsg = ui.Describe(err)
		return nil
	}
	s.input.Reset()
	return s.input.Init()
}

func (s *ExerciseScreen) listen() tea.Cmd {
	cur, ok := s.svc.Exercise.Current()
	if !ok || s.playing {
		return nil
	}
	s.playing = true
	return s.svc.Speak(cur.Text)
}

// quit abandons the drill and leaves the screen. A running capture is
// discarded by the engine.
func (s *ExerciseScreen) quit() tea.Cmd {
	if s.startErr == nil {
		s.svc.Exercise.Exit()
	}
	return router.Back
}

func (s *ExerciseScreen) View(width, height int) string {
	return renderExercise(s, width)
}

package practice

import (
	"context"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speakup/internal/phrase"
	sess "github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/router"
	"github.com/abhisek/speakup/internal/screen"
	"github.com/abhisek/speakup/internal/ui"
	"github.com/abhisek/speakup/internal/ui/components"
	"github.com/abhisek/speakup/internal/ui/layout"
)

// suggestionDoneMsg carries a generated practice sentence.
type suggestionDoneMsg struct {
	Text string
	Err  error
}

// PracticeScreen runs single practice attempts against a target sentence.
type PracticeScreen struct {
	svc        screen.Services
	input      components.TextInput
	editing    bool
	spinner    spinner.Model
	suggesting bool
	playing    bool
	notice     string
	errMsg     string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a practice screen for whatever target the session holds.
func New(svc screen.Services) *PracticeScreen {
	return &PracticeScreen{
		svc:     svc,
		input:   components.NewTextInput("Type a sentence to practice...", 300),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	if strings.TrimSpace(s.svc.Session.Target()) == "" {
		return s.startEditing()
	}
	return nil
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Use sentence"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	switch s.svc.Session.Status() {
	case sess.Recording:
		return []layout.KeyHint{
			{Key: "Space", Description: "Stop & analyze"},
			{Key: "Esc", Description: "Discard"},
		}
	case sess.Analyzing:
		return []layout.KeyHint{{Key: "", Description: "Analyzing..."}}
	case sess.Error:
		return []layout.KeyHint{
			{Key: "R", Description: "Reset"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Space", Description: "Record"},
		{Key: "E", Description: "Edit"},
		{Key: "L", Description: "Listen"},
	}
	if s.svc.Generator != nil {
		hints = append(hints, layout.KeyHint{Key: "G", Description: "Suggest"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "S", Description: "Save"},
		layout.KeyHint{Key: "D", Description: "Difficulty"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
	return hints
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.RecordingStartedMsg:
		if msg.Err != nil {
			slog.Warn("start recording", "error", msg.Err)
		}
		return s, nil

	case screen.AnalysisDoneMsg:
		if err := s.svc.Session.Complete(context.Background(), msg.Outcome); err != nil {
			slog.Warn("record score", "error", err)
			s.errMsg = ui.Describe(err)
		}
		return s, nil

	case screen.PlaybackDoneMsg:
		s.playing = false
		if msg.Err != nil {
			s.errMsg = ui.Describe(msg.Err)
		}
		return s, nil

	case suggestionDoneMsg:
		s.suggesting = false
		if msg.Err != nil {
			s.errMsg = ui.Describe(msg.Err)
			return s, nil
		}
		s.setTarget(msg.Text)
		return s, nil

	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.editing {
			return s.handleEditKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	ctrl := s.svc.Session
	key := msg.String()

	if key != "space" {
		s.notice = ""
	}

	switch ctrl.Status() {
	case sess.Recording:
		switch key {
		case "space", "enter":
			cmd, err := s.svc.StopRecording()
			if err != nil {
				slog.Warn("stop recording", "error", err)
				return s, nil
			}
			return s, tea.Batch(cmd, s.spinner.Tick)
		case "esc":
			ctrl.CancelRecording()
		}
		return s, nil

	case sess.Analyzing:
		return s, nil
	}

	switch key {
	case "esc":
		return s, router.Back
	case "space":
		if ctrl.Status() == sess.Error {
			return s, nil
		}
		s.errMsg = ""
		return s, s.svc.StartRecording()
	case "r":
		ctrl.Reset()
		s.errMsg = ""
	case "e":
		return s, s.startEditing()
	case "l":
		return s, s.speak(ctrl.Target())
	case "g":
		return s, s.suggest()
	case "s":
		s.save()
	case "d":
		if _, err := s.svc.CycleDifficulty(context.Background()); err != nil {
			s.errMsg = ui.Describe(err)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		res := ctrl.Result()
		i := int(key[0] - '1')
		if res != nil && i < len(res.MispronouncedWords) {
			return s, s.speak(res.MispronouncedWords[i])
		}
	}
	return s, nil
}

func (s *PracticeScreen) handleEditKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(s.input.Value())
		if text == "" {
			return s, nil
		}
		s.editing = false
		s.setTarget(text)
		return s, nil
	case "esc":
		s.editing = false
		if strings.TrimSpace(s.svc.Session.Target()) == "" {
			return s, router.Back
		}
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) startEditing() tea.Cmd {
	switch s.svc.Session.Status() {
	case sess.Recording, sess.Analyzing:
		return nil
	}
	s.editing = true
	s.input.SetValue(s.svc.Session.Target())
	return s.input.Init()
}

// setTarget replaces the sentence and links it to the library entry with
// the same text, if any.
func (s *PracticeScreen) setTarget(text string) {
	ctrl := s.svc.Session
	if !ctrl.SetTarget(text) {
		return
	}
	ctrl.Unlink()
	if s.svc.Library == nil {
		return
	}
	if p, ok := s.svc.Library.FindByText(text); ok {
		ctrl.Link(p.ID, s.svc.Library)
	}
}

func (s *PracticeScreen) save() {
	ctrl := s.svc.Session
	text := strings.TrimSpace(ctrl.Target())
	if s.svc.Library == nil || text == "" {
		return
	}
	if p, ok := s.svc.Library.FindByText(text); ok {
		ctrl.Link(p.ID, s.svc.Library)
		s.notice = "Already in your library."
		return
	}

	p, err := s.svc.Library.Add(context.Background(), text, "")
	if err != nil && !phrase.IsPersistenceError(err) {
		s.errMsg = ui.Describe(err)
		return
	}
	ctrl.Link(p.ID, s.svc.Library)
	s.notice = "Saved to your library."
	// A score shown right now belongs to the new entry too.
	if res := ctrl.Result(); res != nil && err == nil {
		err = s.svc.Library.UpdateScore(context.Background(), p.ID, res.AccuracyScore)
	}
	if err != nil {
		s.errMsg = ui.Describe(err)
	}
}

func (s *PracticeScreen) speak(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" || s.playing {
		return nil
	}
	s.playing = true
	s.errMsg = ""
	return s.svc.Speak(text)
}

func (s *PracticeScreen) suggest() tea.Cmd {
	gen := s.svc.Generator
	if gen == nil || s.suggesting {
		return nil
	}
	switch s.svc.Session.Status() {
	case sess.Recording, sess.Analyzing:
		return nil
	}
	s.suggesting = true
	s.errMsg = ""
	d := s.svc.Difficulty()
	return tea.Batch(func() tea.Msg {
		text, err := gen.GeneratePhrase(context.Background(), d)
		return suggestionDoneMsg{Text: text, Err: err}
	}, s.spinner.Tick)
}

func (s *PracticeScreen) busy() bool {
	return s.suggesting || s.svc.Session.Status() == sess.Analyzing
}

func (s *PracticeScreen) View(width, height int) string {
	return renderPractice(s, width)
}

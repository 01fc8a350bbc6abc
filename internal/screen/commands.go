package screen

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speakup/internal/practice"
)

// RecordingStartedMsg reports that the capture device was (or failed to
// be) acquired.
type RecordingStartedMsg struct {
	Err error
}

// AnalysisDoneMsg carries a finished analysis back to the UI goroutine,
// where it is applied with Session.Complete.
type AnalysisDoneMsg struct {
	Outcome practice.Outcome
}

// PlaybackDoneMsg reports the end of a text-to-speech playback.
type PlaybackDoneMsg struct {
	Err error
}

// ErrNoPlayback is reported when text-to-speech is not configured.
var ErrNoPlayback = errors.New("text-to-speech is not configured")

// StartRecording acquires the capture device off the UI goroutine.
func (s Services) StartRecording() tea.Cmd {
	return func() tea.Msg {
		return RecordingStartedMsg{Err: s.Session.StartRecording(context.Background())}
	}
}

// StopRecording ends the capture and returns the command that analyzes
// it. Both are nil when nothing was recording.
func (s Services) StopRecording() (tea.Cmd, error) {
	sub, err := s.Session.StopRecording()
	if err != nil || sub == nil {
		return nil, err
	}
	return func() tea.Msg {
		return AnalysisDoneMsg{Outcome: s.Session.Analyze(context.Background(), sub)}
	}, nil
}

// Speak plays text aloud off the UI goroutine.
func (s Services) Speak(text string) tea.Cmd {
	if s.Playback == nil {
		return func() tea.Msg { return PlaybackDoneMsg{Err: ErrNoPlayback} }
	}
	return func() tea.Msg {
		return PlaybackDoneMsg{Err: s.Playback.Speak(context.Background(), text)}
	}
}

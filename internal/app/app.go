// Package app hosts the Bubble Tea program: the screen stack inside a
// header and footer.
package app

import (
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/router"
	"github.com/abhisek/speakup/internal/screen"
	"github.com/abhisek/speakup/internal/screens/home"
	"github.com/abhisek/speakup/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Services screen.Services
}

var defaultHints = []layout.KeyHint{
	{Key: "Esc", Description: "Back"},
	{Key: "Ctrl+C", Description: "Quit"},
}

type model struct {
	svc    screen.Services
	nav    *router.Router
	width  int
	height int
}

func newModel(opts Options) *model {
	return &model{
		svc: opts.Services,
		nav: router.New(home.New(opts.Services)),
	}
}

func (m *model) Init() tea.Cmd {
	return m.nav.Current().Init()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			// A capture process must not outlive the program.
			if m.svc.Session != nil {
				m.svc.Session.CancelRecording()
			}
			return m, tea.Quit
		}
	}
	return m, m.nav.Update(msg)
}

func (m *model) status() layout.Status {
	st := layout.Status{Difficulty: m.svc.Difficulty().Label()}
	if m.svc.Library != nil {
		st.Phrases = m.svc.Library.Len()
	}
	if m.svc.Session != nil {
		st.Recording = m.svc.Session.Status() == practice.Recording
	}
	return st
}

func (m *model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if notice, small := layout.TooSmall(m.width, m.height); small {
		return notice
	}

	hints := defaultHints
	if hp, ok := m.nav.Current().(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	header := layout.Header(m.nav.Trail(), m.status(), m.width)
	footer := layout.Footer(hints, m.width)
	body := m.nav.View(m.width, layout.BodyHeight(header, footer, m.height))
	return layout.Frame(header, body, footer, m.width, m.height)
}

// Run starts the program and blocks until the user quits.
func Run(opts Options) error {
	if _, err := tea.NewProgram(newModel(opts)).Run(); err != nil {
		slog.Error("tui exited", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

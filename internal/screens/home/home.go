package home

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/router"
	"github.com/abhisek/speakup/internal/screen"
	"github.com/abhisek/speakup/internal/screens/exercise"
	"github.com/abhisek/speakup/internal/screens/library"
	"github.com/abhisek/speakup/internal/screens/practice"
	"github.com/abhisek/speakup/internal/ui"
	"github.com/abhisek/speakup/internal/ui/components"
	"github.com/abhisek/speakup/internal/ui/layout"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	svc    screen.Services
	menu   components.Menu
	stats  libraryStats
	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc screen.Services) *HomeScreen {
	menu := components.NewMenu(
		components.MenuItem{Key: "p", Label: "PRACTICE", Hint: "record a sentence, get feedback", Action: func() tea.Cmd {
			return router.Open(practice.New(svc))
		}},
		components.MenuItem{Key: "e", Label: "EXERCISE", Hint: "write, then speak your saved phrases", Action: func() tea.Cmd {
			return router.Open(exercise.New(svc))
		}},
		components.MenuItem{Key: "l", Label: "LIBRARY", Hint: "browse, import and export phrases", Action: func() tea.Cmd {
			return router.Open(library.New(svc))
		}},
		components.MenuItem{Key: "q", Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	return &HomeScreen{
		svc:  svc,
		menu: menu,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.svc.Library != nil {
		h.stats = computeStats(h.svc.Library.List())
	}
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter/P/E/L", Description: "Open"},
		{Key: "D", Description: "Difficulty"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "d" {
		h.notice = ""
		if _, err := h.svc.CycleDifficulty(context.Background()); err != nil {
			slog.Warn("save difficulty", "error", err)
			h.notice = ui.Describe(err)
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	return renderHome(h.menu.View(), h.stats, h.svc.Difficulty(), h.notice, width)
}

// libraryStats summarizes the library for the dashboard.
type libraryStats struct {
	Phrases   int
	Practiced int
	Average   int
}

func computeStats(phrases []phrase.SavedPhrase) libraryStats {
	s := libraryStats{Phrases: len(phrases)}
	total := 0
	for _, p := range phrases {
		if p.Scored() {
			s.Practiced++
			total += *p.LastScore
		}
	}
	if s.Practiced > 0 {
		s.Average = total / s.Practiced
	}
	return s
}

package screen

import (
	"context"
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speakup/internal/exercise"
	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/settings"
	"github.com/abhisek/speakup/internal/speech"
	"github.com/abhisek/speakup/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Services is what the screens operate on. Playback and Generator are nil
// when no AI provider is configured.
type Services struct {
	Library   *phrase.Library
	Session   *practice.Controller
	Exercise  *exercise.Engine
	Settings  *settings.Settings
	Playback  *speech.Playback
	Generator speech.PhraseGenerator
}

// CycleDifficulty moves to the next difficulty tier, applies it to the
// session and stores it. The new tier stays in effect when saving fails.
func (s Services) CycleDifficulty(ctx context.Context) (speech.Difficulty, error) {
	cur := speech.DefaultDifficulty
	if s.Settings != nil {
		cur = s.Settings.Difficulty()
	} else if s.Session != nil {
		cur = s.Session.Difficulty()
	}
	i := slices.Index(speech.Difficulties, cur)
	next := speech.Difficulties[(i+1)%len(speech.Difficulties)]

	if s.Session != nil {
		s.Session.SetDifficulty(next)
	}
	if s.Settings == nil {
		return next, nil
	}
	return next, s.Settings.SetDifficulty(ctx, next)
}

// Difficulty returns the difficulty in effect.
func (s Services) Difficulty() speech.Difficulty {
	if s.Settings != nil {
		return s.Settings.Difficulty()
	}
	if s.Session != nil {
		return s.Session.Difficulty()
	}
	return speech.DefaultDifficulty
}

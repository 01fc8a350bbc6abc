// Package settings persists user preferences across restarts.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/speakup/internal/speech"
	"github.com/abhisek/speakup/internal/store"
)

const keyDifficulty = "difficulty"

// Settings caches preferences in memory and writes every change through to
// the store. A failed write leaves the in-memory value in effect.
type Settings struct {
	repo store.SettingsRepo

	mu         sync.RWMutex
	difficulty speech.Difficulty
}

// New returns settings holding defaults until Load is called.
func New(repo store.SettingsRepo) *Settings {
	return &Settings{repo: repo, difficulty: speech.DefaultDifficulty}
}

// Load restores stored preferences. Missing or unrecognized values fall
// back to defaults.
func (s *Settings) Load(ctx context.Context) error {
	raw, ok, err := s.repo.GetSetting(ctx, keyDifficulty)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return nil
	}

	d, err := speech.ParseDifficulty(raw)
	if err != nil {
		slog.Warn("ignoring stored difficulty", "value", raw, "error", err)
		return nil
	}

	s.mu.Lock()
	s.difficulty = d
	s.mu.Unlock()
	return nil
}

// Difficulty returns the last selected difficulty.
func (s *Settings) Difficulty() speech.Difficulty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.difficulty
}

// SetDifficulty stores d as the new default.
func (s *Settings) SetDifficulty(ctx context.Context, d speech.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("unknown difficulty %q", d)
	}

	s.mu.Lock()
	s.difficulty = d
	s.mu.Unlock()

	if err := s.repo.PutSetting(ctx, keyDifficulty, string(d)); err != nil {
		return fmt.Errorf("save difficulty: %w", err)
	}
	return nil
}

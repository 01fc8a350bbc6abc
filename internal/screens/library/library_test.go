package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/speakup/internal/phrase"
	sess "github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/router"
	"github.com/abhisek/speakup/internal/screen"
	"github.com/abhisek/speakup/internal/store"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newServices(t *testing.T, texts ...string) screen.Services {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	lib := phrase.New(st.PhraseRepo())
	for _, text := range texts {
		_, err := lib.Add(context.Background(), text, "")
		require.NoError(t, err)
	}
	return screen.Services{
		Library: lib,
		Session: sess.NewController(nil, nil),
	}
}

func TestLibraryScreenAdd(t *testing.T) {
	svc := newServices(t)
	s := New(svc)
	s.Init()
	assert.Contains(t, s.View(100, 40), "No saved phrases yet")

	s.Update(key('a'))
	require.Equal(t, modeAdding, s.mode)
	s.input.SetValue("  How now brown cow  ")
	s.Update(special(tea.KeyEnter))

	assert.Equal(t, modeBrowse, s.mode)
	require.Len(t, s.phrases, 1)
	assert.Equal(t, "How now brown cow", s.phrases[0].Text)
	assert.Contains(t, s.View(100, 40), "How now brown cow")
}

func TestLibraryScreenDeleteNeedsConfirmation(t *testing.T) {
	svc := newServices(t, "first", "second")
	s := New(svc)
	s.Init()

	// Newest first: "second" is selected.
	s.Update(key('x'))
	require.Equal(t, modeConfirmDelete, s.mode)
	s.Update(key('n'))
	assert.Equal(t, 2, svc.Library.Len())

	s.Update(key('x'))
	s.Update(key('y'))
	assert.Equal(t, 1, svc.Library.Len())
	_, ok := svc.Library.FindByText("second")
	assert.False(t, ok)
}

func TestLibraryScreenDeleteUnlinksSession(t *testing.T) {
	svc := newServices(t, "only")
	p, _ := svc.Library.FindByText("only")
	svc.Session.SetTarget(p.Text)
	svc.Session.Link(p.ID, svc.Library)

	s := New(svc)
	s.Init()
	s.Update(key('x'))
	s.Update(key('y'))

	assert.Empty(t, svc.Session.LinkedPhraseID())
}

func TestLibraryScreenEnterPracticesSelected(t *testing.T) {
	svc := newServices(t, "first", "second")
	s := New(svc)
	s.Init()

	s.Update(special(tea.KeyDown))
	_, cmd := s.Update(special(tea.KeyEnter))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.OpenMsg)
	assert.True(t, ok)

	p, _ := svc.Library.FindByText("first")
	assert.Equal(t, "first", svc.Session.Target())
	assert.Equal(t, p.ID, svc.Session.LinkedPhraseID())
}

func TestLibraryScreenExportAndImport(t *testing.T) {
	svc := newServices(t, "alpha", "beta")
	s := New(svc)
	s.Init()
	path := filepath.Join(t.TempDir(), "backup.json")

	s.Update(key('e'))
	require.Equal(t, modeExporting, s.mode)
	assert.Equal(t, DefaultExportPath, s.input.Value())
	s.input.SetValue(path)
	_, cmd := s.Update(special(tea.KeyEnter))
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.False(t, s.busy)
	assert.Contains(t, s.notice, "Exported 2 phrases")

	_, err := os.Stat(path)
	require.NoError(t, err)

	// Import into a fresh library.
	other := newServices(t, "gamma")
	s2 := New(other)
	s2.Init()
	s2.Update(key('i'))
	s2.input.SetValue(path)
	_, cmd = s2.Update(special(tea.KeyEnter))
	s2.Update(cmd())

	assert.Empty(t, s2.errMsg)
	assert.Equal(t, 3, other.Library.Len())
	assert.Equal(t, "beta", s2.phrases[0].Text)
}

func TestLibraryScreenImportMalformed(t *testing.T) {
	svc := newServices(t, "keep me")
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))

	s := New(svc)
	s.Init()
	s.Update(key('i'))
	s.input.SetValue(path)
	_, cmd := s.Update(special(tea.KeyEnter))
	s.Update(cmd())

	assert.Contains(t, s.errMsg, "not a valid phrase backup")
	assert.Equal(t, 1, svc.Library.Len())
}

func TestLibraryScreenSheetRoundTrip(t *testing.T) {
	svc := newServices(t, "one", "two")
	path := filepath.Join(t.TempDir(), "phrases.xlsx")
	require.NoError(t, svc.Library.ExportSheetFile(path))

	other := newServices(t, "two")
	s := New(other)
	s.Init()
	s.Update(key('i'))
	s.input.SetValue(path)
	_, cmd := s.Update(special(tea.KeyEnter))
	s.Update(cmd())

	assert.Empty(t, s.errMsg)
	assert.Contains(t, s.notice, "Added 1 phrases, skipped 1")
	assert.Equal(t, 2, other.Library.Len())
}

func TestLibraryScreenEscPops(t *testing.T) {
	s := New(newServices(t))
	s.Init()
	_, cmd := s.Update(special(tea.KeyEscape))
	require.NotNil(t, cmd)
	assert.IsType(t, router.BackMsg{}, cmd())
}

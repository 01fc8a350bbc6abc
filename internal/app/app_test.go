package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/screen"
)

func newTestModel() *model {
	return newModel(Options{Services: screen.Services{Session: practice.NewController(nil, nil)}})
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewBeforeResizeIsEmpty(t *testing.T) {
	m := newTestModel()
	assert.Empty(t, m.render())
}

func TestViewShowsTrailAfterOpening(t *testing.T) {
	m := newTestModel()
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'l', Text: "l"})
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, []string{"Home", "Library"}, m.nav.Trail())
	assert.Contains(t, m.render(), "Library")
}

func TestTinyTerminalShowsNotice(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Contains(t, m.render(), "needs at least")
}

package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/router"
	"github.com/abhisek/speakup/internal/screen"
	"github.com/abhisek/speakup/internal/screens/practice"
	"github.com/abhisek/speakup/internal/ui"
	"github.com/abhisek/speakup/internal/ui/components"
	"github.com/abhisek/speakup/internal/ui/layout"
)

// DefaultExportPath is offered when exporting.
const DefaultExportPath = "speakup-phrases.json"

type mode int

const (
	modeBrowse mode = iota
	modeAdding
	modeConfirmDelete
	modeExporting
	modeImporting
)

// transferDoneMsg reports a finished import or export.
type transferDoneMsg struct {
	Notice string
	Err    error
}

// LibraryScreen lists saved phrases and manages the library.
type LibraryScreen struct {
	svc      screen.Services
	phrases  []phrase.SavedPhrase
	selected int
	mode     mode
	input    components.TextInput
	busy     bool
	notice   string
	errMsg   string
}

var _ screen.Screen = (*LibraryScreen)(nil)
var _ screen.KeyHintProvider = (*LibraryScreen)(nil)

// New creates a new LibraryScreen.
func New(svc screen.Services) *LibraryScreen {
	return &LibraryScreen{
		svc:   svc,
		input: components.NewTextInput("", 300),
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	s.refresh()
	return nil
}

func (s *LibraryScreen) Title() string {
	return "Library"
}

func (s *LibraryScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeAdding, modeExporting, modeImporting:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmDelete:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	hints := []layout.KeyHint{}
	if len(s.phrases) > 0 {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Navigate"},
			layout.KeyHint{Key: "Enter", Description: "Practice"},
			layout.KeyHint{Key: "X", Description: "Delete"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "A", Description: "Add"},
		layout.KeyHint{Key: "I", Description: "Import"},
		layout.KeyHint{Key: "E", Description: "Export"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case transferDoneMsg:
		s.busy = false
		s.notice = msg.Notice
		if msg.Err != nil {
			s.errMsg = ui.Describe(msg.Err)
		}
		s.refresh()
		return s, nil

	case tea.KeyPressMsg:
		switch s.mode {
		case modeBrowse:
			return s.handleBrowseKey(msg)
		case modeConfirmDelete:
			return s.handleConfirmKey(msg)
		default:
			return s.handleInputKey(msg)
		}
	}

	if s.mode == modeAdding || s.mode == modeExporting || s.mode == modeImporting {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LibraryScreen) handleBrowseKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	s.notice = ""
	s.errMsg = ""

	switch msg.String() {
	case "esc":
		return s, router.Back
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.phrases)-1 {
			s.selected++
		}
	case "enter":
		return s, s.practiceSelected()
	case "a":
		return s, s.beginInput(modeAdding, "")
	case "x", "delete":
		if len(s.phrases) > 0 {
			s.mode = modeConfirmDelete
		}
	case "e", "E":
		return s, s.beginInput(modeExporting, DefaultExportPath)
	case "i", "I":
		return s, s.beginInput(modeImporting, "")
	}
	return s, nil
}

func (s *LibraryScreen) handleConfirmKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		s.mode = modeBrowse
		s.deleteSelected()
	case "n", "N", "esc":
		s.mode = modeBrowse
	}
	return s, nil
}

func (s *LibraryScreen) handleInputKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeBrowse
		return s, nil
	case "enter":
		value := strings.TrimSpace(s.input.Value())
		if value == "" {
			return s, nil
		}
		m := s.mode
		s.mode = modeBrowse
		switch m {
		case modeAdding:
			s.add(value)
			return s, nil
		case modeExporting:
			s.busy = true
			return s, s.export(value)
		case modeImporting:
			s.busy = true
			return s, s.importFrom(value)
		}
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LibraryScreen) beginInput(m mode, value string) tea.Cmd {
	s.mode = m
	s.input.Reset()
	if value != "" {
		s.input.SetValue(value)
	}
	return s.input.Init()
}

func (s *LibraryScreen) refresh() {
	if s.svc.Library == nil {
		return
	}
	s.phrases = s.svc.Library.List()
	if s.selected >= len(s.phrases) {
		s.selected = max(len(s.phrases)-1, 0)
	}
}

// practiceSelected makes the selected phrase the practice target with its
// scores recorded back to the library.
func (s *LibraryScreen) practiceSelected() tea.Cmd {
	if len(s.phrases) == 0 {
		return nil
	}
	p := s.phrases[s.selected]
	ctrl := s.svc.Session
	if !ctrl.SetTarget(p.Text) {
		return nil
	}
	ctrl.Link(p.ID, s.svc.Library)
	return router.Open(practice.New(s.svc))
}

func (s *LibraryScreen) add(text string) {
	_, err := s.svc.Library.Add(context.Background(), text, "")
	if err != nil {
		s.errMsg = ui.Describe(err)
	}
	if err == nil || phrase.IsPersistenceError(err) {
		s.selected = 0
		s.notice = "Phrase added."
	}
	s.refresh()
}

func (s *LibraryScreen) deleteSelected() {
	if len(s.phrases) == 0 {
		return
	}
	p := s.phrases[s.selected]
	ok, err := s.svc.Library.Delete(context.Background(), p.ID)
	if err != nil {
		slog.Warn("delete phrase", "id", p.ID, "error", err)
		s.errMsg = ui.Describe(err)
	}
	if ok {
		if s.svc.Session.LinkedPhraseID() == p.ID {
			s.svc.Session.Unlink()
		}
		s.notice = "Phrase deleted."
	}
	s.refresh()
}

// isSheet reports whether path names an Excel workbook.
func isSheet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

func (s *LibraryScreen) export(path string) tea.Cmd {
	lib := s.svc.Library
	return func() tea.Msg {
		var err error
		if isSheet(path) {
			err = lib.ExportSheetFile(path)
		} else {
			err = lib.ExportFile(path)
		}
		if err != nil {
			return transferDoneMsg{Err: err}
		}
		return transferDoneMsg{Notice: fmt.Sprintf("Exported %d phrases to %s.", lib.Len(), path)}
	}
}

func (s *LibraryScreen) importFrom(path string) tea.Cmd {
	lib := s.svc.Library
	return func() tea.Msg {
		ctx := context.Background()
		if isSheet(path) {
			f, err := os.Open(path)
			if err != nil {
				return transferDoneMsg{Err: err}
			}
			defer f.Close()
			res, err := lib.ImportSheet(ctx, f, phrase.DefaultSheetConfig())
			if res == nil {
				return transferDoneMsg{Err: err}
			}
			return transferDoneMsg{
				Notice: fmt.Sprintf("Added %d phrases, skipped %d.", res.Created, res.Skipped),
				Err:    err,
			}
		}

		sum, err := lib.ImportFile(ctx, path)
		if err != nil && !phrase.IsPersistenceError(err) {
			return transferDoneMsg{Err: err}
		}
		return transferDoneMsg{
			Notice: fmt.Sprintf("Imported %d phrases, replaced %d, kept %d.", sum.Imported, sum.Replaced, sum.Kept),
			Err:    err,
		}
	}
}

func (s *LibraryScreen) View(width, height int) string {
	return renderLibrary(s, width, height)
}

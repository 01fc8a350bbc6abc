// Package router keeps the stack of open screens. Screens navigate by
// returning the commands below instead of holding a reference to the router.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speakup/internal/screen"
)

// OpenMsg opens Screen on top of the current one.
type OpenMsg struct {
	Screen screen.Screen
}

// BackMsg closes the current screen.
type BackMsg struct{}

// SwapMsg replaces the current screen with Screen.
type SwapMsg struct {
	Screen screen.Screen
}

// Back closes the current screen. It is a tea.Cmd.
func Back() tea.Msg { return BackMsg{} }

// Open returns a command that opens s.
func Open(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return OpenMsg{Screen: s} }
}

// Swap returns a command that replaces the current screen with s.
func Swap(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return SwapMsg{Screen: s} }
}

// Router owns the screen stack. The root screen is never closed.
type Router struct {
	screens []screen.Screen
}

// New starts a stack with root at the bottom.
func New(root screen.Screen) *Router {
	return &Router{screens: []screen.Screen{root}}
}

// Current is the screen receiving input.
func (r *Router) Current() screen.Screen {
	return r.screens[len(r.screens)-1]
}

// Depth counts the open screens, root included.
func (r *Router) Depth() int { return len(r.screens) }

// Trail lists the titles from the root up to the current screen.
func (r *Router) Trail() []string {
	titles := make([]string, len(r.screens))
	for i, s := range r.screens {
		titles[i] = s.Title()
	}
	return titles
}

// Update applies navigation messages and hands everything else to the
// current screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OpenMsg:
		r.screens = append(r.screens, msg.Screen)
		return msg.Screen.Init()

	case SwapMsg:
		r.screens[len(r.screens)-1] = msg.Screen
		return msg.Screen.Init()

	case BackMsg:
		if len(r.screens) == 1 {
			return nil
		}
		r.screens[len(r.screens)-1] = nil
		r.screens = r.screens[:len(r.screens)-1]
		// The revealed screen reloads whatever changed underneath it.
		return r.Current().Init()
	}

	next, cmd := r.Current().Update(msg)
	r.screens[len(r.screens)-1] = next
	return cmd
}

// View draws the current screen into the given area.
func (r *Router) View(width, height int) string {
	return r.Current().View(width, height)
}

// Package layout draws the chrome around the active screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/speakup/internal/ui/theme"
)

// The smallest terminal the practice screen fits in.
const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint is one footer entry, e.g. {"R", "Record"}.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the right-hand side of the header.
type Status struct {
	Phrases    int
	Difficulty string
	Recording  bool
}

// TooSmall returns a resize notice when the terminal cannot fit the UI.
func TooSmall(width, height int) (string, bool) {
	if width >= MinWidth && height >= MinHeight {
		return "", false
	}
	msg := fmt.Sprintf("Speakup needs at least %d×%d.\nThis terminal is %d×%d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg)), true
}

// Header renders the app name, the navigation trail and the status.
func Header(trail []string, st Status, width int) string {
	sep := lipgloss.NewStyle().Foreground(theme.Border).Render(" › ")
	crumbs := make([]string, len(trail))
	for i, t := range trail {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == len(trail)-1 {
			style = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		}
		crumbs[i] = style.Render(t)
	}
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("speakup") +
		"  " + strings.Join(crumbs, sep)

	right := []string{
		lipgloss.NewStyle().Foreground(theme.Accent).Render(plural(st.Phrases, "phrase")),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(st.Difficulty),
	}
	if st.Recording {
		right = append([]string{theme.RecordingBadge.Render("● REC")}, right...)
	}
	status := strings.Join(right, "  ")

	inner := max(width-4, 0)
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(status), 1)
	return bar(width).Render(left + strings.Repeat(" ", gap) + status)
}

// Footer renders the key hints.
func Footer(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render(strings.Join(parts, "   "))
}

// Frame stacks header, body and footer, giving the body the rest of height.
func Frame(header, body, footer string, width, height int) string {
	bodyHeight := BodyHeight(header, footer, height)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body),
		footer,
	)
}

// BodyHeight is the space left between header and footer.
func BodyHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

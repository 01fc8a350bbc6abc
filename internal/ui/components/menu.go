package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/speakup/internal/ui/theme"
)

// MenuItem is one row of a Menu. Pressing Key activates it directly.
type MenuItem struct {
	Key    string
	Label  string
	Hint   string
	Action func() tea.Cmd
}

// Menu is a vertical list with a wrapping cursor.
type Menu struct {
	items  []MenuItem
	cursor int
}

func NewMenu(items ...MenuItem) Menu {
	return Menu{items: items}
}

// Cursor is the index of the highlighted item.
func (m Menu) Cursor() int { return m.cursor }

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.items) == 0 {
		return m, nil
	}

	n := len(m.items)
	switch k := key.String(); k {
	case "up", "k":
		m.cursor = (m.cursor + n - 1) % n
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % n
	case "enter", "space":
		return m, m.activate(m.cursor)
	default:
		for i, item := range m.items {
			if item.Key != "" && item.Key == k {
				m.cursor = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

func (m Menu) activate(i int) tea.Cmd {
	if m.items[i].Action == nil {
		return nil
	}
	return m.items[i].Action()
}

func (m Menu) View() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	rows := make([]string, len(m.items))
	for i, item := range m.items {
		key := "   "
		if item.Key != "" {
			key = keyStyle.Render("[" + item.Key + "]")
		}
		label := theme.Unselected.Render(item.Label)
		marker := "  "
		if i == m.cursor {
			label = theme.Selected.Render(item.Label)
			marker = theme.Selected.Render("▸ ")
		}
		row := marker + key + " " + label
		if item.Hint != "" {
			row += "  " + theme.Hint.Render(item.Hint)
		}
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

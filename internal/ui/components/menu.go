package components

import (
	"strconv"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/ui/theme"
)

// MenuItem represents a single entry in a vertical menu.
type MenuItem struct {
	Key   string
	Label string

	// Badge is an optional count shown after the label. Negative hides it.
	Badge int
}

// Menu is a vertical list with one highlighted entry. It only renders;
// the owning screen maps keys to selections.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem, selected int) Menu {
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// View renders the menu.
func (m Menu) View() string {
	var s string
	for i, item := range m.Items {
		label := item.Label
		if item.Key != "" {
			label = "[" + item.Key + "] " + label
		}
		if item.Badge >= 0 {
			label += " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render("("+strconv.Itoa(item.Badge)+")")
		}
		if i == m.Selected {
			s += lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Render("▸ "+label) + "\n"
		} else {
			s += lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("  "+label) + "\n"
		}
	}
	return s
}

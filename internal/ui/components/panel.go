package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/ui/theme"
)

// ContentWidth returns the inner width used for panels on a frame of the
// given width, clamped so long text stays readable.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded-border card of content width cw.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// HighlightPanel is a Panel with an accent border, used for the focused
// element such as a flipped flashcard.
func HighlightPanel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// EmptyState renders a dimmed, centered message for panels with no data.
func EmptyState(msg string, width, height int) string {
	text := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Render(msg)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// Divider is a horizontal rule of the given width.
func Divider(width int) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width))
}

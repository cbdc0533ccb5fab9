// Package layout renders the frame shared by every screen: a header bar,
// the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	// Below this width the dashboard drops its day sidebar.
	CompactWidthThreshold = 100
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth reports whether width is too narrow for a sidebar.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small.\n\nstudyforge needs at least %d x %d\n(currently %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderHeader shows the app name and screen title on the left and info
// (the plan title on the dashboard) right-aligned, truncated to fit.
func RenderHeader(title, info string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("studyforge")
	if title != "" {
		left += lipgloss.NewStyle().Foreground(theme.TextDim).Render(" · " + title)
	}

	inner := max(width-4, 0) // border + padding
	room := inner - lipgloss.Width(left) - 2

	right := ""
	if info != "" && room > 3 {
		right = lipgloss.NewStyle().Foreground(theme.Accent).Render(Truncate(info, room))
	}

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return bar(width).Render(left + strings.Repeat(" ", gap) + right)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RenderFooter lists key hints in order, dropping the ones that no longer
// fit on a single line.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	inner := max(width-4, 0)
	var line string
	for _, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if line != "" {
			part = "   " + part
		}
		if lipgloss.Width(line)+lipgloss.Width(part) > inner {
			break
		}
		line += part
	}
	return bar(width).Render(line)
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/ui/theme"
)

// Tabs renders a horizontal tab strip with labels[active] highlighted.
// Labels that do not fit in width are dropped from the right.
func Tabs(labels []string, active, width int) string {
	var parts []string
	used := 0
	for i, l := range labels {
		style := theme.TabInactive
		if i == active {
			style = theme.TabActive
		}
		tab := style.Render(l)
		w := lipgloss.Width(tab)
		if width > 0 && used+w > width && len(parts) > 0 {
			break
		}
		parts = append(parts, tab)
		used += w
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

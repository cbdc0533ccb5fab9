package components

import (
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// Button is a key-triggered action label. Disabled buttons render dimmed;
// the owning screen decides whether the key does anything.
type Button struct {
	Key     string
	Label   string
	Enabled bool
}

// NewButton creates a new button.
func NewButton(key, label string, enabled bool) Button {
	return Button{
		Key:     key,
		Label:   label,
		Enabled: enabled,
	}
}

// View renders the button.
func (b Button) View() string {
	label := "▸ " + b.Label
	if b.Key != "" {
		label += " [" + b.Key + "]"
	}
	if b.Enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// Package screen defines the contract between the router and the
// upload and dashboard screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyforge/internal/ui/layout"
)

// Screen is one full-window view hosted by the router.
type Screen interface {
	Init() tea.Cmd

	// Update may return a different Screen to hand control to it.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between the header and footer bars.
	View(width, height int) string

	// Title is shown in the header when the screen has no plan title.
	Title() string
}

// KeyHintProvider is implemented by screens whose footer hints depend on
// their current state.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// MultiChoice renders a question with lettered options. Option colors
// come from the quiz state; the component holds no selection itself.
type MultiChoice struct {
	Question string
	Options  []string
	States   []session.OptionState
	Width    int
}

// NewMultiChoice builds the view of the quiz's current question.
func NewMultiChoice(q *session.Quiz, width int) MultiChoice {
	cur, ok := q.Current()
	if !ok {
		return MultiChoice{Width: width}
	}
	states := make([]session.OptionState, len(cur.Options))
	for i := range cur.Options {
		states[i] = q.OptionState(i)
	}
	return MultiChoice{
		Question: cur.Question,
		Options:  cur.Options,
		States:   states,
		Width:    width,
	}
}

// OptionLabel returns the letter for option i: A, B, ... Z, then 27, 28...
func OptionLabel(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if m.Width > 0 {
		questionStyle = questionStyle.Width(m.Width)
	}
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		state := session.OptionNeutral
		if i < len(m.States) {
			state = m.States[i]
		}

		prefix := "  "
		switch state {
		case session.OptionChosen:
			prefix = "▸ "
		case session.OptionCorrect:
			prefix = "✓ "
		case session.OptionWrong:
			prefix = "✗ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, OptionLabel(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch state {
		case session.OptionChosen:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		case session.OptionCorrect:
			style = theme.Correct
		case session.OptionWrong:
			style = theme.Incorrect
		}
		if m.Width > 0 {
			style = style.Width(m.Width)
		}
		s += style.Render(line) + "\n"
	}

	return s
}

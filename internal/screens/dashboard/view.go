package dashboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/studyplan"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

const sidebarWidth = 30

func (d *DashboardScreen) View(width, height int) string {
	plan := d.shell.Plan
	day, ok := d.shell.Day()
	if plan == nil || !ok {
		return components.EmptyState("No study plan yet. Press n to create one.", width, height)
	}

	inner := max(width-4, 20)

	var top strings.Builder
	top.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(layout.Truncate(plan.Title, inner)))
	top.WriteString("  ")
	top.WriteString(theme.Hint.Render("4-day mastery cycle"))
	top.WriteString("\n")
	top.WriteString(components.Tabs(dayLabels(plan), d.shell.ActiveDay, inner))
	top.WriteString("\n")

	wide := !layout.IsCompactWidth(width)
	if !wide {
		top.WriteString(components.Tabs(modeLabels(), int(d.shell.ActiveMode), inner))
		top.WriteString("\n")
	}
	top.WriteString(components.Divider(inner))
	header := top.String()

	bodyHeight := max(height-lipgloss.Height(header)-1, 3)
	mainWidth := inner
	var sidebar string
	if wide {
		sidebar = d.renderSidebar(day, bodyHeight)
		mainWidth = inner - sidebarWidth - 2
	}

	var main string
	switch d.shell.ActiveMode {
	case session.ModeFlashcards:
		main = d.renderFlashcards(mainWidth, bodyHeight)
	case session.ModeQuiz:
		main = d.renderQuiz(mainWidth, bodyHeight)
	case session.ModeTutor:
		main = d.renderTutor(mainWidth, bodyHeight)
	default:
		main = renderStrategy(day, mainWidth, !wide)
	}

	body := main
	if wide {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", main)
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(header + "\n" + body)
}

func dayLabels(plan *studyplan.StudyPlan) []string {
	labels := make([]string, len(plan.Days))
	for i, day := range plan.Days {
		labels[i] = fmt.Sprintf("%d %s", i+1, day.DayLabel)
	}
	return labels
}

var modeKeys = map[session.Mode]string{
	session.ModeStrategy:   "s",
	session.ModeFlashcards: "f",
	session.ModeQuiz:       "q",
	session.ModeTutor:      "t",
}

func modeLabels() []string {
	labels := make([]string, len(session.Modes))
	for i, m := range session.Modes {
		labels[i] = fmt.Sprintf("[%s] %s", modeKeys[m], m)
	}
	return labels
}

func (d *DashboardScreen) renderSidebar(day studyplan.DayPlan, height int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Today's goal"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(sidebarWidth - 4).Render(day.TopicSummary))
	b.WriteString("\n\n")

	items := make([]components.MenuItem, len(session.Modes))
	for i, m := range session.Modes {
		badge := -1
		switch m {
		case session.ModeFlashcards:
			badge = len(day.Flashcards)
		case session.ModeQuiz:
			badge = len(day.Quiz)
		}
		items[i] = components.MenuItem{Key: modeKeys[m], Label: m.String(), Badge: badge}
	}
	b.WriteString(components.NewMenu(items, int(d.shell.ActiveMode)).View())

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		MaxHeight(height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(b.String())
}

func renderStrategy(day studyplan.DayPlan, width int, withSummary bool) string {
	textWidth := max(width-4, 10)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(textWidth)

	var b strings.Builder
	if withSummary && day.TopicSummary != "" {
		b.WriteString(theme.Heading.Render("Today's goal"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(textWidth).Render(day.TopicSummary))
		b.WriteString("\n\n")
	}

	s := day.Strategy
	b.WriteString(theme.Hint.Render("RECOMMENDED TECHNIQUE"))
	b.WriteString("\n")
	b.WriteString(theme.Title.Align(lipgloss.Left).Render(s.MethodName))
	b.WriteString("\n\n")
	b.WriteString(theme.Heading.Render("Concept"))
	b.WriteString("\n")
	b.WriteString(body.Render(s.Description))
	b.WriteString("\n\n")

	action := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("⚡ Action plan for today") +
		"\n" + body.Render(s.ActionableStep)
	b.WriteString(components.HighlightPanel(action, width))

	return b.String()
}

func (d *DashboardScreen) renderFlashcards(width, height int) string {
	card, ok := d.deck.Current()
	if !ok {
		return components.EmptyState("No flashcards for this day.", width, height)
	}

	var b strings.Builder
	b.WriteString(components.NewProgressBar("Card", d.deck.Index+1, d.deck.Len(), width).View())
	b.WriteString("\n\n")

	label, text := "QUESTION", card.Front
	if d.deck.Flipped {
		label, text = "ANSWER", card.Back
	}

	cardHeight := min(max(height-6, 5), 12)
	content := theme.Hint.Render(label) + "\n" +
		lipgloss.NewStyle().
			Width(width-6).
			Height(cardHeight-3).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.Text).
			Bold(true).
			Render(text)
	if d.deck.Flipped {
		b.WriteString(components.HighlightPanel(content, width))
	} else {
		b.WriteString(components.Panel(content, width))
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("space to flip · ← previous · → next"))

	return b.String()
}

func (d *DashboardScreen) renderQuiz(width, height int) string {
	q := d.quiz
	if q.Total() == 0 {
		return components.EmptyState("No quiz questions for this day.", width, height)
	}

	if q.Completed {
		result := theme.Title.Render("Quiz complete!") + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.Text).
				Render(fmt.Sprintf("Your score is %d of %d", q.Score, q.Total())) +
			"\n\n" +
			components.NewButton("r", "Repeat quiz", true).View()
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, result)
	}

	var b strings.Builder
	b.WriteString(components.NewProgressBar("Question", q.Index+1, q.Total(), width-12).View())
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(fmt.Sprintf("  Score: %d", q.Score)))
	b.WriteString("\n\n")
	b.WriteString(components.NewMultiChoice(q, width-2).View())

	if q.Submitted {
		cur, _ := q.Current()
		b.WriteString("\n")
		if q.LastAnswerCorrect() {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite."))
		}
		b.WriteString("\n")
		if cur.Explanation != "" {
			b.WriteString(components.Panel(
				theme.Heading.Render("Explanation")+"\n"+
					lipgloss.NewStyle().Foreground(theme.Text).Width(width-6).Render(cur.Explanation),
				width))
			b.WriteString("\n")
		}
		b.WriteString(theme.Hint.Render("enter for the next question"))
	} else if q.Selected >= 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("enter to check your answer"))
	}

	return b.String()
}

func (d *DashboardScreen) renderTutor(width, height int) string {
	if d.tutor == nil {
		return ""
	}

	// Heading, divider and the input line take four rows.
	h := max(height-4, 3)
	if width != d.chatWidth || h != d.transcript.Height() {
		d.chatWidth = width
		d.transcript.SetWidth(width)
		d.transcript.SetHeight(h)
		d.syncTranscript()
	}

	var b strings.Builder
	b.WriteString(theme.Heading.Render("AI study assistant"))
	b.WriteString("  ")
	b.WriteString(theme.Hint.Render("ask questions about your notes"))
	b.WriteString("\n")
	b.WriteString(d.transcript.View())
	b.WriteString("\n")
	b.WriteString(components.Divider(width))
	b.WriteString("\n")
	b.WriteString(d.input.View())
	return b.String()
}

// syncTranscript re-renders the messages and pins the view to the latest.
func (d *DashboardScreen) syncTranscript() {
	if d.tutor == nil {
		return
	}
	d.transcript.SetContent(renderTranscript(d.tutor, d.chatWidth))
	d.transcript.GotoBottom()
}

func renderTranscript(t *session.Tutor, width int) string {
	if width <= 0 {
		width = 60
	}
	bubbleWidth := max(width*4/5, 10)

	var parts []string
	for _, m := range t.Messages {
		if m.Role == studyplan.RoleUser {
			bubble := theme.UserBubble.Width(bubbleWidth).Render(m.Text)
			parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
		} else {
			parts = append(parts, theme.ModelBubble.Width(bubbleWidth).Render(m.Text))
		}
	}
	if t.Sending {
		parts = append(parts, theme.Hint.Render("Tutor is typing..."))
	}
	return strings.Join(parts, "\n")
}

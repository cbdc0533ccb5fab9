package upload

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

func (u *UploadScreen) View(width, height int) string {
	if u.shell.Notice != "" {
		return renderNotice(u.shell.Notice, width, height)
	}

	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Master your material in 3 days"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render(
		"Paste your study notes below. The AI builds a 4-phase plan with flashcards, quizzes and memory strategies."))
	b.WriteString("\n\n")

	// Title, subtitle, status line and panel borders take about 8 rows.
	editorHeight := height - 8
	if editorHeight < 3 {
		editorHeight = 3
	}
	if u.loaded != "" {
		b.WriteString(components.Panel(renderLoaded(u.loaded, cw-4, editorHeight), cw))
	} else {
		u.editor.SetWidth(cw - 4)
		u.editor.SetHeight(editorHeight)
		b.WriteString(components.Panel(u.editor.View(), cw))
	}
	b.WriteString("\n")
	b.WriteString(u.renderStatusLine(cw))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (u *UploadScreen) renderStatusLine(cw int) string {
	value := u.notes()
	count := utf8.RuneCountInString(value)

	left := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d characters", count))
	if count > 0 && count < session.MinInputLength {
		left += lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("  (at least %d needed)", session.MinInputLength))
	}
	if value == "" && SampleNotes != "" {
		left += "  " + components.NewButton("Ctrl+L", "Load sample notes", true).View()
	}

	var right string
	if u.shell.Loading {
		elapsed := time.Since(u.startedAt).Round(time.Second)
		right = u.spinner.View() + " " +
			lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("Generating... %s", elapsed))
	} else {
		right = components.NewButton("Ctrl+G", "Generate plan", u.shell.CanGenerate(value)).View()
	}

	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderLoaded stands in for the editor when the notes are too long to edit.
func renderLoaded(notes string, width, height int) string {
	lines := strings.Split(notes, "\n")
	summary := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Notes loaded: %d lines", len(lines)))
	hint := theme.Hint.Render("Too long to edit here. They will be used exactly as pasted. Ctrl+X clears them.")

	previewRows := max(height-4, 1)
	preview := make([]string, 0, previewRows)
	for _, l := range lines[:min(previewRows, len(lines))] {
		preview = append(preview, layout.Truncate(l, width))
	}
	return summary + "\n" + hint + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Join(preview, "\n"))
}

func renderNotice(notice string, width, height int) string {
	body := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Could not generate the plan") +
		"\n\n" +
		lipgloss.NewStyle().Width(min(width-12, 60)).Render(notice) +
		"\n\n" +
		theme.Hint.Render("press any key to continue")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Notice.Render(body))
}

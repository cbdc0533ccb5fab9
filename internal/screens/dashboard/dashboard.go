package dashboard

import (
	"context"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/studyplan"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
)

// Chatter answers tutor questions grounded in source text.
type Chatter interface {
	Chat(ctx context.Context, message, sourceText string, history []studyplan.ChatMessage) (string, error)
}

// DashboardScreen shows the generated plan: day tabs, mode tabs and the
// panel of the active mode.
type DashboardScreen struct {
	shell         *session.Shell
	chatter       Chatter
	logger        *zap.Logger
	uploadFactory func() screen.Screen

	deck *session.Deck
	quiz *session.Quiz

	// tutor is nil outside tutor mode; leaving the mode discards it.
	tutor      *session.Tutor
	input      components.TextInput
	transcript viewport.Model
	chatWidth  int
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a DashboardScreen for the shell's current plan.
// uploadFactory builds the screen shown for "New Plan".
func New(shell *session.Shell, chatter Chatter, logger *zap.Logger, uploadFactory func() screen.Screen) *DashboardScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &DashboardScreen{
		shell:         shell,
		chatter:       chatter,
		logger:        logger.Named("dashboard"),
		uploadFactory: uploadFactory,
		deck:          session.NewDeck(nil),
		quiz:          session.NewQuiz(nil),
		transcript:    viewport.New(),
	}
	d.resetPanels()
	if shell.ActiveMode == session.ModeTutor {
		d.openTutor()
	}
	return d
}

func (d *DashboardScreen) Title() string {
	if day, ok := d.shell.Day(); ok {
		return day.DayLabel
	}
	return "Study Plan"
}

func (d *DashboardScreen) Init() tea.Cmd {
	if d.tutor != nil {
		return d.input.Init()
	}
	return nil
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	switch d.shell.ActiveMode {
	case session.ModeFlashcards:
		return []layout.KeyHint{
			{Key: "Space", Description: "Flip"},
			{Key: "←→", Description: "Prev/Next"},
			{Key: "[ ]", Description: "Day"},
			{Key: "s f q t", Description: "Mode"},
			{Key: "n", Description: "New plan"},
		}
	case session.ModeQuiz:
		if d.quiz.Completed {
			return []layout.KeyHint{
				{Key: "r", Description: "Repeat quiz"},
				{Key: "[ ]", Description: "Day"},
				{Key: "s f q t", Description: "Mode"},
				{Key: "n", Description: "New plan"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓ 1-9", Description: "Choose"},
			{Key: "Enter", Description: "Check/Next"},
			{Key: "[ ]", Description: "Day"},
			{Key: "s f q t", Description: "Mode"},
		}
	case session.ModeTutor:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "Tab", Description: "Next mode"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4 [ ]", Description: "Day"},
		{Key: "s f q t Tab", Description: "Mode"},
		{Key: "n", Description: "New plan"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		return d.handleChatReply(msg)

	case tea.KeyPressMsg:
		return d.handleKey(msg)
	}

	if d.tutor != nil {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *DashboardScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Tutor mode owns printable keys for its input.
	if d.shell.ActiveMode == session.ModeTutor {
		if key == "tab" {
			return d, d.selectMode(d.shell.ActiveMode.Next())
		}
		return d, d.handleTutorKey(msg)
	}

	switch key {
	case "tab":
		return d, d.selectMode(d.shell.ActiveMode.Next())
	case "s":
		return d, d.selectMode(session.ModeStrategy)
	case "f":
		return d, d.selectMode(session.ModeFlashcards)
	case "q":
		return d, d.selectMode(session.ModeQuiz)
	case "t":
		return d, d.selectMode(session.ModeTutor)
	case "[":
		d.selectDay(d.shell.ActiveDay - 1)
		return d, nil
	case "]":
		d.selectDay(d.shell.ActiveDay + 1)
		return d, nil
	case "n":
		d.shell.ResetToUpload()
		next := d.uploadFactory()
		return d, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}

	if d.shell.ActiveMode == session.ModeQuiz {
		d.handleQuizKey(key)
		return d, nil
	}
	if n, ok := digit(key); ok {
		d.selectDay(n - 1)
		return d, nil
	}
	if d.shell.ActiveMode == session.ModeFlashcards {
		d.handleFlashcardKey(key)
	}
	return d, nil
}

// digit parses a single 1-9 key.
func digit(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}

// selectDay switches day; deck and quiz restart on the new day's material.
func (d *DashboardScreen) selectDay(i int) {
	if !d.shell.SelectDay(i) {
		return
	}
	d.closeTutor()
	d.resetPanels()
}

// selectMode switches mode. Entering a panel starts it fresh; leaving the
// tutor discards its transcript.
func (d *DashboardScreen) selectMode(m session.Mode) tea.Cmd {
	prev := d.shell.ActiveMode
	if !d.shell.SelectMode(m) || m == prev {
		return nil
	}
	if prev == session.ModeTutor {
		d.closeTutor()
	}
	switch m {
	case session.ModeFlashcards, session.ModeQuiz:
		d.resetPanels()
	case session.ModeTutor:
		d.openTutor()
		return d.input.Init()
	}
	return nil
}

func (d *DashboardScreen) resetPanels() {
	day, _ := d.shell.Day()
	d.deck.Reset(day.Flashcards)
	d.quiz.Reset(day.Quiz)
}

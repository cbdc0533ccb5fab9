package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyforge/internal/llm"
	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/studyplan"
)

type chatCall struct {
	message string
	source  string
	history []studyplan.ChatMessage
}

type fakeChatter struct {
	calls []chatCall
	reply string
	err   error
}

func (c *fakeChatter) Chat(_ context.Context, message, sourceText string, history []studyplan.ChatMessage) (string, error) {
	c.calls = append(c.calls, chatCall{message: message, source: sourceText, history: history})
	return c.reply, c.err
}

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "upload" }
func (stubScreen) Title() string                             { return "upload" }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

const notes = "The cardiac cycle has systole and diastole. S1 marks AV valve closure."

func testPlan() *studyplan.StudyPlan {
	plan := &studyplan.StudyPlan{Title: "Cardiology in Four Days"}
	for d := 0; d < studyplan.DaysInPlan; d++ {
		day := studyplan.DayPlan{
			DayLabel:     fmt.Sprintf("Day %d", d),
			TopicSummary: fmt.Sprintf("Goal of day %d", d),
			Strategy: studyplan.DayStrategy{
				MethodName:     fmt.Sprintf("Method %d", d),
				Description:    "Link each sound to a valve.",
				ActionableStep: "Draw the Wiggers diagram.",
			},
		}
		if d != 3 {
			day.Flashcards = []studyplan.Flashcard{
				{Front: fmt.Sprintf("Front %d-a", d), Back: fmt.Sprintf("Back %d-a", d)},
				{Front: fmt.Sprintf("Front %d-b", d), Back: fmt.Sprintf("Back %d-b", d)},
			}
			day.Quiz = []studyplan.QuizQuestion{
				{Question: "S1?", Options: []string{"AV close", "SL close", "Filling"}, CorrectAnswerIndex: 0, Explanation: "AV valves."},
				{Question: "S2?", Options: []string{"AV close", "SL close"}, CorrectAnswerIndex: 1},
			}
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

func newTestDashboard(t *testing.T, chatter *fakeChatter) (*DashboardScreen, *session.Shell) {
	t.Helper()
	shell := session.NewShell()
	require.True(t, shell.BeginGenerate(notes))
	require.True(t, shell.CompleteGenerate(testPlan()))
	d := New(shell, chatter, nil, func() screen.Screen { return stubScreen{} })
	return d, shell
}

func press(d *DashboardScreen, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = d.Update(m)
	}
	return cmd
}

func TestDashboard_InitialStrategyView(t *testing.T) {
	d, _ := newTestDashboard(t, &fakeChatter{})

	view := d.View(120, 40)
	assert.Contains(t, view, "Cardiology in Four Days")
	assert.Contains(t, view, "Method 0")
	assert.Contains(t, view, "Draw the Wiggers diagram.")
	assert.Contains(t, view, "Goal of day 0")
	assert.Equal(t, "Day 0", d.Title())
}

func TestDashboard_DaySwitchResetsModeAndPanels(t *testing.T) {
	d, shell := newTestDashboard(t, &fakeChatter{})

	press(d, keyPress('f'), specialKey(tea.KeySpace), specialKey(tea.KeyRight))
	require.Equal(t, session.ModeFlashcards, shell.ActiveMode)
	require.Equal(t, 1, d.deck.Index)

	press(d, keyPress('2'))
	assert.Equal(t, 1, shell.ActiveDay)
	assert.Equal(t, session.ModeStrategy, shell.ActiveMode)

	press(d, keyPress('f'))
	assert.Equal(t, 0, d.deck.Index)
	assert.False(t, d.deck.Flipped)
	assert.Contains(t, d.View(120, 40), "Front 1-a")

	press(d, keyPress(']'), keyPress(']'))
	assert.Equal(t, 3, shell.ActiveDay)
	press(d, keyPress(']'))
	assert.Equal(t, 3, shell.ActiveDay, "out of range day is ignored")
	press(d, keyPress('['))
	assert.Equal(t, 2, shell.ActiveDay)
}

func TestDashboard_Flashcards(t *testing.T) {
	d, _ := newTestDashboard(t, &fakeChatter{})
	press(d, keyPress('f'))

	assert.Contains(t, d.View(120, 40), "Front 0-a")
	press(d, specialKey(tea.KeySpace))
	assert.True(t, d.deck.Flipped)
	assert.Contains(t, d.View(120, 40), "Back 0-a")

	press(d, specialKey(tea.KeyLeft))
	assert.Equal(t, 1, d.deck.Index, "previous wraps to the last card")
	assert.False(t, d.deck.Flipped)
}

func TestDashboard_EmptyDay(t *testing.T) {
	d, _ := newTestDashboard(t, &fakeChatter{})
	press(d, keyPress('4'), keyPress('f'))
	assert.Contains(t, d.View(120, 40), "No flashcards for this day.")
	press(d, keyPress('q'))
	assert.Contains(t, d.View(120, 40), "No quiz questions for this day.")
}

func TestDashboard_QuizRun(t *testing.T) {
	d, _ := newTestDashboard(t, &fakeChatter{})
	press(d, keyPress('q'))

	// Enter without a selection does nothing.
	press(d, specialKey(tea.KeyEnter))
	assert.False(t, d.quiz.Submitted)

	press(d, specialKey(tea.KeyDown), specialKey(tea.KeyEnter))
	require.True(t, d.quiz.Submitted)
	assert.Equal(t, 1, d.quiz.Score)
	view := d.View(120, 40)
	assert.Contains(t, view, "Correct!")
	assert.Contains(t, view, "AV valves.")

	// Selection is locked after submit.
	press(d, keyPress('2'))
	assert.Equal(t, 0, d.quiz.Selected)

	press(d, specialKey(tea.KeyEnter), keyPress('1'), specialKey(tea.KeyEnter))
	assert.Contains(t, d.View(120, 40), "Not quite.")
	press(d, specialKey(tea.KeyEnter))
	require.True(t, d.quiz.Completed)
	assert.Contains(t, d.View(120, 40), "Your score is 1 of 2")

	press(d, keyPress('r'))
	assert.False(t, d.quiz.Completed)
	assert.Equal(t, 0, d.quiz.Score)
	assert.Equal(t, 0, d.quiz.Index)
}

func TestDashboard_TutorRoundTrip(t *testing.T) {
	chatter := &fakeChatter{reply: "S1 is the first heart sound."}
	d, shell := newTestDashboard(t, chatter)

	press(d, keyPress('t'))
	require.Equal(t, session.ModeTutor, shell.ActiveMode)
	require.NotNil(t, d.tutor)
	assert.Contains(t, d.View(120, 40), "virtual tutor")

	// Letters go to the input, not to mode switching.
	press(d, keyPress('f'), keyPress('s'), keyPress('?'))
	assert.Equal(t, session.ModeTutor, shell.ActiveMode)
	assert.Equal(t, "fs?", d.input.Value())

	cmd := press(d, specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, d.tutor.Sending)
	assert.Equal(t, "", d.input.Value())

	// A second enter while waiting is ignored.
	press(d, keyPress('x'))
	assert.Nil(t, press(d, specialKey(tea.KeyEnter)))

	msg := cmd()
	require.Len(t, chatter.calls, 1)
	assert.Equal(t, "fs?", chatter.calls[0].message)
	assert.Equal(t, notes, chatter.calls[0].source)
	require.Len(t, chatter.calls[0].history, 1, "history excludes the new message")
	assert.Equal(t, studyplan.RoleModel, chatter.calls[0].history[0].Role)

	press(d, msg)
	assert.False(t, d.tutor.Sending)
	require.Len(t, d.tutor.Messages, 3)
	assert.Equal(t, "S1 is the first heart sound.", d.tutor.Messages[2].Text)
}

func TestDashboard_TutorGreetingVisibleOnOpen(t *testing.T) {
	d, _ := newTestDashboard(t, &fakeChatter{})

	press(d, keyPress('t'))
	for range 2 {
		view := d.View(120, 40)
		assert.Contains(t, view, "virtual tutor")
		assert.Equal(t, 0, d.transcript.YOffset(), "short transcript starts at the top")
	}

	// Resizing keeps the greeting in view.
	assert.Contains(t, d.View(100, 30), "virtual tutor")
}

func TestDashboard_TutorFallbackReply(t *testing.T) {
	chatter := &fakeChatter{err: &studyplan.ProviderError{Kind: studyplan.KindNotConfigured, Err: llm.ErrNotConfigured}}
	d, _ := newTestDashboard(t, chatter)
	press(d, keyPress('t'), keyPress('h'), keyPress('i'))

	cmd := press(d, specialKey(tea.KeyEnter))
	press(d, cmd())

	last := d.tutor.Messages[len(d.tutor.Messages)-1]
	assert.Equal(t, studyplan.RoleModel, last.Role)
	assert.Equal(t, studyplan.MissingKeyReply, last.Text)

	chatter.err = errors.New("network down")
	press(d, keyPress('h'), keyPress('i'))
	cmd = press(d, specialKey(tea.KeyEnter))
	press(d, cmd())
	last = d.tutor.Messages[len(d.tutor.Messages)-1]
	assert.Equal(t, studyplan.UnavailableReply, last.Text)
}

func TestDashboard_StaleTutorReplyDropped(t *testing.T) {
	chatter := &fakeChatter{reply: "late answer"}
	d, shell := newTestDashboard(t, chatter)
	press(d, keyPress('t'), keyPress('h'), keyPress('i'))
	cmd := press(d, specialKey(tea.KeyEnter))

	// Leave and reopen the tutor before the reply lands.
	press(d, specialKey(tea.KeyTab))
	require.Equal(t, session.ModeStrategy, shell.ActiveMode)
	require.Nil(t, d.tutor)
	press(d, keyPress('t'))
	fresh := d.tutor

	press(d, cmd())
	assert.Len(t, fresh.Messages, 1, "reply for the old transcript must not appear")
	assert.False(t, fresh.Sending)
}

func TestDashboard_ModeCycleWithTab(t *testing.T) {
	d, shell := newTestDashboard(t, &fakeChatter{})
	var seen []session.Mode
	for range session.Modes {
		seen = append(seen, shell.ActiveMode)
		press(d, specialKey(tea.KeyTab))
	}
	assert.Equal(t, session.Modes, seen)
	assert.Equal(t, session.ModeStrategy, shell.ActiveMode)
}

func TestDashboard_NewPlan(t *testing.T) {
	d, shell := newTestDashboard(t, &fakeChatter{})
	cmd := press(d, keyPress('n'))
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "upload", msg.Screen.Title())
	assert.Equal(t, session.ViewUpload, shell.View)
	assert.NotNil(t, shell.Plan, "previous plan is kept")
	assert.Equal(t, notes, shell.InputText)
}

func TestDashboard_NarrowLayoutShowsModeTabs(t *testing.T) {
	d, _ := newTestDashboard(t, &fakeChatter{})
	view := d.View(80, 30)
	assert.True(t, strings.Contains(view, "[q] Quiz"))
	assert.Contains(t, view, "Goal of day 0")
}

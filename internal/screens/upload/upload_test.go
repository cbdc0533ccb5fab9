package upload

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyforge/internal/llm"
	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/studyplan"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	plan  *studyplan.StudyPlan
	err   error
}

func (g *fakeGenerator) GeneratePlan(_ context.Context, content string) (*studyplan.StudyPlan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, content)
	return g.plan, g.err
}

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "dashboard" }
func (stubScreen) Title() string                             { return "dashboard" }

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func testPlan() *studyplan.StudyPlan {
	plan := &studyplan.StudyPlan{Title: "Emergency Medicine"}
	for range studyplan.DaysInPlan {
		plan.Days = append(plan.Days, studyplan.DayPlan{DayLabel: "Day"})
	}
	return plan
}

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runCmd(c)...)
	}
	return out
}

func findPlanResult(t *testing.T, msgs []tea.Msg) planResultMsg {
	t.Helper()
	for _, m := range msgs {
		if r, ok := m.(planResultMsg); ok {
			return r
		}
	}
	t.Fatalf("no planResultMsg in %v", msgs)
	return planResultMsg{}
}

func newTestScreen(gen *fakeGenerator) (*UploadScreen, *session.Shell) {
	shell := session.NewShell()
	s := New(shell, gen, nil, func() screen.Screen { return stubScreen{} })
	return s, shell
}

func TestSampleNotesAreLongEnough(t *testing.T) {
	if len([]rune(SampleNotes)) < session.MinInputLength {
		t.Fatalf("sample notes too short: %d runes", len([]rune(SampleNotes)))
	}
}

func TestGenerateIgnoredForShortText(t *testing.T) {
	gen := &fakeGenerator{plan: testPlan()}
	s, shell := newTestScreen(gen)
	s.editor.SetValue("too short")

	_, cmd := s.Update(ctrl('g'))

	if cmd != nil {
		t.Error("expected no command for short text")
	}
	if shell.Loading {
		t.Error("expected shell not to be loading")
	}
	if len(gen.calls) != 0 {
		t.Errorf("generator called %d times", len(gen.calls))
	}
}

func TestGenerateSuccessReplacesScreen(t *testing.T) {
	gen := &fakeGenerator{plan: testPlan()}
	s, shell := newTestScreen(gen)

	s.Update(ctrl('l'))
	if s.editor.Value() != SampleNotes {
		t.Fatal("expected sample notes to be loaded")
	}

	_, cmd := s.Update(ctrl('g'))
	if !shell.Loading {
		t.Fatal("expected loading after ctrl+g")
	}
	if !strings.Contains(s.View(100, 30), "Generating") {
		t.Error("expected loading indicator in view")
	}

	// Keys are ignored while loading.
	s.Update(ctrl('g'))

	result := findPlanResult(t, runCmd(cmd))
	if len(gen.calls) != 1 || gen.calls[0] != SampleNotes {
		t.Fatalf("unexpected generator calls: %d", len(gen.calls))
	}

	_, cmd = s.Update(result)
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	if _, ok := msgs[0].(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msgs[0])
	}
	if shell.View != session.ViewDashboard || shell.Plan.Title != "Emergency Medicine" {
		t.Errorf("shell not on dashboard: %+v", shell)
	}
}

func TestGenerateFailureShowsBlockingNotice(t *testing.T) {
	gen := &fakeGenerator{err: &studyplan.ProviderError{Kind: studyplan.KindNotConfigured, Err: llm.ErrNotConfigured}}
	s, shell := newTestScreen(gen)
	s.Update(ctrl('l'))

	_, cmd := s.Update(ctrl('g'))
	s.Update(findPlanResult(t, runCmd(cmd)))

	if shell.Loading {
		t.Error("expected loading cleared")
	}
	if shell.Notice == "" {
		t.Fatal("expected a notice")
	}
	if shell.InputText != SampleNotes {
		t.Error("expected notes kept")
	}
	if !strings.Contains(s.View(100, 30), "Could not generate") {
		t.Error("expected notice in view")
	}

	// Any key dismisses the notice and does nothing else.
	_, cmd = s.Update(ctrl('g'))
	if cmd != nil || shell.Notice != "" || shell.Loading {
		t.Errorf("expected dismissal only: notice=%q loading=%v", shell.Notice, shell.Loading)
	}
}

func TestEscReturnsToKeptPlan(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("unused")}
	s, shell := newTestScreen(gen)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Fatal("expected no navigation without a plan")
	}

	shell.InputText = SampleNotes
	shell.Loading = true
	shell.CompleteGenerate(testPlan())
	shell.ResetToUpload()

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected navigation, got %v", msgs)
	}
	if _, ok := msgs[0].(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msgs[0])
	}
}

// longNotes builds notes with more lines than the editor can hold.
func longNotes(lines int) string {
	rows := make([]string, lines)
	for i := range rows {
		rows[i] = "line of lecture notes on renal physiology"
	}
	return strings.Join(rows, "\n")
}

func TestLongPasteReachesGeneratorIntact(t *testing.T) {
	gen := &fakeGenerator{plan: testPlan()}
	s, shell := newTestScreen(gen)

	notes := longNotes(editorLineLimit + 2000)
	s.Update(tea.PasteMsg{Content: notes})

	if !strings.Contains(s.View(100, 30), "Notes loaded: 12000 lines") {
		t.Error("expected a loaded-notes summary in place of the editor")
	}

	// Typing is ignored while the notes are held outside the editor.
	s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	_, cmd := s.Update(ctrl('g'))
	if !shell.Loading {
		t.Fatal("expected loading after ctrl+g")
	}
	findPlanResult(t, runCmd(cmd))

	if len(gen.calls) != 1 {
		t.Fatalf("generator called %d times", len(gen.calls))
	}
	if gen.calls[0] != notes {
		t.Errorf("notes changed on the way to the generator: got %d runes, want %d",
			len([]rune(gen.calls[0])), len([]rune(notes)))
	}
	if shell.InputText != notes {
		t.Error("expected the shell to keep the full notes")
	}
}

func TestLongPasteAppendsToTypedNotes(t *testing.T) {
	gen := &fakeGenerator{plan: testPlan()}
	s, _ := newTestScreen(gen)

	s.Update(tea.PasteMsg{Content: "intro\n"})
	if s.loaded != "" {
		t.Fatal("a short paste should stay in the editor")
	}

	tail := longNotes(editorLineLimit)
	s.Update(tea.PasteMsg{Content: tail})
	if s.notes() != "intro\n"+tail {
		t.Fatal("expected the editor text followed by the paste")
	}

	s.Update(ctrl('x'))
	if s.notes() != "" {
		t.Error("expected ctrl+x to clear the notes")
	}
}

func TestReopenKeepsLongNotes(t *testing.T) {
	shell := session.NewShell()
	notes := longNotes(editorLineLimit + 1)
	shell.InputText = notes

	s := New(shell, &fakeGenerator{}, nil, func() screen.Screen { return stubScreen{} })

	if s.notes() != notes {
		t.Errorf("reopened screen lost notes: got %d runes, want %d",
			len([]rune(s.notes())), len([]rune(notes)))
	}
}

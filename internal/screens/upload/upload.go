package upload

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/studyplan"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// Generator produces a study plan from notes.
type Generator interface {
	GeneratePlan(ctx context.Context, content string) (*studyplan.StudyPlan, error)
}

// editorLineLimit is the most lines the bubbles textarea will hold. Longer
// notes are kept verbatim outside the widget.
const editorLineLimit = 10000

// UploadScreen collects the notes and starts plan generation.
type UploadScreen struct {
	shell            *session.Shell
	generator        Generator
	logger           *zap.Logger
	dashboardFactory func() screen.Screen

	editor    textarea.Model
	loaded    string // notes too long for the editor; overrides its value
	spinner   spinner.Model
	startedAt time.Time
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)

// New creates an UploadScreen prefilled with the shell's current notes.
// dashboardFactory builds the screen shown once a plan is ready.
func New(shell *session.Shell, generator Generator, logger *zap.Logger, dashboardFactory func() screen.Screen) *UploadScreen {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Paste the text of your PDF or document here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	var loaded string
	if fitsEditor(shell.InputText) {
		ta.SetValue(shell.InputText)
	} else {
		loaded = shell.InputText
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
	)

	return &UploadScreen{
		shell:            shell,
		generator:        generator,
		logger:           logger.Named("upload"),
		dashboardFactory: dashboardFactory,
		editor:           ta,
		loaded:           loaded,
		spinner:          sp,
	}
}

func (u *UploadScreen) Title() string {
	return "New Plan"
}

func (u *UploadScreen) Init() tea.Cmd {
	return u.editor.Focus()
}

func (u *UploadScreen) KeyHints() []layout.KeyHint {
	if u.shell.Notice != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Dismiss"}}
	}
	if u.shell.Loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{{Key: "Ctrl+G", Description: "Generate plan"}}
	switch {
	case u.notes() == "":
		hints = append(hints, layout.KeyHint{Key: "Ctrl+L", Description: "Load sample notes"})
	case u.loaded != "":
		hints = append(hints, layout.KeyHint{Key: "Ctrl+X", Description: "Clear notes"})
	}
	if u.shell.Plan != nil {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back to plan"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (u *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case planResultMsg:
		return u.handlePlanResult(msg)

	case spinner.TickMsg:
		if !u.shell.Loading {
			return u, nil
		}
		var cmd tea.Cmd
		u.spinner, cmd = u.spinner.Update(msg)
		return u, cmd

	case tea.KeyPressMsg:
		return u.handleKey(msg)

	case tea.PasteMsg:
		if u.shell.Loading {
			return u, nil
		}
		return u.handlePaste(msg)
	}

	if u.shell.Loading {
		return u, nil
	}
	var cmd tea.Cmd
	u.editor, cmd = u.editor.Update(msg)
	return u, cmd
}

func (u *UploadScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if u.shell.Notice != "" {
		u.shell.DismissNotice()
		return u, nil
	}
	if u.shell.Loading {
		return u, nil
	}

	switch msg.String() {
	case "ctrl+g":
		return u, u.startGenerate()
	case "ctrl+l":
		if u.notes() == "" {
			u.editor.SetValue(SampleNotes)
		}
		return u, nil
	case "ctrl+x":
		if u.loaded != "" {
			u.loaded = ""
			return u, nil
		}
	case "esc":
		if u.shell.ResumeDashboard() {
			return u, u.showDashboard()
		}
		return u, nil
	}
	if u.loaded != "" {
		return u, nil
	}

	var cmd tea.Cmd
	u.editor, cmd = u.editor.Update(msg)
	return u, cmd
}

// handlePaste lets the editor take pastes it can hold. A paste that would
// push it past its line limit switches to holding the whole text, with the
// paste appended after what was already typed.
func (u *UploadScreen) handlePaste(msg tea.PasteMsg) (screen.Screen, tea.Cmd) {
	if u.loaded != "" {
		u.loaded += msg.Content
		return u, nil
	}

	combined := u.editor.Value() + msg.Content
	if fitsEditor(combined) {
		var cmd tea.Cmd
		u.editor, cmd = u.editor.Update(msg)
		return u, cmd
	}

	u.loaded = combined
	u.editor.Reset()
	u.logger.Info("notes exceed editor limit, keeping them outside the editor",
		zap.Int("lines", strings.Count(combined, "\n")+1),
		zap.Int("runes", utf8.RuneCountInString(combined)))
	return u, nil
}

// notes returns the text that will be sent for generation.
func (u *UploadScreen) notes() string {
	if u.loaded != "" {
		return u.loaded
	}
	return u.editor.Value()
}

func fitsEditor(s string) bool {
	return strings.Count(s, "\n") < editorLineLimit
}

// startGenerate hands the notes to the generator. Notes below the minimum
// length never reach it.
func (u *UploadScreen) startGenerate() tea.Cmd {
	text := u.notes()
	if !u.shell.BeginGenerate(text) {
		return nil
	}
	u.startedAt = time.Now()

	gen := u.generator
	return tea.Batch(
		u.spinner.Tick,
		func() tea.Msg {
			plan, err := gen.GeneratePlan(context.Background(), text)
			return planResultMsg{Plan: plan, Err: err}
		},
	)
}

func (u *UploadScreen) handlePlanResult(msg planResultMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		u.logger.Info("plan generation failed", zap.Error(msg.Err))
		u.shell.FailGenerate(msg.Err)
		return u, nil
	}
	if !u.shell.CompleteGenerate(msg.Plan) {
		return u, nil
	}
	return u, u.showDashboard()
}

func (u *UploadScreen) showDashboard() tea.Cmd {
	next := u.dashboardFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

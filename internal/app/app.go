package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/screens/dashboard"
	"github.com/abhisek/studyforge/internal/screens/upload"
	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/studyplan"
	"github.com/abhisek/studyforge/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Service *studyplan.Service
	Logger  *zap.Logger
}

// screens builds the two top-level screens around one shared shell.
type screens struct {
	shell   *session.Shell
	service *studyplan.Service
	logger  *zap.Logger
}

func (s *screens) upload() screen.Screen {
	return upload.New(s.shell, s.service, s.logger, s.dashboard)
}

func (s *screens) dashboard() screen.Screen {
	return dashboard.New(s.shell, s.service, s.logger, s.upload)
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	shell  *session.Shell
	width  int
	height int
}

// newAppModel creates a new AppModel on the upload screen.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	service := opts.Service
	if service == nil {
		service = studyplan.New(nil, studyplan.DefaultConfig(), logger)
	}
	s := &screens{
		shell:   session.NewShell(),
		service: service,
		logger:  logger,
	}
	return AppModel{
		router: router.New(s.upload()),
		shell:  s.shell,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	info := ""
	if m.shell.View == session.ViewDashboard && m.shell.Plan != nil {
		info = m.shell.Plan.Title
	}
	header := layout.RenderHeader(title, info, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			footerHints = hints
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

package session

import (
	"unicode/utf8"

	"github.com/abhisek/studyforge/internal/studyplan"
)

// MinInputLength is the minimum number of characters (runes) of notes
// needed before a plan can be generated.
const MinInputLength = 50

// View is the top-level screen the shell is showing.
type View int

const (
	ViewUpload View = iota
	ViewDashboard
)

// Mode is the active study activity on the dashboard.
type Mode int

const (
	ModeStrategy Mode = iota
	ModeFlashcards
	ModeQuiz
	ModeTutor
)

// Modes lists the study modes in tab order.
var Modes = []Mode{ModeStrategy, ModeFlashcards, ModeQuiz, ModeTutor}

func (m Mode) String() string {
	switch m {
	case ModeStrategy:
		return "Strategy"
	case ModeFlashcards:
		return "Flashcards"
	case ModeQuiz:
		return "Quiz"
	case ModeTutor:
		return "AI Tutor"
	}
	return "Unknown"
}

// Valid reports whether m is one of the four study modes.
func (m Mode) Valid() bool {
	return m >= ModeStrategy && m <= ModeTutor
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(Modes))
}

// Shell is the application state machine: which view is showing, the
// current plan, the selected day and mode, and generation status.
type Shell struct {
	View       View
	Plan       *studyplan.StudyPlan
	ActiveDay  int
	ActiveMode Mode
	InputText  string
	Loading    bool

	// Source is the text the current plan was generated from. The tutor
	// is grounded in it even if InputText is edited afterwards.
	Source string

	// Notice is a blocking message shown after a failed generation.
	// Empty when no notice is pending.
	Notice string
}

// NewShell returns a shell on the upload view with no plan.
func NewShell() *Shell {
	return &Shell{View: ViewUpload}
}

// CanGenerate reports whether text may be sent for plan generation.
func (s *Shell) CanGenerate(text string) bool {
	return !s.Loading && utf8.RuneCountInString(text) >= MinInputLength
}

// BeginGenerate records text and enters the loading state. It returns false
// and changes nothing when CanGenerate(text) is false; callers must only
// contact the provider on true.
func (s *Shell) BeginGenerate(text string) bool {
	if !s.CanGenerate(text) {
		return false
	}
	s.InputText = text
	s.Loading = true
	s.Notice = ""
	return true
}

// CompleteGenerate installs a freshly generated plan and opens the
// dashboard on day 0 in strategy mode. Ignored unless a generation is
// in flight.
func (s *Shell) CompleteGenerate(plan *studyplan.StudyPlan) bool {
	if !s.Loading {
		return false
	}
	if plan == nil {
		s.FailGenerate(&studyplan.ProviderError{Kind: studyplan.KindMalformed, Op: "generate plan"})
		return false
	}
	s.Plan = plan
	s.Source = s.InputText
	s.View = ViewDashboard
	s.ActiveDay = 0
	s.ActiveMode = ModeStrategy
	s.Loading = false
	return true
}

// FailGenerate ends a failed generation. The view stays on upload with the
// notes intact and a blocking notice describing err.
func (s *Shell) FailGenerate(err error) {
	s.Loading = false
	s.View = ViewUpload
	s.Notice = studyplan.NoticeText(err)
}

// DismissNotice clears the pending notice.
func (s *Shell) DismissNotice() {
	s.Notice = ""
}

// SelectDay switches to day i and resets the mode to strategy.
// Out of range indices are ignored.
func (s *Shell) SelectDay(i int) bool {
	if s.Plan == nil || i < 0 || i >= len(s.Plan.Days) {
		return false
	}
	s.ActiveDay = i
	s.ActiveMode = ModeStrategy
	return true
}

// SelectMode switches the study mode. Unknown modes are ignored.
func (s *Shell) SelectMode(m Mode) bool {
	if !m.Valid() {
		return false
	}
	s.ActiveMode = m
	return true
}

// ResetToUpload returns to the upload view. The notes and the previous plan
// are kept so the user can edit and regenerate.
func (s *Shell) ResetToUpload() {
	s.View = ViewUpload
	s.Loading = false
}

// ResumeDashboard goes back to the dashboard of the kept plan, on the day
// and mode last shown. Fails when there is no plan or a generation is running.
func (s *Shell) ResumeDashboard() bool {
	if s.Plan == nil || s.Loading {
		return false
	}
	s.View = ViewDashboard
	return true
}

// Day returns the active day plan.
func (s *Shell) Day() (studyplan.DayPlan, bool) {
	if s.Plan == nil || s.ActiveDay < 0 || s.ActiveDay >= len(s.Plan.Days) {
		return studyplan.DayPlan{}, false
	}
	return s.Plan.Days[s.ActiveDay], true
}

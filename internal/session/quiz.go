package session

import "github.com/abhisek/studyforge/internal/studyplan"

// OptionState drives how a quiz option is rendered.
type OptionState int

const (
	OptionNeutral OptionState = iota
	OptionChosen              // selected, not yet submitted
	OptionCorrect             // the right answer, revealed after submit
	OptionWrong               // the learner's wrong pick, after submit
)

// Quiz runs one day's multiple choice questions in order.
type Quiz struct {
	Questions []studyplan.QuizQuestion
	Index     int

	// Selected is the chosen option of the current question, -1 for none.
	Selected  int
	Submitted bool
	Score     int
	Completed bool
}

// NewQuiz returns a quiz positioned on the first question.
func NewQuiz(questions []studyplan.QuizQuestion) *Quiz {
	q := &Quiz{}
	q.Reset(questions)
	return q
}

// Reset replaces the questions and starts over with a zero score.
func (q *Quiz) Reset(questions []studyplan.QuizQuestion) {
	q.Questions = questions
	q.Index = 0
	q.Selected = -1
	q.Submitted = false
	q.Score = 0
	q.Completed = false
}

// Retake restarts the current question set.
func (q *Quiz) Retake() {
	q.Reset(q.Questions)
}

// Total returns the number of questions.
func (q *Quiz) Total() int {
	return len(q.Questions)
}

// Current returns the question being answered.
func (q *Quiz) Current() (studyplan.QuizQuestion, bool) {
	if q.Completed || q.Index >= len(q.Questions) {
		return studyplan.QuizQuestion{}, false
	}
	return q.Questions[q.Index], true
}

// Select picks option i. Ignored once the answer is submitted or when i
// is out of range.
func (q *Quiz) Select(i int) bool {
	cur, ok := q.Current()
	if !ok || q.Submitted || i < 0 || i >= len(cur.Options) {
		return false
	}
	q.Selected = i
	return true
}

// Submit locks in the selected option and scores it. It requires a
// selection and does nothing otherwise.
func (q *Quiz) Submit() bool {
	cur, ok := q.Current()
	if !ok || q.Submitted || q.Selected < 0 {
		return false
	}
	q.Submitted = true
	if cur.IsCorrect(q.Selected) {
		q.Score++
	}
	return true
}

// Advance moves past a submitted question, completing the quiz after
// the last one.
func (q *Quiz) Advance() bool {
	if !q.Submitted || q.Completed {
		return false
	}
	if q.Index+1 < len(q.Questions) {
		q.Index++
	} else {
		q.Completed = true
	}
	q.Selected = -1
	q.Submitted = false
	return true
}

// LastAnswerCorrect reports whether the submitted answer was right.
func (q *Quiz) LastAnswerCorrect() bool {
	cur, ok := q.Current()
	return ok && q.Submitted && cur.IsCorrect(q.Selected)
}

// OptionState returns the display state of option i of the current question.
func (q *Quiz) OptionState(i int) OptionState {
	cur, ok := q.Current()
	if !ok {
		return OptionNeutral
	}
	if !q.Submitted {
		if i == q.Selected {
			return OptionChosen
		}
		return OptionNeutral
	}
	switch {
	case cur.IsCorrect(i):
		return OptionCorrect
	case i == q.Selected:
		return OptionWrong
	}
	return OptionNeutral
}

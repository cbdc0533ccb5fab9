package studyplan

import "fmt"

// Validate checks the invariants a plan must hold before it is shown:
// exactly DaysInPlan days, and every quiz question has at least two
// options with an in-range correct answer.
func Validate(plan *StudyPlan) error {
	if plan == nil {
		return fmt.Errorf("plan is nil")
	}
	if len(plan.Days) != DaysInPlan {
		return fmt.Errorf("plan has %d days, want %d", len(plan.Days), DaysInPlan)
	}
	for d, day := range plan.Days {
		for q, question := range day.Quiz {
			if len(question.Options) < 2 {
				return fmt.Errorf("day %d question %d has %d options, want at least 2", d, q, len(question.Options))
			}
			if question.CorrectAnswerIndex < 0 || question.CorrectAnswerIndex >= len(question.Options) {
				return fmt.Errorf("day %d question %d: correct answer index %d out of range [0,%d)",
					d, q, question.CorrectAnswerIndex, len(question.Options))
			}
		}
	}
	return nil
}

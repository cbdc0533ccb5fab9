package upload

import "github.com/abhisek/studyforge/internal/studyplan"

// planResultMsg carries the outcome of a plan generation.
type planResultMsg struct {
	Plan *studyplan.StudyPlan
	Err  error
}

package studyplan

// DaysInPlan is the fixed number of days in every plan: Day 0 for
// foundations, then three days of material.
const DaysInPlan = 4

// StudyPlan is a generated multi-day plan. Plans are replaced wholesale
// on regeneration and never mutated.
type StudyPlan struct {
	Title string    `json:"title"`
	Days  []DayPlan `json:"days"`
}

// DayPlan is one day of study material.
type DayPlan struct {
	DayLabel     string         `json:"dayLabel"`
	TopicSummary string         `json:"topicSummary"`
	Flashcards   []Flashcard    `json:"flashcards"`
	Quiz         []QuizQuestion `json:"quiz"`
	Strategy     DayStrategy    `json:"strategy"`
}

// Flashcard is a two-sided card: a question or term on the front, the
// answer or definition on the back.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// QuizQuestion is a multiple choice question.
// CorrectAnswerIndex is zero-based into Options.
type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// IsCorrect reports whether option i is the right answer.
func (q QuizQuestion) IsCorrect(i int) bool {
	return i == q.CorrectAnswerIndex
}

// DayStrategy is the study technique suggested for a day.
type DayStrategy struct {
	MethodName     string `json:"methodName"`
	Description    string `json:"description"`
	ActionableStep string `json:"actionableStep"`
}

// Role identifies the author of a tutor chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is a single entry in the tutor transcript.
type ChatMessage struct {
	Role Role
	Text string
}

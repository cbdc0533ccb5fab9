package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/studyforge/internal/studyplan"
)

// ChatRequest is an outstanding tutor question. TutorID and Seq tie the
// eventual reply to the transcript that asked.
type ChatRequest struct {
	TutorID uuid.UUID
	Seq     int
	Message string

	// History is the transcript before Message was added.
	History []studyplan.ChatMessage
}

// ChatReply is the text to append for a ChatRequest.
type ChatReply struct {
	TutorID uuid.UUID
	Seq     int
	Text    string
}

// Tutor is one tutor transcript. A new transcript is created whenever the
// tutor panel is opened; replies addressed to an older transcript are dropped.
type Tutor struct {
	ID       uuid.UUID
	Messages []studyplan.ChatMessage
	Draft    string
	Sending  bool

	seq int
}

// NewTutor returns a transcript seeded with the greeting.
func NewTutor() *Tutor {
	return &Tutor{
		ID: uuid.New(),
		Messages: []studyplan.ChatMessage{
			{Role: studyplan.RoleModel, Text: studyplan.Greeting},
		},
	}
}

// Send moves the draft into the transcript and returns the request to make.
// Blank drafts and sends while a reply is pending are ignored.
func (t *Tutor) Send() (ChatRequest, bool) {
	msg := strings.TrimSpace(t.Draft)
	if msg == "" || t.Sending {
		return ChatRequest{}, false
	}

	history := make([]studyplan.ChatMessage, len(t.Messages))
	copy(history, t.Messages)

	t.Messages = append(t.Messages, studyplan.ChatMessage{Role: studyplan.RoleUser, Text: msg})
	t.Draft = ""
	t.Sending = true
	t.seq++

	return ChatRequest{
		TutorID: t.ID,
		Seq:     t.seq,
		Message: msg,
		History: history,
	}, true
}

// Resolve appends the reply to the transcript if it answers the outstanding
// request. It reports whether the reply was applied.
func (t *Tutor) Resolve(reply ChatReply) bool {
	if !t.Sending || reply.TutorID != t.ID || reply.Seq != t.seq {
		return false
	}
	t.Messages = append(t.Messages, studyplan.ChatMessage{Role: studyplan.RoleModel, Text: reply.Text})
	t.Sending = false
	return true
}

package dashboard

import "github.com/abhisek/studyforge/internal/session"

// chatReplyMsg carries a tutor answer, or the fallback text when the
// call failed.
type chatReplyMsg struct {
	Reply session.ChatReply
	Err   error
}

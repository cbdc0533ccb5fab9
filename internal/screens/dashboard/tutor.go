package dashboard

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/studyplan"
	"github.com/abhisek/studyforge/internal/ui/components"
)

const inputCharLimit = 2000

// openTutor starts a new transcript with a fresh identity.
func (d *DashboardScreen) openTutor() {
	d.tutor = session.NewTutor()
	d.input = components.NewTextInput("Ask about your notes...", inputCharLimit)
	d.syncTranscript()
}

// closeTutor discards the transcript. Replies still in flight for it will
// no longer match and are dropped.
func (d *DashboardScreen) closeTutor() {
	d.tutor = nil
}

func (d *DashboardScreen) handleTutorKey(msg tea.KeyPressMsg) tea.Cmd {
	if d.tutor == nil {
		return nil
	}

	switch msg.String() {
	case "enter":
		d.tutor.Draft = d.input.Value()
		req, ok := d.tutor.Send()
		if !ok {
			return nil
		}
		d.input.Clear()
		d.input.Disabled = true
		d.syncTranscript()
		return d.ask(req)
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		d.transcript, cmd = d.transcript.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return cmd
}

// ask calls the tutor in the background. Failures resolve to the inline
// fallback text so the transcript always gets an answer.
func (d *DashboardScreen) ask(req session.ChatRequest) tea.Cmd {
	chatter := d.chatter
	source := d.shell.Source
	return func() tea.Msg {
		text, err := chatter.Chat(context.Background(), req.Message, source, req.History)
		if err != nil {
			text = studyplan.FallbackReply(err)
		}
		return chatReplyMsg{
			Reply: session.ChatReply{TutorID: req.TutorID, Seq: req.Seq, Text: text},
			Err:   err,
		}
	}
}

func (d *DashboardScreen) handleChatReply(msg chatReplyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		d.logger.Info("tutor answered with fallback",
			zap.Stringer("kind", studyplan.KindOf(msg.Err)), zap.Error(msg.Err))
	}
	if d.tutor == nil || !d.tutor.Resolve(msg.Reply) {
		d.logger.Debug("dropped stale tutor reply",
			zap.String("tutor_id", msg.Reply.TutorID.String()), zap.Int("seq", msg.Reply.Seq))
		return d, nil
	}
	d.input.Disabled = false
	d.syncTranscript()
	return d, nil
}

package services

import (
	"context"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/realtime"
)

// outbox collects messages inside a transaction; they are emitted only after commit.
type outbox struct {
	msgs []realtime.Message
}

// assignment fans one event out to admins and every user named on the assignment.
func (o *outbox) assignment(event realtime.Event, a *types.Assignment, action assignment.Action, extra map[string]any) {
	data := map[string]any{
		"assignment_id": a.ID,
		"action":        action,
		"status":        a.AnnotationStatus,
		"assignment":    a,
	}
	for k, v := range extra {
		data[k] = v
	}
	channels := []string{realtime.AdminChannel, realtime.UserChannel(a.AnnotatorID)}
	if a.ReviewerID != nil && *a.ReviewerID != a.AnnotatorID {
		channels = append(channels, realtime.UserChannel(*a.ReviewerID))
	}
	for _, ch := range channels {
		o.msgs = append(o.msgs, realtime.Message{Channel: ch, Event: event, Data: data})
	}
}

func (o *outbox) usrStatus(usrID uint, from, to annotation.Status) {
	o.msgs = append(o.msgs, realtime.Message{
		Channel: realtime.AdminChannel,
		Event:   realtime.EventUSRStatusChanged,
		Data: map[string]any{
			"usr_id": usrID,
			"from":   from,
			"to":     to,
		},
	})
}

func (o *outbox) also(channel string, msg realtime.Message) {
	msg.Channel = channel
	o.msgs = append(o.msgs, msg)
}

// flush emits after commit. Delivery failures are logged; the write already happened.
func (o *outbox) flush(ctx context.Context, log *logger.Logger, emitter Emitter) {
	if emitter == nil {
		return
	}
	for _, msg := range o.msgs {
		if err := emitter.Emit(ctx, msg); err != nil {
			log.Warn("Failed to publish assignment event", "event", msg.Event, "channel", msg.Channel, "error", err)
		}
	}
}

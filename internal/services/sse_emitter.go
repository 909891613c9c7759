package services

import (
	"context"

	"github.com/yungbote/usr-annotation-backend/internal/realtime"
	"github.com/yungbote/usr-annotation-backend/internal/realtime/bus"
)

type Emitter interface {
	Emit(ctx context.Context, msg realtime.Message) error
}

// HubEmitter delivers to clients connected to this process only.
type HubEmitter struct{ Hub *realtime.Hub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.Message) error {
	e.Hub.Broadcast(msg)
	return nil
}

// BusEmitter publishes to every API instance; each forwards into its own hub.
type BusEmitter struct{ Bus bus.Bus }

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.Message) error {
	return e.Bus.Publish(ctx, msg)
}

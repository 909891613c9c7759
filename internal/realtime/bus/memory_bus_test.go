package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/realtime"
)

func TestMemoryBusForwardsToHub(t *testing.T) {
	ctx := context.Background()
	hub := realtime.NewHub(logger.Nop())
	client := hub.NewClient(3)
	hub.AddChannel(client, realtime.UserChannel(3))

	b := NewMemoryBus()
	require.NoError(t, b.StartForwarder(ctx, hub.Broadcast))
	require.NoError(t, b.Publish(ctx, realtime.Message{Channel: realtime.UserChannel(3), Event: realtime.EventAssignmentCreated}))

	got := <-client.Outbound
	require.Equal(t, realtime.EventAssignmentCreated, got.Event)
	require.Len(t, b.Published(), 1)
}

func TestRedisBusRequiresAddr(t *testing.T) {
	_, err := NewRedisBus(logger.Nop(), RedisOptions{})
	require.Error(t, err)
}

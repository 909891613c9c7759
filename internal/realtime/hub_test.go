package realtime

import (
	"testing"
	"time"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

func recvMessage(t *testing.T, ch <-chan Message, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return Message{}
}

func TestHubOrderingAndReconnect(t *testing.T) {
	hub := NewHub(logger.Nop())
	channel := UserChannel(7)

	clientA := hub.NewClient(7)
	hub.AddChannel(clientA, channel)

	hub.Broadcast(Message{Channel: channel, Event: EventAssignmentCreated, Data: map[string]any{"seq": 1}})
	hub.Broadcast(Message{Channel: channel, Event: EventAssignmentTransitioned, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != EventAssignmentCreated {
		t.Fatalf("first event: want=%s got=%s", EventAssignmentCreated, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != EventAssignmentTransitioned {
		t.Fatalf("second event: want=%s got=%s", EventAssignmentTransitioned, got.Event)
	}

	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}

	clientB := hub.NewClient(7)
	hub.AddChannel(clientB, channel)
	hub.Broadcast(Message{Channel: channel, Event: EventAssignmentReassigned})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != EventAssignmentReassigned {
		t.Fatalf("reconnect event: want=%s got=%s", EventAssignmentReassigned, got.Event)
	}
}

func TestHubChannelIsolation(t *testing.T) {
	hub := NewHub(logger.Nop())
	a := hub.NewClient(1)
	b := hub.NewClient(2)
	hub.AddChannel(a, UserChannel(1))
	hub.AddChannel(b, UserChannel(2))

	hub.Broadcast(Message{Channel: UserChannel(2), Event: EventAssignmentWidened})
	if got := recvMessage(t, b.Outbound, time.Second); got.Event != EventAssignmentWidened {
		t.Fatalf("want=%s got=%s", EventAssignmentWidened, got.Event)
	}
	select {
	case msg := <-a.Outbound:
		t.Fatalf("client 1 should not receive %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

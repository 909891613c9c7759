package bus

import (
	"context"
	"sync"

	"github.com/yungbote/usr-annotation-backend/internal/realtime"
)

// MemoryBus delivers messages in-process. Used when REDIS_ADDR is unset and in tests.
type MemoryBus struct {
	mu        sync.RWMutex
	handlers  []func(realtime.Message)
	published []realtime.Message
}

func NewMemoryBus() *MemoryBus { return &MemoryBus{} }

func (b *MemoryBus) Publish(ctx context.Context, msg realtime.Message) error {
	b.mu.Lock()
	b.published = append(b.published, msg)
	handlers := append([]func(realtime.Message){}, b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(msg)
	}
	return nil
}

func (b *MemoryBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, onMsg)
	return nil
}

// Published returns a copy of every message seen so far.
func (b *MemoryBus) Published() []realtime.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]realtime.Message(nil), b.published...)
}

func (b *MemoryBus) Close() error { return nil }

package events

import (
	"context"
	"sync"

	"github.com/ravikhokle/oddostock/pkg/logger"
)

// Handler receives published events.
type Handler func(ctx context.Context, event Event)

// Bus fans events out to in-process subscribers synchronously.
// A panicking handler is logged and does not affect the others.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish implements Publisher.
func (b *Bus) Publish(ctx context.Context, events ...Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, e := range events {
		for _, h := range handlers {
			b.dispatch(ctx, h, e)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "event handler panicked", "event_type", e.Type, "event_id", e.ID, "panic", r)
		}
	}()
	h(ctx, e)
}

// LogHandler writes every event to the structured log.
func LogHandler(ctx context.Context, e Event) {
	logger.Info(ctx, "event published",
		"event_type", e.Type,
		"event_id", e.ID,
		"aggregate_type", e.AggregateType,
		"aggregate_id", e.AggregateID,
	)
}

// Multi publishes to several publishers in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, events ...Event) {
	for _, p := range m {
		p.Publish(ctx, events...)
	}
}

var (
	_ Publisher = (*Bus)(nil)
	_ Publisher = Multi(nil)
)

// Package events provides event bus infrastructure for decoupled,
// event-driven communication between modules.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"caterops_backend/platform/logger"
)

// InMemoryBus is a process-local Bus implementation. Handlers registered for
// an event name run in registration order; async publishes run each handler
// in its own goroutine with panic recovery, since a misbehaving subscriber
// must not take down the publisher's request.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish sends an event to all registered handlers asynchronously.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	for _, h := range b.handlersFor(event.EventName()) {
		handler := h
		go func() {
			defer b.recoverPanic(event)
			// Detach from the request context so in-flight handlers survive
			// the publisher's request completing.
			if err := handler.Handle(context.WithoutCancel(ctx), event); err != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(), "occurredAt", event.OccurredAt(), "error", err)
			}
		}()
	}
}

// PublishSync sends an event and waits for all handlers to complete,
// returning the joined handler errors.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, handler := range b.handlersFor(event.EventName()) {
		if err := handler.Handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", event.EventName(), err))
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.handlers[eventName]
}

func (b *InMemoryBus) recoverPanic(event Event) {
	if r := recover(); r != nil {
		b.log.Error("event handler panicked",
			"event", event.EventName(), "panic", fmt.Sprintf("%v", r))
	}
}

// Compile-time check that InMemoryBus implements Bus.
var _ Bus = (*InMemoryBus)(nil)

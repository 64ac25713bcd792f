// Package events defines the domain event contract and the bus the modules
// publish through. Concrete event types live with the domain that owns them
// (internal/events).
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event. EventName doubles as the
// subscription key.
type Event interface {
	EventName() string
	// OccurredAt returns the publish-side timestamp, carried so subscribers
	// and failure logs can order events independently of delivery time.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp half of the Event contract; embed it and
// implement EventName on the concrete type.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns the event's publish-side timestamp.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a BaseEvent with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events it subscribed to.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events to the handlers subscribed under their EventName.
type Bus interface {
	// Publish delivers asynchronously; handler failures are logged, never
	// propagated to the publisher.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers in subscription order and returns the joined
	// handler errors. Used where the caller needs the subscribers' work
	// done before replying (workspace creation seeding).
	PublishSync(ctx context.Context, event Event) error

	Subscribe(eventName string, handler Handler)
}

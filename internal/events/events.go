// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/google/uuid"

	"caterops_backend/platform/events"
	"caterops_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Workspace Domain Events
// =============================================================================

// WorkspaceCreated is published when a new tenant workspace is created.
// Modules subscribe to seed per-workspace defaults.
type WorkspaceCreated struct {
	BaseEvent
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Name        string    `json:"name"`
}

func (e WorkspaceCreated) EventName() string { return "workspace.created" }

// WorkspaceUpdated is published after workspace settings change. Delivery is
// asynchronous; no subscriber's work gates the update response.
type WorkspaceUpdated struct {
	BaseEvent
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Name        string    `json:"name"`
}

func (e WorkspaceUpdated) EventName() string { return "workspace.updated" }

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a catering event row.
type Event struct {
	ID                uuid.UUID
	WorkspaceID       uuid.UUID
	Name              string
	Status            string
	Location          *string
	StartAt           time.Time
	EndAt             *time.Time
	DefaultGuestCount *int
	CreatedAt         string
	UpdatedAt         string
}

// Phase is one time slice of an event.
type Phase struct {
	ID                 uuid.UUID
	WorkspaceID        uuid.UUID
	EventID            uuid.UUID
	PhaseTypeID        *uuid.UUID
	Name               string
	SortOrder          int
	StartAt            *time.Time
	EndAt              *time.Time
	GuestCountMode     string
	GuestCountOverride *int
	Notes              *string
	CreatedAt          string
}

// Item is a product placed in a phase, with catalog pricing columns joined
// in for presentation and price calculation.
type Item struct {
	ID                     uuid.UUID
	WorkspaceID            uuid.UUID
	EventPhaseID           uuid.UUID
	ProductID              uuid.UUID
	Quantity               float64
	QuantitySource         string
	UnitPriceOverrideCents *int64
	PricingModeOverride    *string
	Notes                  *string
	ProductName            string
	ProductType            string
	PricingMode            string
	BasePriceCents         int64
	TaxRateBps             int
	CreatedAt              string
	UpdatedAt              string
}

// ItemComponent is one stored instance-level component choice of an item.
type ItemComponent struct {
	ID                 uuid.UUID
	EventPhaseItemID   uuid.UUID
	ComponentProductID uuid.UUID
	GroupID            *uuid.UUID
	Quantity           float64
	Selected           bool
	ProductName        string
}

// CreateEventParams holds inputs for creating an event.
type CreateEventParams struct {
	WorkspaceID       uuid.UUID
	Name              string
	Location          *string
	StartAt           time.Time
	EndAt             *time.Time
	DefaultGuestCount *int
}

// UpdateEventParams holds partial updates for an event.
type UpdateEventParams struct {
	Name              *string
	Status            *string
	Location          *string
	StartAt           *time.Time
	EndAt             *time.Time
	DefaultGuestCount *int
}

// ListEventsParams holds filters and pagination for event listing.
type ListEventsParams struct {
	WorkspaceID uuid.UUID
	Status      *string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// CreatePhaseParams holds inputs for creating a phase. The phase is appended
// after the event's current last phase.
type CreatePhaseParams struct {
	WorkspaceID        uuid.UUID
	EventID            uuid.UUID
	PhaseTypeID        *uuid.UUID
	Name               string
	StartAt            *time.Time
	EndAt              *time.Time
	GuestCountMode     string
	GuestCountOverride *int
	Notes              *string
}

// UpdatePhaseParams holds partial updates for a phase.
type UpdatePhaseParams struct {
	PhaseTypeID        *uuid.UUID
	Name               *string
	StartAt            *time.Time
	EndAt              *time.Time
	GuestCountMode     *string
	GuestCountOverride *int
	Notes              *string
}

// AddItemParams holds inputs for placing a product in a phase.
type AddItemParams struct {
	WorkspaceID            uuid.UUID
	EventPhaseID           uuid.UUID
	ProductID              uuid.UUID
	Quantity               float64
	QuantitySource         string
	UnitPriceOverrideCents *int64
	PricingModeOverride    *string
	Notes                  *string
}

// UpdateItemParams holds partial updates for an item.
type UpdateItemParams struct {
	Quantity               *float64
	QuantitySource         *string
	UnitPriceOverrideCents *int64
	PricingModeOverride    *string
	Notes                  *string
}

// ComponentRow is one instance-level component choice to persist.
type ComponentRow struct {
	ComponentProductID uuid.UUID
	GroupID            *uuid.UUID
	Quantity           float64
	Selected           bool
}

// Repository defines data access for event planning. Every method is scoped
// to a workspace.
type Repository interface {
	CreateEvent(ctx context.Context, params CreateEventParams) (Event, error)
	GetEvent(ctx context.Context, workspaceID, id uuid.UUID) (Event, error)
	ListEvents(ctx context.Context, params ListEventsParams) ([]Event, int, error)
	UpdateEvent(ctx context.Context, workspaceID, id uuid.UUID, params UpdateEventParams) (Event, error)
	DeleteEvent(ctx context.Context, workspaceID, id uuid.UUID) error

	CreatePhase(ctx context.Context, params CreatePhaseParams) (Phase, error)
	GetPhase(ctx context.Context, workspaceID, id uuid.UUID) (Phase, error)
	ListPhases(ctx context.Context, workspaceID, eventID uuid.UUID) ([]Phase, error)
	UpdatePhase(ctx context.Context, workspaceID, id uuid.UUID, params UpdatePhaseParams) (Phase, error)
	DeletePhase(ctx context.Context, workspaceID, id uuid.UUID) error
	ReorderPhases(ctx context.Context, workspaceID, eventID uuid.UUID, orderedIDs []uuid.UUID) error

	AddItem(ctx context.Context, params AddItemParams) (Item, error)
	GetItem(ctx context.Context, workspaceID, id uuid.UUID) (Item, error)
	ListItems(ctx context.Context, workspaceID, phaseID uuid.UUID) ([]Item, error)
	UpdateItem(ctx context.Context, workspaceID, id uuid.UUID, params UpdateItemParams) (Item, error)
	DeleteItem(ctx context.Context, workspaceID, id uuid.UUID) error

	ReplaceItemComponents(ctx context.Context, workspaceID, itemID uuid.UUID, rows []ComponentRow) error
	ListItemComponents(ctx context.Context, workspaceID uuid.UUID, itemIDs []uuid.UUID) ([]ItemComponent, error)
}

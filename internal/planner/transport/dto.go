// Package transport defines request and response DTOs for the planner API.
package transport

import (
	"time"

	"github.com/google/uuid"

	catalogtransport "caterops_backend/internal/catalog/transport"
)

// CreateEventRequest creates a catering event.
type CreateEventRequest struct {
	Name              string     `json:"name" validate:"required,min=1,max=200"`
	Location          *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	StartAt           time.Time  `json:"startAt" validate:"required"`
	EndAt             *time.Time `json:"endAt,omitempty"`
	DefaultGuestCount *int       `json:"defaultGuestCount,omitempty" validate:"omitempty,gt=0"`
}

// UpdateEventRequest applies partial updates to an event.
type UpdateEventRequest struct {
	Name              *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Status            *string    `json:"status,omitempty" validate:"omitempty,oneof=draft confirmed done cancelled"`
	Location          *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	StartAt           *time.Time `json:"startAt,omitempty"`
	EndAt             *time.Time `json:"endAt,omitempty"`
	DefaultGuestCount *int       `json:"defaultGuestCount,omitempty" validate:"omitempty,gt=0"`
}

// EventResponse is the API shape of an event.
type EventResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Status            string     `json:"status"`
	Location          *string    `json:"location,omitempty"`
	StartAt           time.Time  `json:"startAt"`
	EndAt             *time.Time `json:"endAt,omitempty"`
	DefaultGuestCount *int       `json:"defaultGuestCount,omitempty"`
	CreatedAt         string     `json:"createdAt"`
	UpdatedAt         string     `json:"updatedAt"`
}

// EventListResponse is a paginated event listing.
type EventListResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// CreatePhaseRequest appends a phase to an event.
type CreatePhaseRequest struct {
	PhaseTypeID        *uuid.UUID `json:"phaseTypeId,omitempty"`
	Name               string     `json:"name" validate:"required,min=1,max=200"`
	StartAt            *time.Time `json:"startAt,omitempty"`
	EndAt              *time.Time `json:"endAt,omitempty"`
	GuestCountMode     string     `json:"guestCountMode" validate:"omitempty,oneof=inherit override"`
	GuestCountOverride *int       `json:"guestCountOverride,omitempty" validate:"omitempty,gt=0"`
	Notes              *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdatePhaseRequest applies partial updates to a phase.
type UpdatePhaseRequest struct {
	PhaseTypeID        *uuid.UUID `json:"phaseTypeId,omitempty"`
	Name               *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	StartAt            *time.Time `json:"startAt,omitempty"`
	EndAt              *time.Time `json:"endAt,omitempty"`
	GuestCountMode     *string    `json:"guestCountMode,omitempty" validate:"omitempty,oneof=inherit override"`
	GuestCountOverride *int       `json:"guestCountOverride,omitempty" validate:"omitempty,gt=0"`
	Notes              *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ReorderPhasesRequest rewrites an event's phase ordering.
type ReorderPhasesRequest struct {
	PhaseIDs []uuid.UUID `json:"phaseIds" validate:"required,min=1"`
}

// PhaseResponse is the API shape of a phase. EffectiveGuestCount is the
// resolved guest count after applying the inherit/override mode.
type PhaseResponse struct {
	ID                  uuid.UUID  `json:"id"`
	EventID             uuid.UUID  `json:"eventId"`
	PhaseTypeID         *uuid.UUID `json:"phaseTypeId,omitempty"`
	Name                string     `json:"name"`
	SortOrder           int        `json:"sortOrder"`
	StartAt             *time.Time `json:"startAt,omitempty"`
	EndAt               *time.Time `json:"endAt,omitempty"`
	GuestCountMode      string     `json:"guestCountMode"`
	GuestCountOverride  *int       `json:"guestCountOverride,omitempty"`
	EffectiveGuestCount *int       `json:"effectiveGuestCount,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	CreatedAt           string     `json:"createdAt"`
}

// AddItemRequest places a product in a phase. Quantity may be omitted for
// guest- or hour-driven items.
type AddItemRequest struct {
	ProductID              uuid.UUID `json:"productId" validate:"required"`
	Quantity               *float64  `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	QuantitySource         *string   `json:"quantitySource,omitempty" validate:"omitempty,oneof=guests manual hours"`
	UnitPriceOverrideCents *int64    `json:"unitPriceOverrideCents,omitempty" validate:"omitempty,gte=0"`
	Notes                  *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateItemRequest applies partial updates to an item.
type UpdateItemRequest struct {
	Quantity               *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	QuantitySource         *string  `json:"quantitySource,omitempty" validate:"omitempty,oneof=guests manual hours"`
	UnitPriceOverrideCents *int64   `json:"unitPriceOverrideCents,omitempty" validate:"omitempty,gte=0"`
	PricingModeOverride    *string  `json:"pricingModeOverride,omitempty" validate:"omitempty,oneof=fixed per_unit"`
	Notes                  *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// SaveConfigurationRequest replaces an item's component configuration. The
// components reference the bundle's current edges.
type SaveConfigurationRequest struct {
	Components []catalogtransport.ConfigurationComponent `json:"components" validate:"required,dive"`
}

// ItemComponentResponse is one stored instance-level component choice.
type ItemComponentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ComponentProductID uuid.UUID  `json:"componentProductId"`
	ProductName        string     `json:"productName"`
	GroupID            *uuid.UUID `json:"groupId,omitempty"`
	Quantity           float64    `json:"quantity"`
	Selected           bool       `json:"selected"`
}

// ItemResponse is the API shape of a phase item. EffectiveQuantity is the
// resolved quantity; it is nil when resolution fails (for example a
// guest-driven item in a phase with no guest count).
type ItemResponse struct {
	ID                     uuid.UUID               `json:"id"`
	EventPhaseID           uuid.UUID               `json:"eventPhaseId"`
	ProductID              uuid.UUID               `json:"productId"`
	ProductName            string                  `json:"productName"`
	ProductType            string                  `json:"productType"`
	Quantity               float64                 `json:"quantity"`
	QuantitySource         string                  `json:"quantitySource"`
	EffectiveQuantity      *float64                `json:"effectiveQuantity,omitempty"`
	PricingMode            string                  `json:"pricingMode"`
	PricingModeOverride    *string                 `json:"pricingModeOverride,omitempty"`
	BasePriceCents         int64                   `json:"basePriceCents"`
	UnitPriceOverrideCents *int64                  `json:"unitPriceOverrideCents,omitempty"`
	TaxRateBps             int                     `json:"taxRateBps"`
	Notes                  *string                 `json:"notes,omitempty"`
	Components             []ItemComponentResponse `json:"components"`
	CreatedAt              string                  `json:"createdAt"`
	UpdatedAt              string                  `json:"updatedAt"`
}

// ItemCostResponse is one item's resolved cost and price within a report.
type ItemCostResponse struct {
	ItemID            uuid.UUID                            `json:"itemId"`
	ProductID         uuid.UUID                            `json:"productId"`
	ProductName       string                               `json:"productName"`
	EffectiveQuantity float64                              `json:"effectiveQuantity"`
	PriceCents        int64                                `json:"priceCents"`
	Cost              catalogtransport.CostBreakdownResponse `json:"cost"`
}

// PhaseCostResponse groups item costs under a phase.
type PhaseCostResponse struct {
	PhaseID   uuid.UUID          `json:"phaseId"`
	PhaseName string             `json:"phaseName"`
	Items     []ItemCostResponse `json:"items"`
}

// EventCostReportResponse aggregates resource costs and prices across an
// event.
type EventCostReportResponse struct {
	EventID             uuid.UUID                           `json:"eventId"`
	Phases              []PhaseCostResponse                 `json:"phases"`
	PerResource         []catalogtransport.ResourceCostLine `json:"perResource"`
	TotalCostCents      int64                               `json:"totalCostCents"`
	TotalPriceCents     int64                               `json:"totalPriceCents"`
	UnresolvableItemIDs []uuid.UUID                         `json:"unresolvableItemIds,omitempty"`
}

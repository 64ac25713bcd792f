// Package service implements event planning business logic: events, phases,
// phase items, instance-level configurations, and cost reporting.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	catalogtransport "caterops_backend/internal/catalog/transport"
	"caterops_backend/internal/planner/quantity"
	"caterops_backend/internal/planner/repository"
	"caterops_backend/internal/planner/transport"
	"caterops_backend/platform/apperr"
	"caterops_backend/platform/logger"
)

// Catalog is the slice of the catalog module the planner depends on.
type Catalog interface {
	GetProduct(ctx context.Context, workspaceID, id uuid.UUID) (catalogtransport.ProductResponse, error)
	GetBundleDefinition(ctx context.Context, workspaceID, productID uuid.UUID) (catalogtransport.BundleDefinitionResponse, error)
	ValidateSelection(ctx context.Context, workspaceID, productID uuid.UUID, components []catalogtransport.ConfigurationComponent) (catalogtransport.ValidationResponse, error)
	ResolveProductCost(ctx context.Context, workspaceID, productID uuid.UUID, qty float64) (catalogtransport.CostBreakdownResponse, error)
	ResolveCostForSnapshot(ctx context.Context, workspaceID, productID uuid.UUID, qty float64, components []catalogtransport.SnapshotComponent) (catalogtransport.CostBreakdownResponse, error)
	ListCompatibleProducts(ctx context.Context, workspaceID, phaseTypeID uuid.UUID) ([]catalogtransport.ProductResponse, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service provides planner business logic.
type Service struct {
	repo    repository.Repository
	catalog Catalog
	log     *logger.Logger
}

// New creates a new planner service.
func New(repo repository.Repository, catalog Catalog, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, log: log}
}

// CreateEvent creates an event in draft status.
func (s *Service) CreateEvent(ctx context.Context, workspaceID uuid.UUID, req transport.CreateEventRequest) (transport.EventResponse, error) {
	if req.EndAt != nil && !req.EndAt.After(req.StartAt) {
		return transport.EventResponse{}, apperr.Validation("event end must be after start")
	}

	event, err := s.repo.CreateEvent(ctx, repository.CreateEventParams{
		WorkspaceID:       workspaceID,
		Name:              strings.TrimSpace(req.Name),
		Location:          req.Location,
		StartAt:           req.StartAt,
		EndAt:             req.EndAt,
		DefaultGuestCount: req.DefaultGuestCount,
	})
	if err != nil {
		return transport.EventResponse{}, err
	}

	s.log.Info("event created", "workspaceId", workspaceID, "eventId", event.ID)
	return toEventResponse(event), nil
}

// GetEvent retrieves an event.
func (s *Service) GetEvent(ctx context.Context, workspaceID, id uuid.UUID) (transport.EventResponse, error) {
	event, err := s.repo.GetEvent(ctx, workspaceID, id)
	if err != nil {
		return transport.EventResponse{}, err
	}
	return toEventResponse(event), nil
}

// ListEvents lists events matching the filters.
func (s *Service) ListEvents(ctx context.Context, params repository.ListEventsParams) (transport.EventListResponse, error) {
	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	if params.Limit > maxListLimit {
		params.Limit = maxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	items, total, err := s.repo.ListEvents(ctx, params)
	if err != nil {
		return transport.EventListResponse{}, err
	}

	responses := make([]transport.EventResponse, len(items))
	for i, item := range items {
		responses[i] = toEventResponse(item)
	}
	return transport.EventListResponse{Items: responses, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// UpdateEvent applies partial updates to an event. A changed default guest
// count flows into every inheriting phase on the next read.
func (s *Service) UpdateEvent(ctx context.Context, workspaceID, id uuid.UUID, req transport.UpdateEventRequest) (transport.EventResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	event, err := s.repo.UpdateEvent(ctx, workspaceID, id, repository.UpdateEventParams{
		Name:              name,
		Status:            req.Status,
		Location:          req.Location,
		StartAt:           req.StartAt,
		EndAt:             req.EndAt,
		DefaultGuestCount: req.DefaultGuestCount,
	})
	if err != nil {
		return transport.EventResponse{}, err
	}
	return toEventResponse(event), nil
}

// DeleteEvent deletes an event with its phases and items.
func (s *Service) DeleteEvent(ctx context.Context, workspaceID, id uuid.UUID) error {
	return s.repo.DeleteEvent(ctx, workspaceID, id)
}

// CreatePhase appends a phase to an event.
func (s *Service) CreatePhase(ctx context.Context, workspaceID, eventID uuid.UUID, req transport.CreatePhaseRequest) (transport.PhaseResponse, error) {
	event, err := s.repo.GetEvent(ctx, workspaceID, eventID)
	if err != nil {
		return transport.PhaseResponse{}, err
	}

	phase, err := s.repo.CreatePhase(ctx, repository.CreatePhaseParams{
		WorkspaceID:        workspaceID,
		EventID:            eventID,
		PhaseTypeID:        req.PhaseTypeID,
		Name:               strings.TrimSpace(req.Name),
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		GuestCountMode:     orDefault(req.GuestCountMode, quantity.ModeInherit),
		GuestCountOverride: req.GuestCountOverride,
		Notes:              req.Notes,
	})
	if err != nil {
		return transport.PhaseResponse{}, err
	}

	s.log.Info("phase created", "workspaceId", workspaceID, "eventId", eventID, "phaseId", phase.ID)
	return toPhaseResponse(event, phase), nil
}

// GetPhase retrieves a phase.
func (s *Service) GetPhase(ctx context.Context, workspaceID, id uuid.UUID) (transport.PhaseResponse, error) {
	phase, err := s.repo.GetPhase(ctx, workspaceID, id)
	if err != nil {
		return transport.PhaseResponse{}, err
	}
	event, err := s.repo.GetEvent(ctx, workspaceID, phase.EventID)
	if err != nil {
		return transport.PhaseResponse{}, err
	}
	return toPhaseResponse(event, phase), nil
}

// ListPhases lists an event's phases in order.
func (s *Service) ListPhases(ctx context.Context, workspaceID, eventID uuid.UUID) ([]transport.PhaseResponse, error) {
	event, err := s.repo.GetEvent(ctx, workspaceID, eventID)
	if err != nil {
		return nil, err
	}
	phases, err := s.repo.ListPhases(ctx, workspaceID, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.PhaseResponse, len(phases))
	for i, phase := range phases {
		responses[i] = toPhaseResponse(event, phase)
	}
	return responses, nil
}

// UpdatePhase applies partial updates to a phase.
func (s *Service) UpdatePhase(ctx context.Context, workspaceID, id uuid.UUID, req transport.UpdatePhaseRequest) (transport.PhaseResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	phase, err := s.repo.UpdatePhase(ctx, workspaceID, id, repository.UpdatePhaseParams{
		PhaseTypeID:        req.PhaseTypeID,
		Name:               name,
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		GuestCountMode:     req.GuestCountMode,
		GuestCountOverride: req.GuestCountOverride,
		Notes:              req.Notes,
	})
	if err != nil {
		return transport.PhaseResponse{}, err
	}
	event, err := s.repo.GetEvent(ctx, workspaceID, phase.EventID)
	if err != nil {
		return transport.PhaseResponse{}, err
	}
	return toPhaseResponse(event, phase), nil
}

// DeletePhase deletes a phase and its items.
func (s *Service) DeletePhase(ctx context.Context, workspaceID, id uuid.UUID) error {
	return s.repo.DeletePhase(ctx, workspaceID, id)
}

// ReorderPhases rewrites an event's phase ordering.
func (s *Service) ReorderPhases(ctx context.Context, workspaceID, eventID uuid.UUID, req transport.ReorderPhasesRequest) ([]transport.PhaseResponse, error) {
	seen := make(map[uuid.UUID]bool, len(req.PhaseIDs))
	for _, id := range req.PhaseIDs {
		if seen[id] {
			return nil, apperr.Validation("ordering contains duplicate phase ids")
		}
		seen[id] = true
	}

	if err := s.repo.ReorderPhases(ctx, workspaceID, eventID, req.PhaseIDs); err != nil {
		return nil, err
	}
	return s.ListPhases(ctx, workspaceID, eventID)
}

// ListCompatibleProducts lists products placeable in a phase, based on the
// phase's type. A phase without a type accepts nothing until one is set.
func (s *Service) ListCompatibleProducts(ctx context.Context, workspaceID, phaseID uuid.UUID) ([]catalogtransport.ProductResponse, error) {
	phase, err := s.repo.GetPhase(ctx, workspaceID, phaseID)
	if err != nil {
		return nil, err
	}
	if phase.PhaseTypeID == nil {
		return []catalogtransport.ProductResponse{}, nil
	}
	return s.catalog.ListCompatibleProducts(ctx, workspaceID, *phase.PhaseTypeID)
}

func phaseContext(event repository.Event, phase repository.Phase) quantity.PhaseContext {
	ctx := quantity.PhaseContext{
		EventGuestCount:    event.DefaultGuestCount,
		GuestCountMode:     phase.GuestCountMode,
		GuestCountOverride: phase.GuestCountOverride,
		StartAt:            phase.StartAt,
		EndAt:              phase.EndAt,
	}
	// Untimed phases fall back to the event's own window.
	if ctx.StartAt == nil {
		start := event.StartAt
		ctx.StartAt = &start
	}
	if ctx.EndAt == nil {
		ctx.EndAt = event.EndAt
	}
	return ctx
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func toEventResponse(event repository.Event) transport.EventResponse {
	return transport.EventResponse{
		ID:                event.ID,
		Name:              event.Name,
		Status:            event.Status,
		Location:          event.Location,
		StartAt:           event.StartAt,
		EndAt:             event.EndAt,
		DefaultGuestCount: event.DefaultGuestCount,
		CreatedAt:         event.CreatedAt,
		UpdatedAt:         event.UpdatedAt,
	}
}

func toPhaseResponse(event repository.Event, phase repository.Phase) transport.PhaseResponse {
	return transport.PhaseResponse{
		ID:                  phase.ID,
		EventID:             phase.EventID,
		PhaseTypeID:         phase.PhaseTypeID,
		Name:                phase.Name,
		SortOrder:           phase.SortOrder,
		StartAt:             phase.StartAt,
		EndAt:               phase.EndAt,
		GuestCountMode:      phase.GuestCountMode,
		GuestCountOverride:  phase.GuestCountOverride,
		EffectiveGuestCount: quantity.GuestCount(phaseContext(event, phase)),
		Notes:               phase.Notes,
		CreatedAt:           phase.CreatedAt,
	}
}

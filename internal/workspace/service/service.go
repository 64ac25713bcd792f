package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"caterops_backend/internal/events"
	"caterops_backend/internal/workspace/repository"
	"caterops_backend/internal/workspace/transport"
	"caterops_backend/platform/logger"
)

// Service provides business logic for workspaces.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new workspace service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create creates a workspace and publishes WorkspaceCreated so other modules
// can seed their per-workspace defaults. The publish is synchronous: the
// workspace must be usable (default phase types in place) by the time the
// response returns. Seeding failures are logged, not surfaced; the workspace
// itself was created.
func (s *Service) Create(ctx context.Context, req transport.CreateWorkspaceRequest) (transport.WorkspaceResponse, error) {
	ws, err := s.repo.Create(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return transport.WorkspaceResponse{}, err
	}

	s.log.Info("workspace created", "id", ws.ID, "name", ws.Name)
	if err := s.bus.PublishSync(ctx, events.WorkspaceCreated{
		BaseEvent:   events.NewBaseEvent(),
		WorkspaceID: ws.ID,
		Name:        ws.Name,
	}); err != nil {
		s.log.Error("workspace seeding failed", "id", ws.ID, "error", err)
	}

	return toWorkspaceResponse(ws), nil
}

// Update updates a workspace.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateWorkspaceRequest) (transport.WorkspaceResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}

	ws, err := s.repo.Update(ctx, id, name)
	if err != nil {
		return transport.WorkspaceResponse{}, err
	}

	s.log.Info("workspace updated", "id", ws.ID)
	s.bus.Publish(ctx, events.WorkspaceUpdated{
		BaseEvent:   events.NewBaseEvent(),
		WorkspaceID: ws.ID,
		Name:        ws.Name,
	})
	return toWorkspaceResponse(ws), nil
}

// GetByID retrieves a workspace by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.WorkspaceResponse, error) {
	ws, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.WorkspaceResponse{}, err
	}
	return toWorkspaceResponse(ws), nil
}

// List lists all workspaces.
func (s *Service) List(ctx context.Context) (transport.WorkspaceListResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return transport.WorkspaceListResponse{}, err
	}

	responses := make([]transport.WorkspaceResponse, len(items))
	for i, item := range items {
		responses[i] = toWorkspaceResponse(item)
	}
	return transport.WorkspaceListResponse{Items: responses}, nil
}

// GetConfig retrieves a workspace config document by key.
func (s *Service) GetConfig(ctx context.Context, workspaceID uuid.UUID, key string) (transport.ConfigResponse, error) {
	cfg, err := s.repo.GetConfig(ctx, workspaceID, key)
	if err != nil {
		return transport.ConfigResponse{}, err
	}
	return toConfigResponse(cfg), nil
}

// UpsertConfig creates or replaces a workspace config document.
func (s *Service) UpsertConfig(ctx context.Context, workspaceID uuid.UUID, key string, value json.RawMessage) (transport.ConfigResponse, error) {
	cfg, err := s.repo.UpsertConfig(ctx, workspaceID, key, value)
	if err != nil {
		return transport.ConfigResponse{}, err
	}

	s.log.Info("workspace config updated", "workspaceId", workspaceID, "key", key)
	return toConfigResponse(cfg), nil
}

func toWorkspaceResponse(ws repository.Workspace) transport.WorkspaceResponse {
	return transport.WorkspaceResponse{
		ID:        ws.ID,
		Name:      ws.Name,
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.UpdatedAt,
	}
}

func toConfigResponse(cfg repository.Config) transport.ConfigResponse {
	return transport.ConfigResponse{
		Key:       cfg.Key,
		Value:     cfg.Value,
		UpdatedAt: cfg.UpdatedAt,
	}
}

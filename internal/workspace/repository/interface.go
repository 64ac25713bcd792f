package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Workspace represents a tenant workspace.
type Workspace struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt string    `db:"created_at"`
	UpdatedAt string    `db:"updated_at"`
}

// Config is a free-form JSON settings document scoped to a workspace.
type Config struct {
	WorkspaceID uuid.UUID       `db:"workspace_id"`
	Key         string          `db:"key"`
	Value       json.RawMessage `db:"value"`
	UpdatedAt   string          `db:"updated_at"`
}

// Repository defines workspace storage operations.
type Repository interface {
	Create(ctx context.Context, name string) (Workspace, error)
	Update(ctx context.Context, id uuid.UUID, name *string) (Workspace, error)
	GetByID(ctx context.Context, id uuid.UUID) (Workspace, error)
	List(ctx context.Context) ([]Workspace, error)

	GetConfig(ctx context.Context, workspaceID uuid.UUID, key string) (Config, error)
	UpsertConfig(ctx context.Context, workspaceID uuid.UUID, key string, value json.RawMessage) (Config, error)
}

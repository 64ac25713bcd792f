package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"caterops_backend/platform/apperr"
)

const workspaceNotFoundMessage = "workspace not found"

// Repo implements the workspace repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workspace repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create creates a workspace.
func (r *Repo) Create(ctx context.Context, name string) (Workspace, error) {
	query := `
		INSERT INTO workspaces (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at`

	var ws Workspace
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, name).Scan(&ws.ID, &ws.Name, &createdAt, &updatedAt); err != nil {
		return Workspace{}, fmt.Errorf("create workspace: %w", err)
	}

	ws.CreatedAt = createdAt.Format(time.RFC3339)
	ws.UpdatedAt = updatedAt.Format(time.RFC3339)
	return ws, nil
}

// Update updates a workspace.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, name *string) (Workspace, error) {
	query := `
		UPDATE workspaces
		SET name = COALESCE($2, name), updated_at = now()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at`

	var ws Workspace
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, name).Scan(&ws.ID, &ws.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Workspace{}, apperr.NotFound(workspaceNotFoundMessage)
		}
		return Workspace{}, fmt.Errorf("update workspace: %w", err)
	}

	ws.CreatedAt = createdAt.Format(time.RFC3339)
	ws.UpdatedAt = updatedAt.Format(time.RFC3339)
	return ws, nil
}

// GetByID retrieves a workspace by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Workspace, error) {
	query := `SELECT id, name, created_at, updated_at FROM workspaces WHERE id = $1`

	var ws Workspace
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, id).Scan(&ws.ID, &ws.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Workspace{}, apperr.NotFound(workspaceNotFoundMessage)
		}
		return Workspace{}, fmt.Errorf("get workspace by id: %w", err)
	}

	ws.CreatedAt = createdAt.Format(time.RFC3339)
	ws.UpdatedAt = updatedAt.Format(time.RFC3339)
	return ws, nil
}

// List lists all workspaces.
func (r *Repo) List(ctx context.Context) ([]Workspace, error) {
	query := `SELECT id, name, created_at, updated_at FROM workspaces ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	items := make([]Workspace, 0)
	for rows.Next() {
		var ws Workspace
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&ws.ID, &ws.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		ws.CreatedAt = createdAt.Format(time.RFC3339)
		ws.UpdatedAt = updatedAt.Format(time.RFC3339)
		items = append(items, ws)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", rows.Err())
	}

	return items, nil
}

// GetConfig retrieves a workspace config document by key.
func (r *Repo) GetConfig(ctx context.Context, workspaceID uuid.UUID, key string) (Config, error) {
	query := `
		SELECT workspace_id, key, value, updated_at
		FROM workspace_configs
		WHERE workspace_id = $1 AND key = $2`

	var cfg Config
	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, workspaceID, key).Scan(
		&cfg.WorkspaceID, &cfg.Key, &cfg.Value, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Config{}, apperr.NotFound("workspace config not found")
		}
		return Config{}, fmt.Errorf("get workspace config: %w", err)
	}

	cfg.UpdatedAt = updatedAt.Format(time.RFC3339)
	return cfg, nil
}

// UpsertConfig creates or replaces a workspace config document.
func (r *Repo) UpsertConfig(ctx context.Context, workspaceID uuid.UUID, key string, value json.RawMessage) (Config, error) {
	query := `
		INSERT INTO workspace_configs (workspace_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (workspace_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING workspace_id, key, value, updated_at`

	var cfg Config
	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, workspaceID, key, value).Scan(
		&cfg.WorkspaceID, &cfg.Key, &cfg.Value, &updatedAt,
	); err != nil {
		return Config{}, fmt.Errorf("upsert workspace config: %w", err)
	}

	cfg.UpdatedAt = updatedAt.Format(time.RFC3339)
	return cfg, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"caterops_backend/platform/apperr"
)

const (
	categoryNotFoundMessage  = "category not found"
	phaseTypeNotFoundMessage = "phase type not found"
	resourceNotFoundMessage  = "resource not found"
	productNotFoundMessage   = "product not found"

	pgForeignKeyViolation = "23503"
)

// Repo implements the catalog repository backed by Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// isForeignKeyViolation reports whether err is a Postgres FK violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// CreateCategory creates a product category.
func (r *Repo) CreateCategory(ctx context.Context, params CreateCategoryParams) (Category, error) {
	query := `
		INSERT INTO product_categories (workspace_id, parent_category_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, workspace_id, parent_category_id, name, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, params.WorkspaceID, params.ParentCategoryID, params.Name)
	cat, err := scanCategory(row)
	if err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// ListCategories lists categories for a workspace ordered by name.
func (r *Repo) ListCategories(ctx context.Context, workspaceID uuid.UUID) ([]Category, error) {
	query := `
		SELECT id, workspace_id, parent_category_id, name, created_at, updated_at
		FROM product_categories
		WHERE workspace_id = $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := make([]Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, cat)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate categories: %w", rows.Err())
	}
	return items, nil
}

// UpdateCategory updates a category.
func (r *Repo) UpdateCategory(ctx context.Context, workspaceID, id uuid.UUID, params UpdateCategoryParams) (Category, error) {
	query := `
		UPDATE product_categories
		SET name = COALESCE($3, name),
		    parent_category_id = COALESCE($4, parent_category_id),
		    updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING id, workspace_id, parent_category_id, name, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, workspaceID, id, params.Name, params.ParentCategoryID)
	cat, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	return cat, nil
}

// DeleteCategory deletes a category. Products referencing it keep existing
// with a cleared category.
func (r *Repo) DeleteCategory(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM product_categories WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(categoryNotFoundMessage)
	}
	return nil
}

// CreatePhaseType creates a phase type.
func (r *Repo) CreatePhaseType(ctx context.Context, params CreatePhaseTypeParams) (PhaseType, error) {
	query := `
		INSERT INTO phase_types (workspace_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, workspace_id, name, description, is_active, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, params.WorkspaceID, params.Name, params.Description)
	pt, err := scanPhaseType(row)
	if err != nil {
		return PhaseType{}, fmt.Errorf("create phase type: %w", err)
	}
	return pt, nil
}

// ListPhaseTypes lists phase types for a workspace ordered by name.
func (r *Repo) ListPhaseTypes(ctx context.Context, workspaceID uuid.UUID) ([]PhaseType, error) {
	query := `
		SELECT id, workspace_id, name, description, is_active, created_at, updated_at
		FROM phase_types
		WHERE workspace_id = $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list phase types: %w", err)
	}
	defer rows.Close()

	items := make([]PhaseType, 0)
	for rows.Next() {
		pt, err := scanPhaseType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan phase type: %w", err)
		}
		items = append(items, pt)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate phase types: %w", rows.Err())
	}
	return items, nil
}

// UpdatePhaseType updates a phase type.
func (r *Repo) UpdatePhaseType(ctx context.Context, workspaceID, id uuid.UUID, params UpdatePhaseTypeParams) (PhaseType, error) {
	query := `
		UPDATE phase_types
		SET name = COALESCE($3, name),
		    description = COALESCE($4, description),
		    is_active = COALESCE($5, is_active),
		    updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING id, workspace_id, name, description, is_active, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, workspaceID, id, params.Name, params.Description, params.IsActive)
	pt, err := scanPhaseType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PhaseType{}, apperr.NotFound(phaseTypeNotFoundMessage)
		}
		return PhaseType{}, fmt.Errorf("update phase type: %w", err)
	}
	return pt, nil
}

// DeletePhaseType deletes a phase type. Event phases referencing it block
// the delete.
func (r *Repo) DeletePhaseType(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM phase_types WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Conflict("phase type is in use by event phases")
		}
		return fmt.Errorf("delete phase type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(phaseTypeNotFoundMessage)
	}
	return nil
}

// SeedPhaseTypes inserts the default phase types for a fresh workspace.
// Seeding twice is a no-op for names that already exist.
func (r *Repo) SeedPhaseTypes(ctx context.Context, workspaceID uuid.UUID, names []string) error {
	query := `
		INSERT INTO phase_types (workspace_id, name)
		SELECT $1, $2
		WHERE NOT EXISTS (
			SELECT 1 FROM phase_types WHERE workspace_id = $1 AND name = $2
		)`

	for _, name := range names {
		if _, err := r.pool.Exec(ctx, query, workspaceID, name); err != nil {
			return fmt.Errorf("seed phase type %q: %w", name, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var cat Category
	var createdAt, updatedAt time.Time
	if err := row.Scan(&cat.ID, &cat.WorkspaceID, &cat.ParentCategoryID, &cat.Name, &createdAt, &updatedAt); err != nil {
		return Category{}, err
	}
	cat.CreatedAt = createdAt.Format(time.RFC3339)
	cat.UpdatedAt = updatedAt.Format(time.RFC3339)
	return cat, nil
}

func scanPhaseType(row rowScanner) (PhaseType, error) {
	var pt PhaseType
	var createdAt, updatedAt time.Time
	if err := row.Scan(&pt.ID, &pt.WorkspaceID, &pt.Name, &pt.Description, &pt.IsActive, &createdAt, &updatedAt); err != nil {
		return PhaseType{}, err
	}
	pt.CreatedAt = createdAt.Format(time.RFC3339)
	pt.UpdatedAt = updatedAt.Format(time.RFC3339)
	return pt, nil
}

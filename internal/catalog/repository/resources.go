package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"caterops_backend/platform/apperr"
)

const resourceColumns = `
	id, workspace_id, name, resource_type, unit, cost_per_unit_cents,
	is_reusable, is_active, created_at, updated_at`

// CreateResource creates a resource.
func (r *Repo) CreateResource(ctx context.Context, params CreateResourceParams) (Resource, error) {
	query := `
		INSERT INTO resources (workspace_id, name, resource_type, unit, cost_per_unit_cents, is_reusable)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING` + resourceColumns

	row := r.pool.QueryRow(ctx, query,
		params.WorkspaceID, params.Name, params.ResourceType, params.Unit,
		params.CostPerUnitCents, params.IsReusable,
	)
	resource, err := scanResource(row)
	if err != nil {
		return Resource{}, fmt.Errorf("create resource: %w", err)
	}
	return resource, nil
}

// GetResource retrieves a resource by ID.
func (r *Repo) GetResource(ctx context.Context, workspaceID, id uuid.UUID) (Resource, error) {
	query := `SELECT` + resourceColumns + ` FROM resources WHERE workspace_id = $1 AND id = $2`

	row := r.pool.QueryRow(ctx, query, workspaceID, id)
	resource, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resource{}, apperr.NotFound(resourceNotFoundMessage)
		}
		return Resource{}, fmt.Errorf("get resource: %w", err)
	}
	return resource, nil
}

// ListResources lists resources for a workspace ordered by name.
func (r *Repo) ListResources(ctx context.Context, workspaceID uuid.UUID) ([]Resource, error) {
	query := `SELECT` + resourceColumns + `
		FROM resources
		WHERE workspace_id = $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	items := make([]Resource, 0)
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		items = append(items, resource)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate resources: %w", rows.Err())
	}
	return items, nil
}

// UpdateResource applies partial updates to a resource.
func (r *Repo) UpdateResource(ctx context.Context, workspaceID, id uuid.UUID, params UpdateResourceParams) (Resource, error) {
	query := `
		UPDATE resources
		SET name = COALESCE($3, name),
		    resource_type = COALESCE($4, resource_type),
		    unit = COALESCE($5, unit),
		    cost_per_unit_cents = COALESCE($6, cost_per_unit_cents),
		    is_reusable = COALESCE($7, is_reusable),
		    is_active = COALESCE($8, is_active),
		    updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING` + resourceColumns

	row := r.pool.QueryRow(ctx, query, workspaceID, id,
		params.Name, params.ResourceType, params.Unit,
		params.CostPerUnitCents, params.IsReusable, params.IsActive,
	)
	resource, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resource{}, apperr.NotFound(resourceNotFoundMessage)
		}
		return Resource{}, fmt.Errorf("update resource: %w", err)
	}
	return resource, nil
}

// DeleteResource deletes a resource and cascades its consumption rules.
func (r *Repo) DeleteResource(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM resources WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceNotFoundMessage)
	}
	return nil
}

// ReplaceConsumptionRules atomically replaces a product's resource
// consumption rules.
func (r *Repo) ReplaceConsumptionRules(ctx context.Context, workspaceID, productID uuid.UUID, rules []RuleInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace consumption rules: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM product_resources WHERE workspace_id = $1 AND product_id = $2`,
		workspaceID, productID); err != nil {
		return fmt.Errorf("clear consumption rules: %w", err)
	}

	insert := `
		INSERT INTO product_resources (
			workspace_id, product_id, resource_id, rule_type, quantity,
			ratio_base, rounding_mode, applies_to, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, rule := range rules {
		if _, err := tx.Exec(ctx, insert,
			workspaceID, productID, rule.ResourceID, rule.RuleType, rule.Quantity,
			rule.RatioBase, rule.RoundingMode, rule.AppliesTo, rule.Notes,
		); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Validation(fmt.Sprintf("unknown resource %s", rule.ResourceID))
			}
			return fmt.Errorf("insert consumption rule: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace consumption rules: %w", err)
	}
	return nil
}

// ListConsumptionRules lists the consumption rules of the given products with
// resource pricing joined in.
func (r *Repo) ListConsumptionRules(ctx context.Context, workspaceID uuid.UUID, productIDs []uuid.UUID) ([]ConsumptionRule, error) {
	if len(productIDs) == 0 {
		return []ConsumptionRule{}, nil
	}

	query := `
		SELECT pr.id, pr.product_id, pr.resource_id, pr.rule_type, pr.quantity,
		       pr.ratio_base, pr.rounding_mode, pr.applies_to, pr.notes,
		       res.name, res.unit, res.cost_per_unit_cents, res.is_active
		FROM product_resources pr
		JOIN resources res ON res.id = pr.resource_id
		WHERE pr.workspace_id = $1 AND pr.product_id = ANY($2)
		ORDER BY res.name ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list consumption rules: %w", err)
	}
	defer rows.Close()

	items := make([]ConsumptionRule, 0)
	for rows.Next() {
		var rule ConsumptionRule
		if err := rows.Scan(
			&rule.ID, &rule.ProductID, &rule.ResourceID, &rule.RuleType, &rule.Quantity,
			&rule.RatioBase, &rule.RoundingMode, &rule.AppliesTo, &rule.Notes,
			&rule.ResourceName, &rule.ResourceUnit, &rule.ResourceCostPerUnitCents, &rule.ResourceIsActive,
		); err != nil {
			return nil, fmt.Errorf("scan consumption rule: %w", err)
		}
		items = append(items, rule)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate consumption rules: %w", rows.Err())
	}
	return items, nil
}

func scanResource(row rowScanner) (Resource, error) {
	var res Resource
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&res.ID, &res.WorkspaceID, &res.Name, &res.ResourceType, &res.Unit,
		&res.CostPerUnitCents, &res.IsReusable, &res.IsActive, &createdAt, &updatedAt,
	); err != nil {
		return Resource{}, err
	}
	res.CreatedAt = createdAt.Format(time.RFC3339)
	res.UpdatedAt = updatedAt.Format(time.RFC3339)
	return res, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"caterops_backend/platform/apperr"
)

// GetBundleDefinition retrieves a bundle's option groups and component edges.
// Groups come back in sort order, components grouped under their group.
func (r *Repo) GetBundleDefinition(ctx context.Context, workspaceID, productID uuid.UUID) (BundleDefinition, error) {
	groupQuery := `
		SELECT id, parent_product_id, name, min_select, max_select, pricing_behavior, sort_order
		FROM bundle_groups
		WHERE workspace_id = $1 AND parent_product_id = $2
		ORDER BY sort_order ASC, name ASC`

	rows, err := r.pool.Query(ctx, groupQuery, workspaceID, productID)
	if err != nil {
		return BundleDefinition{}, fmt.Errorf("list bundle groups: %w", err)
	}
	defer rows.Close()

	def := BundleDefinition{Groups: make([]BundleGroup, 0), Components: make([]Component, 0)}
	for rows.Next() {
		var g BundleGroup
		if err := rows.Scan(&g.ID, &g.ParentProductID, &g.Name, &g.MinSelect, &g.MaxSelect, &g.PricingBehavior, &g.SortOrder); err != nil {
			return BundleDefinition{}, fmt.Errorf("scan bundle group: %w", err)
		}
		def.Groups = append(def.Groups, g)
	}
	if rows.Err() != nil {
		return BundleDefinition{}, fmt.Errorf("iterate bundle groups: %w", rows.Err())
	}

	componentQuery := `
		SELECT pc.id, pc.parent_product_id, pc.child_product_id, pc.group_id,
		       pc.quantity, pc.is_optional, pc.default_selected, pc.visibility_mode, pc.notes,
		       child.name, child.product_type, child.is_active
		FROM product_components pc
		JOIN products child ON child.id = pc.child_product_id
		WHERE pc.workspace_id = $1 AND pc.parent_product_id = $2
		ORDER BY child.name ASC`

	compRows, err := r.pool.Query(ctx, componentQuery, workspaceID, productID)
	if err != nil {
		return BundleDefinition{}, fmt.Errorf("list bundle components: %w", err)
	}
	defer compRows.Close()

	for compRows.Next() {
		var c Component
		if err := compRows.Scan(
			&c.ID, &c.ParentProductID, &c.ChildProductID, &c.GroupID,
			&c.Quantity, &c.IsOptional, &c.DefaultSelected, &c.VisibilityMode, &c.Notes,
			&c.ChildName, &c.ChildType, &c.ChildActive,
		); err != nil {
			return BundleDefinition{}, fmt.Errorf("scan bundle component: %w", err)
		}
		def.Components = append(def.Components, c)
	}
	if compRows.Err() != nil {
		return BundleDefinition{}, fmt.Errorf("iterate bundle components: %w", compRows.Err())
	}

	return def, nil
}

// ReplaceBundleDefinition replaces a bundle's groups and components in one
// transaction. Stored event item configurations keep their own component
// snapshots and are not touched.
func (r *Repo) ReplaceBundleDefinition(ctx context.Context, params ReplaceBundleDefinitionParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace bundle definition: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM product_components WHERE workspace_id = $1 AND parent_product_id = $2`,
		params.WorkspaceID, params.ProductID); err != nil {
		return fmt.Errorf("clear bundle components: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM bundle_groups WHERE workspace_id = $1 AND parent_product_id = $2`,
		params.WorkspaceID, params.ProductID); err != nil {
		return fmt.Errorf("clear bundle groups: %w", err)
	}

	groupIDs := make(map[string]uuid.UUID, len(params.Groups))
	groupInsert := `
		INSERT INTO bundle_groups (workspace_id, parent_product_id, name, min_select, max_select, pricing_behavior, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	for _, group := range params.Groups {
		var id uuid.UUID
		if err := tx.QueryRow(ctx, groupInsert,
			params.WorkspaceID, params.ProductID, group.Name,
			group.MinSelect, group.MaxSelect, group.PricingBehavior, group.SortOrder,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert bundle group: %w", err)
		}
		groupIDs[group.Key] = id
	}

	componentInsert := `
		INSERT INTO product_components (
			workspace_id, parent_product_id, child_product_id, group_id,
			quantity, is_optional, default_selected, visibility_mode, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, comp := range params.Components {
		var groupID *uuid.UUID
		if comp.GroupKey != nil {
			id, ok := groupIDs[*comp.GroupKey]
			if !ok {
				return apperr.Validation(fmt.Sprintf("component references unknown group %q", *comp.GroupKey))
			}
			groupID = &id
		}
		if _, err := tx.Exec(ctx, componentInsert,
			params.WorkspaceID, params.ProductID, comp.ChildProductID, groupID,
			comp.Quantity, comp.IsOptional, comp.DefaultSelected, comp.VisibilityMode, comp.Notes,
		); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Validation(fmt.Sprintf("unknown component product %s", comp.ChildProductID))
			}
			return fmt.Errorf("insert bundle component: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace bundle definition: %w", err)
	}
	return nil
}

// ListComponentEdges lists every parent-child component relation in the
// workspace. Callers use the edge set for composition cycle detection.
func (r *Repo) ListComponentEdges(ctx context.Context, workspaceID uuid.UUID) ([]Edge, error) {
	query := `
		SELECT parent_product_id, child_product_id
		FROM product_components
		WHERE workspace_id = $1`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list component edges: %w", err)
	}
	defer rows.Close()

	edges := make([]Edge, 0)
	for rows.Next() {
		var edge Edge
		if err := rows.Scan(&edge.ParentID, &edge.ChildID); err != nil {
			return nil, fmt.Errorf("scan component edge: %w", err)
		}
		edges = append(edges, edge)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate component edges: %w", rows.Err())
	}
	return edges, nil
}

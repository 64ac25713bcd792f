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

const itemColumns = `
	i.id, i.workspace_id, i.event_phase_id, i.product_id, i.quantity,
	i.quantity_source, i.unit_price_override_cents, i.pricing_mode_override, i.notes,
	p.name, p.product_type, p.pricing_mode, p.base_price_cents, p.tax_rate_bps,
	i.created_at, i.updated_at`

const itemFrom = `
	FROM event_phase_items i
	JOIN products p ON p.id = i.product_id`

// AddItem places a product in a phase.
func (r *Repo) AddItem(ctx context.Context, params AddItemParams) (Item, error) {
	insert := `
		INSERT INTO event_phase_items (
			workspace_id, event_phase_id, product_id, quantity, quantity_source,
			unit_price_override_cents, pricing_mode_override, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, insert,
		params.WorkspaceID, params.EventPhaseID, params.ProductID,
		params.Quantity, params.QuantitySource,
		params.UnitPriceOverrideCents, params.PricingModeOverride, params.Notes,
	).Scan(&id); err != nil {
		if isForeignKeyViolation(err) {
			return Item{}, apperr.Validation("unknown phase or product")
		}
		return Item{}, fmt.Errorf("add item: %w", err)
	}

	return r.GetItem(ctx, params.WorkspaceID, id)
}

// GetItem retrieves an item with catalog pricing joined in.
func (r *Repo) GetItem(ctx context.Context, workspaceID, id uuid.UUID) (Item, error) {
	query := `SELECT` + itemColumns + itemFrom + ` WHERE i.workspace_id = $1 AND i.id = $2`

	row := r.pool.QueryRow(ctx, query, workspaceID, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, apperr.NotFound(itemNotFoundMessage)
		}
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListItems lists a phase's items in insertion order.
func (r *Repo) ListItems(ctx context.Context, workspaceID, phaseID uuid.UUID) ([]Item, error) {
	query := `SELECT` + itemColumns + itemFrom + `
		WHERE i.workspace_id = $1 AND i.event_phase_id = $2
		ORDER BY i.created_at ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID, phaseID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate items: %w", rows.Err())
	}
	return items, nil
}

// UpdateItem applies partial updates to an item.
func (r *Repo) UpdateItem(ctx context.Context, workspaceID, id uuid.UUID, params UpdateItemParams) (Item, error) {
	query := `
		UPDATE event_phase_items
		SET quantity = COALESCE($3, quantity),
		    quantity_source = COALESCE($4, quantity_source),
		    unit_price_override_cents = COALESCE($5, unit_price_override_cents),
		    pricing_mode_override = COALESCE($6, pricing_mode_override),
		    notes = COALESCE($7, notes),
		    updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING id`

	var updatedID uuid.UUID
	if err := r.pool.QueryRow(ctx, query, workspaceID, id,
		params.Quantity, params.QuantitySource,
		params.UnitPriceOverrideCents, params.PricingModeOverride, params.Notes,
	).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, apperr.NotFound(itemNotFoundMessage)
		}
		return Item{}, fmt.Errorf("update item: %w", err)
	}

	return r.GetItem(ctx, workspaceID, updatedID)
}

// DeleteItem removes an item and cascades its stored components.
func (r *Repo) DeleteItem(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM event_phase_items WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(itemNotFoundMessage)
	}
	return nil
}

// ReplaceItemComponents atomically replaces an item's stored component
// configuration. Saving the same configuration twice yields the same rows.
func (r *Repo) ReplaceItemComponents(ctx context.Context, workspaceID, itemID uuid.UUID, rows []ComponentRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace item components: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM event_phase_item_components WHERE workspace_id = $1 AND event_phase_item_id = $2`,
		workspaceID, itemID); err != nil {
		return fmt.Errorf("clear item components: %w", err)
	}

	insert := `
		INSERT INTO event_phase_item_components (
			workspace_id, event_phase_item_id, component_product_id, group_id, quantity, selected
		)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, row := range rows {
		if _, err := tx.Exec(ctx, insert,
			workspaceID, itemID, row.ComponentProductID, row.GroupID, row.Quantity, row.Selected,
		); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Validation(fmt.Sprintf("unknown component product %s", row.ComponentProductID))
			}
			return fmt.Errorf("insert item component: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace item components: %w", err)
	}
	return nil
}

// ListItemComponents lists the stored component rows of the given items with
// product names joined in.
func (r *Repo) ListItemComponents(ctx context.Context, workspaceID uuid.UUID, itemIDs []uuid.UUID) ([]ItemComponent, error) {
	if len(itemIDs) == 0 {
		return []ItemComponent{}, nil
	}

	query := `
		SELECT c.id, c.event_phase_item_id, c.component_product_id, c.group_id,
		       c.quantity, c.selected, p.name
		FROM event_phase_item_components c
		JOIN products p ON p.id = c.component_product_id
		WHERE c.workspace_id = $1 AND c.event_phase_item_id = ANY($2)
		ORDER BY p.name ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("list item components: %w", err)
	}
	defer rows.Close()

	items := make([]ItemComponent, 0)
	for rows.Next() {
		var c ItemComponent
		if err := rows.Scan(
			&c.ID, &c.EventPhaseItemID, &c.ComponentProductID, &c.GroupID,
			&c.Quantity, &c.Selected, &c.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scan item component: %w", err)
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate item components: %w", rows.Err())
	}
	return items, nil
}

func scanItem(row rowScanner) (Item, error) {
	var i Item
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&i.ID, &i.WorkspaceID, &i.EventPhaseID, &i.ProductID, &i.Quantity,
		&i.QuantitySource, &i.UnitPriceOverrideCents, &i.PricingModeOverride, &i.Notes,
		&i.ProductName, &i.ProductType, &i.PricingMode, &i.BasePriceCents, &i.TaxRateBps,
		&createdAt, &updatedAt,
	); err != nil {
		return Item{}, err
	}
	i.CreatedAt = createdAt.Format(time.RFC3339)
	i.UpdatedAt = updatedAt.Format(time.RFC3339)
	return i, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"caterops_backend/platform/apperr"
)

const productColumns = `
	id, workspace_id, category_id, name, description, sku,
	product_type, product_role, visibility, pricing_mode, base_unit,
	base_price_cents, tax_rate_bps, default_quantity_source, is_active,
	created_at, updated_at`

// CreateProduct creates a product and its phase type links in one
// transaction.
func (r *Repo) CreateProduct(ctx context.Context, params CreateProductParams) (Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("begin create product: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO products (
			workspace_id, category_id, name, description, sku,
			product_type, product_role, visibility, pricing_mode, base_unit,
			base_price_cents, tax_rate_bps, default_quantity_source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING` + productColumns

	row := tx.QueryRow(ctx, query,
		params.WorkspaceID, params.CategoryID, params.Name, params.Description, params.SKU,
		params.ProductType, params.ProductRole, params.Visibility, params.PricingMode, params.BaseUnit,
		params.BasePriceCents, params.TaxRateBps, params.DefaultQuantitySource,
	)
	product, err := scanProduct(row)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}

	if err := replacePhaseTypeLinks(ctx, tx, params.WorkspaceID, product.ID, params.PhaseTypeIDs); err != nil {
		return Product{}, err
	}
	product.PhaseTypeIDs = append([]uuid.UUID(nil), params.PhaseTypeIDs...)

	if err := tx.Commit(ctx); err != nil {
		return Product{}, fmt.Errorf("commit create product: %w", err)
	}
	return product, nil
}

// GetProduct retrieves a product with its phase type links.
func (r *Repo) GetProduct(ctx context.Context, workspaceID, id uuid.UUID) (Product, error) {
	query := `SELECT` + productColumns + `
		FROM products
		WHERE workspace_id = $1 AND id = $2`

	row := r.pool.QueryRow(ctx, query, workspaceID, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}

	product.PhaseTypeIDs, err = r.phaseTypeLinks(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

// ListProducts lists products matching the filters plus the total count
// before pagination.
func (r *Repo) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, int, error) {
	conditions := []string{"workspace_id = $1"}
	args := []any{params.WorkspaceID}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", len(args), len(args)))
	}
	if params.ProductType != nil {
		args = append(args, *params.ProductType)
		conditions = append(conditions, fmt.Sprintf("product_type = $%d", len(args)))
	}
	if params.ProductRole != nil {
		args = append(args, *params.ProductRole)
		conditions = append(conditions, fmt.Sprintf("product_role = $%d", len(args)))
	}
	if params.CategoryID != nil {
		args = append(args, *params.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if params.IsActive != nil {
		args = append(args, *params.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, product)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", rows.Err())
	}

	if err := r.attachPhaseTypeLinks(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateProduct applies partial updates to a product and optionally replaces
// its phase type links, in one transaction.
func (r *Repo) UpdateProduct(ctx context.Context, workspaceID, id uuid.UUID, params UpdateProductParams) (Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("begin update product: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE products
		SET category_id = COALESCE($3, category_id),
		    name = COALESCE($4, name),
		    description = COALESCE($5, description),
		    sku = COALESCE($6, sku),
		    product_role = COALESCE($7, product_role),
		    visibility = COALESCE($8, visibility),
		    pricing_mode = COALESCE($9, pricing_mode),
		    base_unit = COALESCE($10, base_unit),
		    base_price_cents = COALESCE($11, base_price_cents),
		    tax_rate_bps = COALESCE($12, tax_rate_bps),
		    default_quantity_source = COALESCE($13, default_quantity_source),
		    is_active = COALESCE($14, is_active),
		    updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING` + productColumns

	row := tx.QueryRow(ctx, query,
		workspaceID, id,
		params.CategoryID, params.Name, params.Description, params.SKU,
		params.ProductRole, params.Visibility, params.PricingMode, params.BaseUnit,
		params.BasePriceCents, params.TaxRateBps, params.DefaultQuantitySource, params.IsActive,
	)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}

	if params.PhaseTypeIDs != nil {
		if err := replacePhaseTypeLinks(ctx, tx, workspaceID, id, *params.PhaseTypeIDs); err != nil {
			return Product{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Product{}, fmt.Errorf("commit update product: %w", err)
	}

	product.PhaseTypeIDs, err = r.phaseTypeLinks(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

// DeleteProduct removes a product. Products used as a component of another
// bundle or referenced by event items block the delete.
func (r *Repo) DeleteProduct(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM products WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Conflict("product is in use; archive it instead")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

// ListCompatibleProducts lists active, sellable products linked to the given
// phase type.
func (r *Repo) ListCompatibleProducts(ctx context.Context, workspaceID, phaseTypeID uuid.UUID) ([]Product, error) {
	query := `
		SELECT ` + qualifyProductColumns("p") + `
		FROM products p
		JOIN phase_type_products ptp ON ptp.product_id = p.id
		WHERE p.workspace_id = $1
		  AND ptp.phase_type_id = $2
		  AND p.is_active = TRUE
		  AND p.product_role <> 'component'
		ORDER BY p.name ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID, phaseTypeID)
	if err != nil {
		return nil, fmt.Errorf("list compatible products: %w", err)
	}
	defer rows.Close()

	items := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan compatible product: %w", err)
		}
		items = append(items, product)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate compatible products: %w", rows.Err())
	}
	return items, nil
}

func replacePhaseTypeLinks(ctx context.Context, tx pgx.Tx, workspaceID, productID uuid.UUID, phaseTypeIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM phase_type_products WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear phase type links: %w", err)
	}
	for _, phaseTypeID := range phaseTypeIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO phase_type_products (workspace_id, phase_type_id, product_id) VALUES ($1, $2, $3)`,
			workspaceID, phaseTypeID, productID); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Validation(fmt.Sprintf("unknown phase type %s", phaseTypeID))
			}
			return fmt.Errorf("insert phase type link: %w", err)
		}
	}
	return nil
}

func (r *Repo) phaseTypeLinks(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT phase_type_id FROM phase_type_products WHERE product_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("list phase type links: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan phase type link: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate phase type links: %w", rows.Err())
	}
	return ids, nil
}

func (r *Repo) attachPhaseTypeLinks(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	index := make(map[uuid.UUID]int, len(products))
	for i, product := range products {
		ids[i] = product.ID
		index[product.ID] = i
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, phase_type_id FROM phase_type_products WHERE product_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("list phase type links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID, phaseTypeID uuid.UUID
		if err := rows.Scan(&productID, &phaseTypeID); err != nil {
			return fmt.Errorf("scan phase type link: %w", err)
		}
		if i, ok := index[productID]; ok {
			products[i].PhaseTypeIDs = append(products[i].PhaseTypeIDs, phaseTypeID)
		}
	}
	if rows.Err() != nil {
		return fmt.Errorf("iterate phase type links: %w", rows.Err())
	}
	return nil
}

func qualifyProductColumns(alias string) string {
	cols := strings.Split(productColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&p.ID, &p.WorkspaceID, &p.CategoryID, &p.Name, &p.Description, &p.SKU,
		&p.ProductType, &p.ProductRole, &p.Visibility, &p.PricingMode, &p.BaseUnit,
		&p.BasePriceCents, &p.TaxRateBps, &p.DefaultQuantitySource, &p.IsActive,
		&createdAt, &updatedAt,
	); err != nil {
		return Product{}, err
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return p, nil
}

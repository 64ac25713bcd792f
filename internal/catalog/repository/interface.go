package repository

import (
	"context"

	"github.com/google/uuid"
)

// Category is a product category row.
type Category struct {
	ID               uuid.UUID
	WorkspaceID      uuid.UUID
	ParentCategoryID *uuid.UUID
	Name             string
	CreatedAt        string
	UpdatedAt        string
}

// PhaseType is a reusable event phase template row.
type PhaseType struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   string
	UpdatedAt   string
}

// Resource is a priced operational resource row.
type Resource struct {
	ID               uuid.UUID
	WorkspaceID      uuid.UUID
	Name             string
	ResourceType     string
	Unit             string
	CostPerUnitCents int64
	IsReusable       bool
	IsActive         bool
	CreatedAt        string
	UpdatedAt        string
}

// Product is a catalog product row with its phase type links joined in.
type Product struct {
	ID                    uuid.UUID
	WorkspaceID           uuid.UUID
	CategoryID            *uuid.UUID
	Name                  string
	Description           *string
	SKU                   *string
	ProductType           string
	ProductRole           string
	Visibility            string
	PricingMode           string
	BaseUnit              string
	BasePriceCents        int64
	TaxRateBps            int
	DefaultQuantitySource string
	IsActive              bool
	PhaseTypeIDs          []uuid.UUID
	CreatedAt             string
	UpdatedAt             string
}

// BundleGroup is a cardinality-constrained option group of a bundle.
type BundleGroup struct {
	ID              uuid.UUID
	ParentProductID uuid.UUID
	Name            string
	MinSelect       int
	MaxSelect       *int
	PricingBehavior string
	SortOrder       int
}

// Component is one child edge of a bundle, with a few child product columns
// joined in for presentation.
type Component struct {
	ID              uuid.UUID
	ParentProductID uuid.UUID
	ChildProductID  uuid.UUID
	GroupID         *uuid.UUID
	Quantity        float64
	IsOptional      bool
	DefaultSelected bool
	VisibilityMode  string
	Notes           *string
	ChildName       string
	ChildType       string
	ChildActive     bool
}

// BundleDefinition is the full composition of one bundle product.
type BundleDefinition struct {
	Groups     []BundleGroup
	Components []Component
}

// ConsumptionRule is a product resource rule row with the referenced
// resource's pricing columns joined in.
type ConsumptionRule struct {
	ID                       uuid.UUID
	ProductID                uuid.UUID
	ResourceID               uuid.UUID
	RuleType                 string
	Quantity                 float64
	RatioBase                *float64
	RoundingMode             string
	AppliesTo                string
	Notes                    *string
	ResourceName             string
	ResourceUnit             string
	ResourceCostPerUnitCents int64
	ResourceIsActive         bool
}

// Edge is one parent-child component relation, used for cycle detection.
type Edge struct {
	ParentID uuid.UUID
	ChildID  uuid.UUID
}

// CreateCategoryParams holds inputs for creating a category.
type CreateCategoryParams struct {
	WorkspaceID      uuid.UUID
	ParentCategoryID *uuid.UUID
	Name             string
}

// UpdateCategoryParams holds partial updates for a category.
type UpdateCategoryParams struct {
	Name             *string
	ParentCategoryID *uuid.UUID
}

// CreatePhaseTypeParams holds inputs for creating a phase type.
type CreatePhaseTypeParams struct {
	WorkspaceID uuid.UUID
	Name        string
	Description *string
}

// UpdatePhaseTypeParams holds partial updates for a phase type.
type UpdatePhaseTypeParams struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CreateResourceParams holds inputs for creating a resource.
type CreateResourceParams struct {
	WorkspaceID      uuid.UUID
	Name             string
	ResourceType     string
	Unit             string
	CostPerUnitCents int64
	IsReusable       bool
}

// UpdateResourceParams holds partial updates for a resource.
type UpdateResourceParams struct {
	Name             *string
	ResourceType     *string
	Unit             *string
	CostPerUnitCents *int64
	IsReusable       *bool
	IsActive         *bool
}

// CreateProductParams holds inputs for creating a product.
type CreateProductParams struct {
	WorkspaceID           uuid.UUID
	CategoryID            *uuid.UUID
	Name                  string
	Description           *string
	SKU                   *string
	ProductType           string
	ProductRole           string
	Visibility            string
	PricingMode           string
	BaseUnit              string
	BasePriceCents        int64
	TaxRateBps            int
	DefaultQuantitySource string
	PhaseTypeIDs          []uuid.UUID
}

// UpdateProductParams holds partial updates for a product. A nil PhaseTypeIDs
// leaves the phase type links untouched; a non-nil empty slice clears them.
type UpdateProductParams struct {
	CategoryID            *uuid.UUID
	Name                  *string
	Description           *string
	SKU                   *string
	ProductRole           *string
	Visibility            *string
	PricingMode           *string
	BaseUnit              *string
	BasePriceCents        *int64
	TaxRateBps            *int
	DefaultQuantitySource *string
	IsActive              *bool
	PhaseTypeIDs          *[]uuid.UUID
}

// ListProductsParams holds filters and pagination for product listing.
type ListProductsParams struct {
	WorkspaceID uuid.UUID
	Search      string
	ProductType *string
	ProductRole *string
	CategoryID  *uuid.UUID
	IsActive    *bool
	Limit       int
	Offset      int
}

// GroupInput is one option group in a bundle definition replace. Key is a
// request-local handle components use to reference the group before it has
// a database identity.
type GroupInput struct {
	Key             string
	Name            string
	MinSelect       int
	MaxSelect       *int
	PricingBehavior string
	SortOrder       int
}

// ComponentInput is one child edge in a bundle definition replace.
type ComponentInput struct {
	ChildProductID  uuid.UUID
	GroupKey        *string
	Quantity        float64
	IsOptional      bool
	DefaultSelected bool
	VisibilityMode  string
	Notes           *string
}

// ReplaceBundleDefinitionParams replaces a bundle's groups and components
// atomically.
type ReplaceBundleDefinitionParams struct {
	WorkspaceID uuid.UUID
	ProductID   uuid.UUID
	Groups      []GroupInput
	Components  []ComponentInput
}

// RuleInput is one consumption rule in a product resource replace.
type RuleInput struct {
	ResourceID   uuid.UUID
	RuleType     string
	Quantity     float64
	RatioBase    *float64
	RoundingMode string
	AppliesTo    string
	Notes        *string
}

// Repository defines data access for the catalog bounded context. Every
// method is scoped to a workspace.
type Repository interface {
	CreateCategory(ctx context.Context, params CreateCategoryParams) (Category, error)
	ListCategories(ctx context.Context, workspaceID uuid.UUID) ([]Category, error)
	UpdateCategory(ctx context.Context, workspaceID, id uuid.UUID, params UpdateCategoryParams) (Category, error)
	DeleteCategory(ctx context.Context, workspaceID, id uuid.UUID) error

	CreatePhaseType(ctx context.Context, params CreatePhaseTypeParams) (PhaseType, error)
	ListPhaseTypes(ctx context.Context, workspaceID uuid.UUID) ([]PhaseType, error)
	UpdatePhaseType(ctx context.Context, workspaceID, id uuid.UUID, params UpdatePhaseTypeParams) (PhaseType, error)
	DeletePhaseType(ctx context.Context, workspaceID, id uuid.UUID) error
	SeedPhaseTypes(ctx context.Context, workspaceID uuid.UUID, names []string) error

	CreateResource(ctx context.Context, params CreateResourceParams) (Resource, error)
	GetResource(ctx context.Context, workspaceID, id uuid.UUID) (Resource, error)
	ListResources(ctx context.Context, workspaceID uuid.UUID) ([]Resource, error)
	UpdateResource(ctx context.Context, workspaceID, id uuid.UUID, params UpdateResourceParams) (Resource, error)
	DeleteResource(ctx context.Context, workspaceID, id uuid.UUID) error

	CreateProduct(ctx context.Context, params CreateProductParams) (Product, error)
	GetProduct(ctx context.Context, workspaceID, id uuid.UUID) (Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]Product, int, error)
	UpdateProduct(ctx context.Context, workspaceID, id uuid.UUID, params UpdateProductParams) (Product, error)
	DeleteProduct(ctx context.Context, workspaceID, id uuid.UUID) error
	ListCompatibleProducts(ctx context.Context, workspaceID, phaseTypeID uuid.UUID) ([]Product, error)

	GetBundleDefinition(ctx context.Context, workspaceID, productID uuid.UUID) (BundleDefinition, error)
	ReplaceBundleDefinition(ctx context.Context, params ReplaceBundleDefinitionParams) error
	ListComponentEdges(ctx context.Context, workspaceID uuid.UUID) ([]Edge, error)

	ReplaceConsumptionRules(ctx context.Context, workspaceID, productID uuid.UUID, rules []RuleInput) error
	ListConsumptionRules(ctx context.Context, workspaceID uuid.UUID, productIDs []uuid.UUID) ([]ConsumptionRule, error)
}

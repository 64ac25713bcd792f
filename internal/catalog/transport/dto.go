// Package transport defines request and response DTOs for the catalog API.
package transport

import (
	"github.com/google/uuid"
)

// CreateCategoryRequest creates a product category.
type CreateCategoryRequest struct {
	Name             string     `json:"name" validate:"required,min=1,max=160"`
	ParentCategoryID *uuid.UUID `json:"parentCategoryId,omitempty"`
}

// UpdateCategoryRequest applies partial updates to a category.
type UpdateCategoryRequest struct {
	Name             *string    `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	ParentCategoryID *uuid.UUID `json:"parentCategoryId,omitempty"`
}

// CategoryResponse is the API shape of a category.
type CategoryResponse struct {
	ID               uuid.UUID  `json:"id"`
	ParentCategoryID *uuid.UUID `json:"parentCategoryId,omitempty"`
	Name             string     `json:"name"`
	CreatedAt        string     `json:"createdAt"`
	UpdatedAt        string     `json:"updatedAt"`
}

// CreatePhaseTypeRequest creates a phase type.
type CreatePhaseTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// UpdatePhaseTypeRequest applies partial updates to a phase type.
type UpdatePhaseTypeRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// PhaseTypeResponse is the API shape of a phase type.
type PhaseTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// CreateResourceRequest creates a priced resource.
type CreateResourceRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=160"`
	ResourceType     string `json:"resourceType" validate:"required,oneof=ingredient tableware equipment"`
	Unit             string `json:"unit" validate:"required,oneof=unit kg g l ml pack hour"`
	CostPerUnitCents int64  `json:"costPerUnitCents" validate:"gte=0"`
	IsReusable       bool   `json:"isReusable"`
}

// UpdateResourceRequest applies partial updates to a resource.
type UpdateResourceRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	ResourceType     *string `json:"resourceType,omitempty" validate:"omitempty,oneof=ingredient tableware equipment"`
	Unit             *string `json:"unit,omitempty" validate:"omitempty,oneof=unit kg g l ml pack hour"`
	CostPerUnitCents *int64  `json:"costPerUnitCents,omitempty" validate:"omitempty,gte=0"`
	IsReusable       *bool   `json:"isReusable,omitempty"`
	IsActive         *bool   `json:"isActive,omitempty"`
}

// ResourceResponse is the API shape of a resource.
type ResourceResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	ResourceType     string    `json:"resourceType"`
	Unit             string    `json:"unit"`
	CostPerUnitCents int64     `json:"costPerUnitCents"`
	IsReusable       bool      `json:"isReusable"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        string    `json:"createdAt"`
	UpdatedAt        string    `json:"updatedAt"`
}

// CreateProductRequest creates a catalog product.
type CreateProductRequest struct {
	CategoryID            *uuid.UUID  `json:"categoryId,omitempty"`
	Name                  string      `json:"name" validate:"required,min=1,max=200"`
	Description           *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	SKU                   *string     `json:"sku,omitempty" validate:"omitempty,max=80"`
	ProductType           string      `json:"productType" validate:"required,oneof=single bundle service"`
	ProductRole           string      `json:"productRole" validate:"omitempty,oneof=sellable component both"`
	Visibility            string      `json:"visibility" validate:"omitempty,oneof=internal client both"`
	PricingMode           string      `json:"pricingMode" validate:"omitempty,oneof=fixed per_unit"`
	BaseUnit              string      `json:"baseUnit" validate:"omitempty,oneof=guest unit hour service"`
	BasePriceCents        int64       `json:"basePriceCents" validate:"gte=0"`
	TaxRateBps            int         `json:"taxRateBps" validate:"gte=0,lte=10000"`
	DefaultQuantitySource string      `json:"defaultQuantitySource" validate:"omitempty,oneof=guests manual hours"`
	PhaseTypeIDs          []uuid.UUID `json:"phaseTypeIds,omitempty"`
}

// UpdateProductRequest applies partial updates to a product. A null
// phaseTypeIds leaves links untouched; an empty array clears them.
type UpdateProductRequest struct {
	CategoryID            *uuid.UUID   `json:"categoryId,omitempty"`
	Name                  *string      `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description           *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	SKU                   *string      `json:"sku,omitempty" validate:"omitempty,max=80"`
	ProductRole           *string      `json:"productRole,omitempty" validate:"omitempty,oneof=sellable component both"`
	Visibility            *string      `json:"visibility,omitempty" validate:"omitempty,oneof=internal client both"`
	PricingMode           *string      `json:"pricingMode,omitempty" validate:"omitempty,oneof=fixed per_unit"`
	BaseUnit              *string      `json:"baseUnit,omitempty" validate:"omitempty,oneof=guest unit hour service"`
	BasePriceCents        *int64       `json:"basePriceCents,omitempty" validate:"omitempty,gte=0"`
	TaxRateBps            *int         `json:"taxRateBps,omitempty" validate:"omitempty,gte=0,lte=10000"`
	DefaultQuantitySource *string      `json:"defaultQuantitySource,omitempty" validate:"omitempty,oneof=guests manual hours"`
	IsActive              *bool        `json:"isActive,omitempty"`
	PhaseTypeIDs          *[]uuid.UUID `json:"phaseTypeIds,omitempty"`
}

// ProductResponse is the API shape of a product.
type ProductResponse struct {
	ID                    uuid.UUID   `json:"id"`
	CategoryID            *uuid.UUID  `json:"categoryId,omitempty"`
	Name                  string      `json:"name"`
	Description           *string     `json:"description,omitempty"`
	SKU                   *string     `json:"sku,omitempty"`
	ProductType           string      `json:"productType"`
	ProductRole           string      `json:"productRole"`
	Visibility            string      `json:"visibility"`
	PricingMode           string      `json:"pricingMode"`
	BaseUnit              string      `json:"baseUnit"`
	BasePriceCents        int64       `json:"basePriceCents"`
	TaxRateBps            int         `json:"taxRateBps"`
	DefaultQuantitySource string      `json:"defaultQuantitySource"`
	IsActive              bool        `json:"isActive"`
	PhaseTypeIDs          []uuid.UUID `json:"phaseTypeIds"`
	CreatedAt             string      `json:"createdAt"`
	UpdatedAt             string      `json:"updatedAt"`
}

// ListProductsQuery carries product listing filters parsed from the query
// string.
type ListProductsQuery struct {
	Search      string
	ProductType *string
	ProductRole *string
	CategoryID  *uuid.UUID
	IsActive    *bool
	Limit       int
	Offset      int
}

// ProductListResponse is a paginated product listing.
type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// GroupDefinition is one option group in a bundle definition. Key is a
// request-local handle that components use to reference the group.
type GroupDefinition struct {
	Key             string `json:"key" validate:"required,min=1,max=80"`
	Name            string `json:"name" validate:"required,min=1,max=160"`
	MinSelect       int    `json:"minSelect" validate:"gte=0"`
	MaxSelect       *int   `json:"maxSelect,omitempty" validate:"omitempty,gte=0"`
	PricingBehavior string `json:"pricingBehavior" validate:"omitempty,oneof=included surcharge"`
	SortOrder       int    `json:"sortOrder"`
}

// ComponentDefinition is one child edge in a bundle definition. A nil
// groupKey marks the component as fixed.
type ComponentDefinition struct {
	ChildProductID  uuid.UUID `json:"childProductId" validate:"required"`
	GroupKey        *string   `json:"groupKey,omitempty"`
	Quantity        float64   `json:"quantity" validate:"gt=0"`
	IsOptional      bool      `json:"isOptional"`
	DefaultSelected bool      `json:"defaultSelected"`
	VisibilityMode  string    `json:"visibilityMode" validate:"omitempty,oneof=internal client both"`
	Notes           *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// DefineBundleRequest replaces a bundle's full composition.
type DefineBundleRequest struct {
	Groups     []GroupDefinition     `json:"groups" validate:"dive"`
	Components []ComponentDefinition `json:"components" validate:"dive"`
}

// BundleGroupResponse is the API shape of an option group.
type BundleGroupResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MinSelect       int       `json:"minSelect"`
	MaxSelect       *int      `json:"maxSelect,omitempty"`
	PricingBehavior string    `json:"pricingBehavior"`
	SortOrder       int       `json:"sortOrder"`
}

// BundleComponentResponse is the API shape of a component edge.
type BundleComponentResponse struct {
	ID              uuid.UUID  `json:"id"`
	ChildProductID  uuid.UUID  `json:"childProductId"`
	ChildName       string     `json:"childName"`
	ChildType       string     `json:"childType"`
	ChildActive     bool       `json:"childActive"`
	GroupID         *uuid.UUID `json:"groupId,omitempty"`
	Quantity        float64    `json:"quantity"`
	IsOptional      bool       `json:"isOptional"`
	DefaultSelected bool       `json:"defaultSelected"`
	VisibilityMode  string     `json:"visibilityMode"`
	Notes           *string    `json:"notes,omitempty"`
}

// BundleDefinitionResponse is the full composition of one bundle.
type BundleDefinitionResponse struct {
	ProductID  uuid.UUID                 `json:"productId"`
	Groups     []BundleGroupResponse     `json:"groups"`
	Components []BundleComponentResponse `json:"components"`
}

// RuleDefinition is one resource consumption rule.
type RuleDefinition struct {
	ResourceID   uuid.UUID `json:"resourceId" validate:"required"`
	RuleType     string    `json:"ruleType" validate:"required,oneof=per_product_unit per_ratio fixed_per_parent"`
	Quantity     float64   `json:"quantity" validate:"gt=0"`
	RatioBase    *float64  `json:"ratioBase,omitempty" validate:"omitempty,gt=0"`
	RoundingMode string    `json:"roundingMode" validate:"omitempty,oneof=ceil floor round none"`
	AppliesTo    string    `json:"appliesTo" validate:"omitempty,oneof=all selected_components_only bundle_parent_only"`
	Notes        *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ReplaceRulesRequest replaces a product's consumption rules.
type ReplaceRulesRequest struct {
	Rules []RuleDefinition `json:"rules" validate:"dive"`
}

// ConsumptionRuleResponse is the API shape of a consumption rule.
type ConsumptionRuleResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	ResourceUnit string    `json:"resourceUnit"`
	RuleType     string    `json:"ruleType"`
	Quantity     float64   `json:"quantity"`
	RatioBase    *float64  `json:"ratioBase,omitempty"`
	RoundingMode string    `json:"roundingMode"`
	AppliesTo    string    `json:"appliesTo"`
	Notes        *string   `json:"notes,omitempty"`
}

// ConfigurationComponent is one candidate component choice, referencing the
// bundle's component edge by ID.
type ConfigurationComponent struct {
	ComponentID uuid.UUID `json:"componentId" validate:"required"`
	Quantity    float64   `json:"quantity" validate:"gte=0"`
	Selected    bool      `json:"selected"`
}

// ValidateSelectionRequest checks a candidate configuration against a
// bundle's group constraints.
type ValidateSelectionRequest struct {
	Components []ConfigurationComponent `json:"components" validate:"dive"`
}

// ViolationResponse is one broken group constraint.
type ViolationResponse struct {
	GroupID   uuid.UUID `json:"groupId"`
	GroupName string    `json:"groupName"`
	Reason    string    `json:"reason"`
}

// ValidationResponse is the outcome of a selection validation.
type ValidationResponse struct {
	Valid      bool                `json:"valid"`
	Violations []ViolationResponse `json:"violations"`
}

// SnapshotComponent is a stored instance-level component row. Snapshots are
// costed as-is, without re-validating against the current bundle definition.
type SnapshotComponent struct {
	ChildProductID uuid.UUID `json:"childProductId"`
	Quantity       float64   `json:"quantity"`
}

// ResourceCostLine is the aggregated consumption of one resource.
type ResourceCostLine struct {
	ResourceID   uuid.UUID `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	Unit         string    `json:"unit"`
	Units        float64   `json:"units"`
	CostCents    int64     `json:"costCents"`
}

// CostBreakdownResponse is the resolved resource cost of one product
// instance at a given quantity.
type CostBreakdownResponse struct {
	ProductID      uuid.UUID          `json:"productId"`
	Quantity       float64            `json:"quantity"`
	PerResource    []ResourceCostLine `json:"perResource"`
	TotalCostCents int64              `json:"totalCostCents"`
}

// Package service implements catalog business logic: product and resource
// management, bundle composition, and resource cost resolution.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"caterops_backend/internal/catalog/repository"
	"caterops_backend/internal/catalog/transport"
	"caterops_backend/internal/events"
	"caterops_backend/platform/logger"
)

// defaultPhaseTypeNames seeds every new workspace so events can be broken
// into phases immediately.
var defaultPhaseTypeNames = []string{"Reception", "Dinner", "Party"}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service provides catalog business logic.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// RegisterEventHandlers subscribes the catalog to workspace lifecycle events.
func (s *Service) RegisterEventHandlers(bus events.Bus) {
	bus.Subscribe(events.WorkspaceCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		created, ok := event.(events.WorkspaceCreated)
		if !ok {
			return nil
		}
		return s.SeedDefaults(ctx, created.WorkspaceID)
	}))
}

// SeedDefaults creates the default phase types for a fresh workspace.
func (s *Service) SeedDefaults(ctx context.Context, workspaceID uuid.UUID) error {
	if err := s.repo.SeedPhaseTypes(ctx, workspaceID, defaultPhaseTypeNames); err != nil {
		s.log.Error("failed to seed default phase types", "workspaceId", workspaceID, "error", err)
		return err
	}
	s.log.Info("seeded default phase types", "workspaceId", workspaceID)
	return nil
}

// CreateCategory creates a product category.
func (s *Service) CreateCategory(ctx context.Context, workspaceID uuid.UUID, req transport.CreateCategoryRequest) (transport.CategoryResponse, error) {
	cat, err := s.repo.CreateCategory(ctx, repository.CreateCategoryParams{
		WorkspaceID:      workspaceID,
		ParentCategoryID: req.ParentCategoryID,
		Name:             strings.TrimSpace(req.Name),
	})
	if err != nil {
		return transport.CategoryResponse{}, err
	}
	return toCategoryResponse(cat), nil
}

// ListCategories lists categories for a workspace.
func (s *Service) ListCategories(ctx context.Context, workspaceID uuid.UUID) ([]transport.CategoryResponse, error) {
	items, err := s.repo.ListCategories(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.CategoryResponse, len(items))
	for i, item := range items {
		responses[i] = toCategoryResponse(item)
	}
	return responses, nil
}

// UpdateCategory updates a category.
func (s *Service) UpdateCategory(ctx context.Context, workspaceID, id uuid.UUID, req transport.UpdateCategoryRequest) (transport.CategoryResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	cat, err := s.repo.UpdateCategory(ctx, workspaceID, id, repository.UpdateCategoryParams{
		Name:             name,
		ParentCategoryID: req.ParentCategoryID,
	})
	if err != nil {
		return transport.CategoryResponse{}, err
	}
	return toCategoryResponse(cat), nil
}

// DeleteCategory deletes a category.
func (s *Service) DeleteCategory(ctx context.Context, workspaceID, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, workspaceID, id)
}

// CreatePhaseType creates a phase type.
func (s *Service) CreatePhaseType(ctx context.Context, workspaceID uuid.UUID, req transport.CreatePhaseTypeRequest) (transport.PhaseTypeResponse, error) {
	pt, err := s.repo.CreatePhaseType(ctx, repository.CreatePhaseTypeParams{
		WorkspaceID: workspaceID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		return transport.PhaseTypeResponse{}, err
	}
	return toPhaseTypeResponse(pt), nil
}

// ListPhaseTypes lists phase types for a workspace.
func (s *Service) ListPhaseTypes(ctx context.Context, workspaceID uuid.UUID) ([]transport.PhaseTypeResponse, error) {
	items, err := s.repo.ListPhaseTypes(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.PhaseTypeResponse, len(items))
	for i, item := range items {
		responses[i] = toPhaseTypeResponse(item)
	}
	return responses, nil
}

// UpdatePhaseType updates a phase type.
func (s *Service) UpdatePhaseType(ctx context.Context, workspaceID, id uuid.UUID, req transport.UpdatePhaseTypeRequest) (transport.PhaseTypeResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	pt, err := s.repo.UpdatePhaseType(ctx, workspaceID, id, repository.UpdatePhaseTypeParams{
		Name:        name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return transport.PhaseTypeResponse{}, err
	}
	return toPhaseTypeResponse(pt), nil
}

// DeletePhaseType deletes a phase type.
func (s *Service) DeletePhaseType(ctx context.Context, workspaceID, id uuid.UUID) error {
	return s.repo.DeletePhaseType(ctx, workspaceID, id)
}

// CreateResource creates a resource.
func (s *Service) CreateResource(ctx context.Context, workspaceID uuid.UUID, req transport.CreateResourceRequest) (transport.ResourceResponse, error) {
	resource, err := s.repo.CreateResource(ctx, repository.CreateResourceParams{
		WorkspaceID:      workspaceID,
		Name:             strings.TrimSpace(req.Name),
		ResourceType:     req.ResourceType,
		Unit:             req.Unit,
		CostPerUnitCents: req.CostPerUnitCents,
		IsReusable:       req.IsReusable,
	})
	if err != nil {
		return transport.ResourceResponse{}, err
	}
	return toResourceResponse(resource), nil
}

// GetResource retrieves a resource.
func (s *Service) GetResource(ctx context.Context, workspaceID, id uuid.UUID) (transport.ResourceResponse, error) {
	resource, err := s.repo.GetResource(ctx, workspaceID, id)
	if err != nil {
		return transport.ResourceResponse{}, err
	}
	return toResourceResponse(resource), nil
}

// ListResources lists resources for a workspace.
func (s *Service) ListResources(ctx context.Context, workspaceID uuid.UUID) ([]transport.ResourceResponse, error) {
	items, err := s.repo.ListResources(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.ResourceResponse, len(items))
	for i, item := range items {
		responses[i] = toResourceResponse(item)
	}
	return responses, nil
}

// UpdateResource updates a resource. Cost changes take effect on the next
// cost resolution; stored configurations are untouched.
func (s *Service) UpdateResource(ctx context.Context, workspaceID, id uuid.UUID, req transport.UpdateResourceRequest) (transport.ResourceResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	resource, err := s.repo.UpdateResource(ctx, workspaceID, id, repository.UpdateResourceParams{
		Name:             name,
		ResourceType:     req.ResourceType,
		Unit:             req.Unit,
		CostPerUnitCents: req.CostPerUnitCents,
		IsReusable:       req.IsReusable,
		IsActive:         req.IsActive,
	})
	if err != nil {
		return transport.ResourceResponse{}, err
	}
	return toResourceResponse(resource), nil
}

// DeleteResource deletes a resource.
func (s *Service) DeleteResource(ctx context.Context, workspaceID, id uuid.UUID) error {
	return s.repo.DeleteResource(ctx, workspaceID, id)
}

// CreateProduct creates a product.
func (s *Service) CreateProduct(ctx context.Context, workspaceID uuid.UUID, req transport.CreateProductRequest) (transport.ProductResponse, error) {
	product, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
		WorkspaceID:           workspaceID,
		CategoryID:            req.CategoryID,
		Name:                  strings.TrimSpace(req.Name),
		Description:           req.Description,
		SKU:                   req.SKU,
		ProductType:           req.ProductType,
		ProductRole:           orDefault(req.ProductRole, "sellable"),
		Visibility:            orDefault(req.Visibility, "both"),
		PricingMode:           orDefault(req.PricingMode, "fixed"),
		BaseUnit:              orDefault(req.BaseUnit, "unit"),
		BasePriceCents:        req.BasePriceCents,
		TaxRateBps:            req.TaxRateBps,
		DefaultQuantitySource: orDefault(req.DefaultQuantitySource, "manual"),
		PhaseTypeIDs:          req.PhaseTypeIDs,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.log.Info("product created", "workspaceId", workspaceID, "productId", product.ID, "type", product.ProductType)
	return toProductResponse(product), nil
}

// GetProduct retrieves a product.
func (s *Service) GetProduct(ctx context.Context, workspaceID, id uuid.UUID) (transport.ProductResponse, error) {
	product, err := s.repo.GetProduct(ctx, workspaceID, id)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// ListProducts lists products matching the filters.
func (s *Service) ListProducts(ctx context.Context, workspaceID uuid.UUID, req transport.ListProductsQuery) (transport.ProductListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		WorkspaceID: workspaceID,
		Search:      strings.TrimSpace(req.Search),
		ProductType: req.ProductType,
		ProductRole: req.ProductRole,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return transport.ProductListResponse{}, err
	}

	responses := make([]transport.ProductResponse, len(items))
	for i, item := range items {
		responses[i] = toProductResponse(item)
	}
	return transport.ProductListResponse{Items: responses, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateProduct applies partial updates to a product. The product type is
// immutable after creation.
func (s *Service) UpdateProduct(ctx context.Context, workspaceID, id uuid.UUID, req transport.UpdateProductRequest) (transport.ProductResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	product, err := s.repo.UpdateProduct(ctx, workspaceID, id, repository.UpdateProductParams{
		CategoryID:            req.CategoryID,
		Name:                  name,
		Description:           req.Description,
		SKU:                   req.SKU,
		ProductRole:           req.ProductRole,
		Visibility:            req.Visibility,
		PricingMode:           req.PricingMode,
		BaseUnit:              req.BaseUnit,
		BasePriceCents:        req.BasePriceCents,
		TaxRateBps:            req.TaxRateBps,
		DefaultQuantitySource: req.DefaultQuantitySource,
		IsActive:              req.IsActive,
		PhaseTypeIDs:          req.PhaseTypeIDs,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// DeleteProduct removes a product if nothing references it.
func (s *Service) DeleteProduct(ctx context.Context, workspaceID, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, workspaceID, id)
}

// ListCompatibleProducts lists active, sellable products linked to a phase
// type. Pure component products are excluded from direct placement.
func (s *Service) ListCompatibleProducts(ctx context.Context, workspaceID, phaseTypeID uuid.UUID) ([]transport.ProductResponse, error) {
	items, err := s.repo.ListCompatibleProducts(ctx, workspaceID, phaseTypeID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.ProductResponse, len(items))
	for i, item := range items {
		responses[i] = toProductResponse(item)
	}
	return responses, nil
}

// ReplaceConsumptionRules replaces a product's resource consumption rules.
func (s *Service) ReplaceConsumptionRules(ctx context.Context, workspaceID, productID uuid.UUID, req transport.ReplaceRulesRequest) ([]transport.ConsumptionRuleResponse, error) {
	if _, err := s.repo.GetProduct(ctx, workspaceID, productID); err != nil {
		return nil, err
	}

	rules := make([]repository.RuleInput, len(req.Rules))
	for i, rule := range req.Rules {
		rules[i] = repository.RuleInput{
			ResourceID:   rule.ResourceID,
			RuleType:     rule.RuleType,
			Quantity:     rule.Quantity,
			RatioBase:    rule.RatioBase,
			RoundingMode: orDefault(rule.RoundingMode, "none"),
			AppliesTo:    orDefault(rule.AppliesTo, "all"),
			Notes:        rule.Notes,
		}
	}
	if err := s.repo.ReplaceConsumptionRules(ctx, workspaceID, productID, rules); err != nil {
		return nil, err
	}

	s.log.Info("consumption rules replaced", "workspaceId", workspaceID, "productId", productID, "rules", len(rules))
	return s.ListConsumptionRules(ctx, workspaceID, productID)
}

// ListConsumptionRules lists a product's consumption rules.
func (s *Service) ListConsumptionRules(ctx context.Context, workspaceID, productID uuid.UUID) ([]transport.ConsumptionRuleResponse, error) {
	rules, err := s.repo.ListConsumptionRules(ctx, workspaceID, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	responses := make([]transport.ConsumptionRuleResponse, len(rules))
	for i, rule := range rules {
		responses[i] = toConsumptionRuleResponse(rule)
	}
	return responses, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func toCategoryResponse(cat repository.Category) transport.CategoryResponse {
	return transport.CategoryResponse{
		ID:               cat.ID,
		ParentCategoryID: cat.ParentCategoryID,
		Name:             cat.Name,
		CreatedAt:        cat.CreatedAt,
		UpdatedAt:        cat.UpdatedAt,
	}
}

func toPhaseTypeResponse(pt repository.PhaseType) transport.PhaseTypeResponse {
	return transport.PhaseTypeResponse{
		ID:          pt.ID,
		Name:        pt.Name,
		Description: pt.Description,
		IsActive:    pt.IsActive,
		CreatedAt:   pt.CreatedAt,
		UpdatedAt:   pt.UpdatedAt,
	}
}

func toResourceResponse(res repository.Resource) transport.ResourceResponse {
	return transport.ResourceResponse{
		ID:               res.ID,
		Name:             res.Name,
		ResourceType:     res.ResourceType,
		Unit:             res.Unit,
		CostPerUnitCents: res.CostPerUnitCents,
		IsReusable:       res.IsReusable,
		IsActive:         res.IsActive,
		CreatedAt:        res.CreatedAt,
		UpdatedAt:        res.UpdatedAt,
	}
}

func toProductResponse(p repository.Product) transport.ProductResponse {
	phaseTypeIDs := p.PhaseTypeIDs
	if phaseTypeIDs == nil {
		phaseTypeIDs = []uuid.UUID{}
	}
	return transport.ProductResponse{
		ID:                    p.ID,
		CategoryID:            p.CategoryID,
		Name:                  p.Name,
		Description:           p.Description,
		SKU:                   p.SKU,
		ProductType:           p.ProductType,
		ProductRole:           p.ProductRole,
		Visibility:            p.Visibility,
		PricingMode:           p.PricingMode,
		BaseUnit:              p.BaseUnit,
		BasePriceCents:        p.BasePriceCents,
		TaxRateBps:            p.TaxRateBps,
		DefaultQuantitySource: p.DefaultQuantitySource,
		IsActive:              p.IsActive,
		PhaseTypeIDs:          phaseTypeIDs,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func toConsumptionRuleResponse(rule repository.ConsumptionRule) transport.ConsumptionRuleResponse {
	return transport.ConsumptionRuleResponse{
		ID:           rule.ID,
		ResourceID:   rule.ResourceID,
		ResourceName: rule.ResourceName,
		ResourceUnit: rule.ResourceUnit,
		RuleType:     rule.RuleType,
		Quantity:     rule.Quantity,
		RatioBase:    rule.RatioBase,
		RoundingMode: rule.RoundingMode,
		AppliesTo:    rule.AppliesTo,
		Notes:        rule.Notes,
	}
}

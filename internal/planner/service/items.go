package service

import (
	"context"

	"github.com/google/uuid"

	catalogtransport "caterops_backend/internal/catalog/transport"
	"caterops_backend/internal/planner/quantity"
	"caterops_backend/internal/planner/repository"
	"caterops_backend/internal/planner/transport"
	"caterops_backend/platform/apperr"
)

// AddItem places a product in a phase. The quantity source defaults to the
// product's own default; an omitted quantity is initialized from the source
// when it can be resolved, otherwise 1.
func (s *Service) AddItem(ctx context.Context, workspaceID, phaseID uuid.UUID, req transport.AddItemRequest) (transport.ItemResponse, error) {
	phase, err := s.repo.GetPhase(ctx, workspaceID, phaseID)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	event, err := s.repo.GetEvent(ctx, workspaceID, phase.EventID)
	if err != nil {
		return transport.ItemResponse{}, err
	}

	product, err := s.catalog.GetProduct(ctx, workspaceID, req.ProductID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return transport.ItemResponse{}, apperr.Validation("unknown product")
		}
		return transport.ItemResponse{}, err
	}
	if !product.IsActive {
		return transport.ItemResponse{}, apperr.Validation("product is archived")
	}
	if product.ProductRole == "component" {
		return transport.ItemResponse{}, apperr.Validation("component products cannot be placed directly")
	}

	source := product.DefaultQuantitySource
	if req.QuantitySource != nil {
		source = *req.QuantitySource
	}

	storedQuantity := 1.0
	if req.Quantity != nil {
		storedQuantity = *req.Quantity
	} else if resolved, err := quantity.Resolve(source, 1, phaseContext(event, phase)); err == nil {
		storedQuantity = resolved
	}

	item, err := s.repo.AddItem(ctx, repository.AddItemParams{
		WorkspaceID:            workspaceID,
		EventPhaseID:           phaseID,
		ProductID:              req.ProductID,
		Quantity:               storedQuantity,
		QuantitySource:         source,
		UnitPriceOverrideCents: req.UnitPriceOverrideCents,
		Notes:                  req.Notes,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}

	s.log.Info("item added", "workspaceId", workspaceID, "phaseId", phaseID, "itemId", item.ID, "productId", req.ProductID)
	return s.itemResponse(ctx, workspaceID, event, phase, item)
}

// GetItem retrieves an item with its stored configuration.
func (s *Service) GetItem(ctx context.Context, workspaceID, id uuid.UUID) (transport.ItemResponse, error) {
	item, err := s.repo.GetItem(ctx, workspaceID, id)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	phase, err := s.repo.GetPhase(ctx, workspaceID, item.EventPhaseID)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	event, err := s.repo.GetEvent(ctx, workspaceID, phase.EventID)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	return s.itemResponse(ctx, workspaceID, event, phase, item)
}

// ListItems lists a phase's items with their stored configurations.
func (s *Service) ListItems(ctx context.Context, workspaceID, phaseID uuid.UUID) ([]transport.ItemResponse, error) {
	phase, err := s.repo.GetPhase(ctx, workspaceID, phaseID)
	if err != nil {
		return nil, err
	}
	event, err := s.repo.GetEvent(ctx, workspaceID, phase.EventID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, workspaceID, phaseID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}
	components, err := s.repo.ListItemComponents(ctx, workspaceID, itemIDs)
	if err != nil {
		return nil, err
	}
	componentsByItem := make(map[uuid.UUID][]repository.ItemComponent)
	for _, comp := range components {
		componentsByItem[comp.EventPhaseItemID] = append(componentsByItem[comp.EventPhaseItemID], comp)
	}

	phaseCtx := phaseContext(event, phase)
	responses := make([]transport.ItemResponse, len(items))
	for i, item := range items {
		responses[i] = toItemResponse(item, componentsByItem[item.ID], phaseCtx)
	}
	return responses, nil
}

// UpdateItem applies partial updates to an item. The stored configuration is
// untouched.
func (s *Service) UpdateItem(ctx context.Context, workspaceID, id uuid.UUID, req transport.UpdateItemRequest) (transport.ItemResponse, error) {
	item, err := s.repo.UpdateItem(ctx, workspaceID, id, repository.UpdateItemParams{
		Quantity:               req.Quantity,
		QuantitySource:         req.QuantitySource,
		UnitPriceOverrideCents: req.UnitPriceOverrideCents,
		PricingModeOverride:    req.PricingModeOverride,
		Notes:                  req.Notes,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}
	phase, err := s.repo.GetPhase(ctx, workspaceID, item.EventPhaseID)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	event, err := s.repo.GetEvent(ctx, workspaceID, phase.EventID)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	return s.itemResponse(ctx, workspaceID, event, phase, item)
}

// RemoveItem removes an item and its stored configuration.
func (s *Service) RemoveItem(ctx context.Context, workspaceID, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, workspaceID, id)
}

// SaveConfiguration replaces an item's component configuration. The
// candidate selection is validated against the bundle's current group
// constraints and rejected as a whole when any group is violated. Saving the
// same configuration twice yields identical stored rows.
func (s *Service) SaveConfiguration(ctx context.Context, workspaceID, itemID uuid.UUID, req transport.SaveConfigurationRequest) (transport.ItemResponse, error) {
	item, err := s.repo.GetItem(ctx, workspaceID, itemID)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	if item.ProductType != "bundle" {
		return transport.ItemResponse{}, apperr.Validation("item is not a bundle")
	}

	validation, err := s.catalog.ValidateSelection(ctx, workspaceID, item.ProductID, req.Components)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	if !validation.Valid {
		return transport.ItemResponse{}, apperr.Unprocessable("selection violates group constraints").
			WithDetails(validation.Violations)
	}

	def, err := s.catalog.GetBundleDefinition(ctx, workspaceID, item.ProductID)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	edges := make(map[uuid.UUID]catalogtransport.BundleComponentResponse, len(def.Components))
	for _, comp := range def.Components {
		edges[comp.ID] = comp
	}

	rows := make([]repository.ComponentRow, 0, len(req.Components))
	seen := make(map[uuid.UUID]bool, len(req.Components))
	for _, comp := range req.Components {
		edge := edges[comp.ComponentID]
		seen[comp.ComponentID] = true
		if !comp.Selected || comp.Quantity <= 0 {
			continue
		}
		rows = append(rows, repository.ComponentRow{
			ComponentProductID: edge.ChildProductID,
			GroupID:            edge.GroupID,
			Quantity:           comp.Quantity,
			Selected:           true,
		})
	}
	// Fixed components always participate, even when omitted from the
	// request.
	for _, comp := range def.Components {
		if comp.GroupID == nil && !seen[comp.ID] {
			rows = append(rows, repository.ComponentRow{
				ComponentProductID: comp.ChildProductID,
				Quantity:           comp.Quantity,
				Selected:           true,
			})
		}
	}

	if err := s.repo.ReplaceItemComponents(ctx, workspaceID, itemID, rows); err != nil {
		return transport.ItemResponse{}, err
	}

	s.log.Info("item configuration saved", "workspaceId", workspaceID, "itemId", itemID, "components", len(rows))
	return s.GetItem(ctx, workspaceID, itemID)
}

func (s *Service) itemResponse(ctx context.Context, workspaceID uuid.UUID, event repository.Event, phase repository.Phase, item repository.Item) (transport.ItemResponse, error) {
	components, err := s.repo.ListItemComponents(ctx, workspaceID, []uuid.UUID{item.ID})
	if err != nil {
		return transport.ItemResponse{}, err
	}
	return toItemResponse(item, components, phaseContext(event, phase)), nil
}

func toItemResponse(item repository.Item, components []repository.ItemComponent, phaseCtx quantity.PhaseContext) transport.ItemResponse {
	resp := transport.ItemResponse{
		ID:                     item.ID,
		EventPhaseID:           item.EventPhaseID,
		ProductID:              item.ProductID,
		ProductName:            item.ProductName,
		ProductType:            item.ProductType,
		Quantity:               item.Quantity,
		QuantitySource:         item.QuantitySource,
		PricingMode:            item.PricingMode,
		PricingModeOverride:    item.PricingModeOverride,
		BasePriceCents:         item.BasePriceCents,
		UnitPriceOverrideCents: item.UnitPriceOverrideCents,
		TaxRateBps:             item.TaxRateBps,
		Notes:                  item.Notes,
		Components:             make([]transport.ItemComponentResponse, len(components)),
		CreatedAt:              item.CreatedAt,
		UpdatedAt:              item.UpdatedAt,
	}
	if resolved, err := quantity.Resolve(item.QuantitySource, item.Quantity, phaseCtx); err == nil {
		resp.EffectiveQuantity = &resolved
	}
	for i, comp := range components {
		resp.Components[i] = transport.ItemComponentResponse{
			ID:                 comp.ID,
			ComponentProductID: comp.ComponentProductID,
			ProductName:        comp.ProductName,
			GroupID:            comp.GroupID,
			Quantity:           comp.Quantity,
			Selected:           comp.Selected,
		}
	}
	return resp
}

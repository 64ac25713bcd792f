package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"caterops_backend/internal/catalog/costing"
	"caterops_backend/internal/catalog/repository"
	"caterops_backend/internal/catalog/transport"
	"caterops_backend/platform/apperr"
)

// ResolveProductCost resolves a product's resource cost at the given
// quantity using the bundle's default selections. Fixed components are
// always included.
func (s *Service) ResolveProductCost(ctx context.Context, workspaceID, productID uuid.UUID, quantity float64) (transport.CostBreakdownResponse, error) {
	return s.resolveCost(ctx, workspaceID, productID, quantity, nil)
}

// ResolveCostForConfiguration resolves a product's resource cost at the
// given quantity using an explicit component configuration. The
// configuration is validated against the bundle's group constraints first;
// an inadmissible selection fails with the full violation list attached.
func (s *Service) ResolveCostForConfiguration(ctx context.Context, workspaceID, productID uuid.UUID, quantity float64, config []transport.ConfigurationComponent) (transport.CostBreakdownResponse, error) {
	return s.resolveCost(ctx, workspaceID, productID, quantity, config)
}

// ResolveCostForSnapshot resolves a product's resource cost using a stored
// instance-level component snapshot. The snapshot is costed as-is: catalog
// edits after the configuration was saved do not change which components
// participate.
func (s *Service) ResolveCostForSnapshot(ctx context.Context, workspaceID, productID uuid.UUID, quantity float64, components []transport.SnapshotComponent) (transport.CostBreakdownResponse, error) {
	if quantity <= 0 {
		return transport.CostBreakdownResponse{}, apperr.Validation("quantity must be positive")
	}
	if _, err := s.repo.GetProduct(ctx, workspaceID, productID); err != nil {
		return transport.CostBreakdownResponse{}, err
	}

	def, err := s.repo.GetBundleDefinition(ctx, workspaceID, productID)
	if err != nil {
		return transport.CostBreakdownResponse{}, err
	}
	namesByChild := make(map[uuid.UUID]string, len(def.Components))
	for _, comp := range def.Components {
		namesByChild[comp.ChildProductID] = comp.ChildName
	}

	included := make([]includedComponent, len(components))
	for i, comp := range components {
		included[i] = includedComponent{
			edge: repository.Component{
				ChildProductID: comp.ChildProductID,
				ChildName:      namesByChild[comp.ChildProductID],
			},
			quantity: comp.Quantity,
		}
	}
	return s.costIncluded(ctx, workspaceID, productID, quantity, included)
}

func (s *Service) resolveCost(ctx context.Context, workspaceID, productID uuid.UUID, quantity float64, config []transport.ConfigurationComponent) (transport.CostBreakdownResponse, error) {
	if quantity <= 0 {
		return transport.CostBreakdownResponse{}, apperr.Validation("quantity must be positive")
	}
	if _, err := s.repo.GetProduct(ctx, workspaceID, productID); err != nil {
		return transport.CostBreakdownResponse{}, err
	}

	def, err := s.repo.GetBundleDefinition(ctx, workspaceID, productID)
	if err != nil {
		return transport.CostBreakdownResponse{}, err
	}

	included, err := includedComponents(def, config)
	if err != nil {
		return transport.CostBreakdownResponse{}, err
	}
	return s.costIncluded(ctx, workspaceID, productID, quantity, included)
}

func (s *Service) costIncluded(ctx context.Context, workspaceID, productID uuid.UUID, quantity float64, included []includedComponent) (transport.CostBreakdownResponse, error) {
	ruleProductIDs := make([]uuid.UUID, 0, len(included)+1)
	ruleProductIDs = append(ruleProductIDs, productID)
	for _, comp := range included {
		ruleProductIDs = append(ruleProductIDs, comp.edge.ChildProductID)
	}

	rules, err := s.repo.ListConsumptionRules(ctx, workspaceID, ruleProductIDs)
	if err != nil {
		return transport.CostBreakdownResponse{}, err
	}

	resources := make(map[uuid.UUID]costing.Resource)
	rulesByProduct := make(map[uuid.UUID][]costing.Rule)
	for _, rule := range rules {
		resources[rule.ResourceID] = costing.Resource{
			ID:               rule.ResourceID,
			Name:             rule.ResourceName,
			Unit:             rule.ResourceUnit,
			CostPerUnitCents: rule.ResourceCostPerUnitCents,
		}
		rulesByProduct[rule.ProductID] = append(rulesByProduct[rule.ProductID], costing.Rule{
			ResourceID: rule.ResourceID,
			Type:       costing.RuleType(rule.RuleType),
			Quantity:   rule.Quantity,
			RatioBase:  rule.RatioBase,
			Rounding:   costing.RoundingMode(rule.RoundingMode),
			Scope:      costing.Scope(rule.AppliesTo),
		})
	}

	input := costing.Input{
		ProductID:  productID,
		Quantity:   quantity,
		Rules:      rulesByProduct[productID],
		Components: make([]costing.ComponentSelection, len(included)),
		Resources:  resources,
	}
	for i, comp := range included {
		input.Components[i] = costing.ComponentSelection{
			ProductID: comp.edge.ChildProductID,
			Name:      comp.edge.ChildName,
			Quantity:  comp.quantity,
			Rules:     rulesByProduct[comp.edge.ChildProductID],
		}
	}

	breakdown, err := costing.Resolve(input)
	if err != nil {
		if errors.Is(err, costing.ErrZeroRatioBase) || errors.Is(err, costing.ErrMissingResource) {
			return transport.CostBreakdownResponse{}, apperr.Unprocessable(err.Error())
		}
		return transport.CostBreakdownResponse{}, err
	}

	resp := transport.CostBreakdownResponse{
		ProductID:      productID,
		Quantity:       quantity,
		PerResource:    make([]transport.ResourceCostLine, len(breakdown.PerResource)),
		TotalCostCents: breakdown.TotalCents,
	}
	for i, line := range breakdown.PerResource {
		resp.PerResource[i] = transport.ResourceCostLine{
			ResourceID:   line.ResourceID,
			ResourceName: line.ResourceName,
			Unit:         line.Unit,
			Units:        line.Units,
			CostCents:    line.CostCents,
		}
	}
	return resp, nil
}

type includedComponent struct {
	edge     repository.Component
	quantity float64
}

// includedComponents determines which child components participate in cost
// resolution. With an explicit configuration the selection is validated
// against the group constraints first; without one, fixed components and
// default-selected grouped components are included at their edge quantity.
func includedComponents(def repository.BundleDefinition, config []transport.ConfigurationComponent) ([]includedComponent, error) {
	edges := make(map[uuid.UUID]repository.Component, len(def.Components))
	for _, comp := range def.Components {
		edges[comp.ID] = comp
	}

	if config == nil {
		included := make([]includedComponent, 0, len(def.Components))
		for _, comp := range def.Components {
			if comp.GroupID == nil || comp.DefaultSelected {
				included = append(included, includedComponent{edge: comp, quantity: comp.Quantity})
			}
		}
		return included, nil
	}

	violations, err := validateAgainstDefinition(def, config)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, apperr.Validation("selection violates group constraints").WithDetails(violations)
	}

	included := make([]includedComponent, 0, len(config)+len(def.Components))
	seen := make(map[uuid.UUID]bool, len(config))
	for _, row := range config {
		seen[row.ComponentID] = true
		if !row.Selected || row.Quantity <= 0 {
			continue
		}
		included = append(included, includedComponent{edge: edges[row.ComponentID], quantity: row.Quantity})
	}
	// Fixed components participate even when the configuration omits them.
	for _, comp := range def.Components {
		if comp.GroupID == nil && !seen[comp.ID] {
			included = append(included, includedComponent{edge: comp, quantity: comp.Quantity})
		}
	}
	return included, nil
}

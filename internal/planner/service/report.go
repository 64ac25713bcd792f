package service

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"

	catalogtransport "caterops_backend/internal/catalog/transport"
	"caterops_backend/internal/planner/quantity"
	"caterops_backend/internal/planner/repository"
	"caterops_backend/internal/planner/transport"
)

// EventCostReport resolves every item of an event against the current
// catalog and aggregates resource consumption and prices. Items whose
// quantity cannot be resolved are reported, not silently dropped.
func (s *Service) EventCostReport(ctx context.Context, workspaceID, eventID uuid.UUID) (transport.EventCostReportResponse, error) {
	event, err := s.repo.GetEvent(ctx, workspaceID, eventID)
	if err != nil {
		return transport.EventCostReportResponse{}, err
	}
	phases, err := s.repo.ListPhases(ctx, workspaceID, eventID)
	if err != nil {
		return transport.EventCostReportResponse{}, err
	}

	report := transport.EventCostReportResponse{
		EventID: eventID,
		Phases:  make([]transport.PhaseCostResponse, 0, len(phases)),
	}
	resourceTotals := make(map[uuid.UUID]catalogtransport.ResourceCostLine)

	for _, phase := range phases {
		items, err := s.repo.ListItems(ctx, workspaceID, phase.ID)
		if err != nil {
			return transport.EventCostReportResponse{}, err
		}

		itemIDs := make([]uuid.UUID, len(items))
		for i, item := range items {
			itemIDs[i] = item.ID
		}
		components, err := s.repo.ListItemComponents(ctx, workspaceID, itemIDs)
		if err != nil {
			return transport.EventCostReportResponse{}, err
		}
		componentsByItem := make(map[uuid.UUID][]repository.ItemComponent)
		for _, comp := range components {
			componentsByItem[comp.EventPhaseItemID] = append(componentsByItem[comp.EventPhaseItemID], comp)
		}

		phaseCost := transport.PhaseCostResponse{
			PhaseID:   phase.ID,
			PhaseName: phase.Name,
			Items:     make([]transport.ItemCostResponse, 0, len(items)),
		}
		phaseCtx := phaseContext(event, phase)

		for _, item := range items {
			effective, err := quantity.Resolve(item.QuantitySource, item.Quantity, phaseCtx)
			if err != nil {
				report.UnresolvableItemIDs = append(report.UnresolvableItemIDs, item.ID)
				continue
			}

			cost, err := s.costItem(ctx, workspaceID, item, componentsByItem[item.ID], effective)
			if err != nil {
				return transport.EventCostReportResponse{}, err
			}

			price := itemPriceCents(item, effective)
			phaseCost.Items = append(phaseCost.Items, transport.ItemCostResponse{
				ItemID:            item.ID,
				ProductID:         item.ProductID,
				ProductName:       item.ProductName,
				EffectiveQuantity: effective,
				PriceCents:        price,
				Cost:              cost,
			})
			report.TotalCostCents += cost.TotalCostCents
			report.TotalPriceCents += price

			for _, line := range cost.PerResource {
				total := resourceTotals[line.ResourceID]
				total.ResourceID = line.ResourceID
				total.ResourceName = line.ResourceName
				total.Unit = line.Unit
				total.Units += line.Units
				total.CostCents += line.CostCents
				resourceTotals[line.ResourceID] = total
			}
		}

		report.Phases = append(report.Phases, phaseCost)
	}

	report.PerResource = make([]catalogtransport.ResourceCostLine, 0, len(resourceTotals))
	for _, line := range resourceTotals {
		report.PerResource = append(report.PerResource, line)
	}
	sort.Slice(report.PerResource, func(i, j int) bool {
		a, b := report.PerResource[i], report.PerResource[j]
		if a.ResourceName != b.ResourceName {
			return a.ResourceName < b.ResourceName
		}
		return a.ResourceID.String() < b.ResourceID.String()
	})

	return report, nil
}

// costItem resolves one item's resource cost. An item with a stored
// configuration is costed against that snapshot; otherwise the bundle's
// default selections apply.
func (s *Service) costItem(ctx context.Context, workspaceID uuid.UUID, item repository.Item, components []repository.ItemComponent, effective float64) (catalogtransport.CostBreakdownResponse, error) {
	if len(components) == 0 {
		return s.catalog.ResolveProductCost(ctx, workspaceID, item.ProductID, effective)
	}

	snapshot := make([]catalogtransport.SnapshotComponent, 0, len(components))
	for _, comp := range components {
		if !comp.Selected {
			continue
		}
		snapshot = append(snapshot, catalogtransport.SnapshotComponent{
			ChildProductID: comp.ComponentProductID,
			Quantity:       comp.Quantity,
		})
	}
	return s.catalog.ResolveCostForSnapshot(ctx, workspaceID, item.ProductID, effective, snapshot)
}

// itemPriceCents computes an item's sell price: fixed pricing charges the
// unit price once, per-unit pricing scales it by the effective quantity.
func itemPriceCents(item repository.Item, effective float64) int64 {
	unitPrice := item.BasePriceCents
	if item.UnitPriceOverrideCents != nil {
		unitPrice = *item.UnitPriceOverrideCents
	}
	mode := item.PricingMode
	if item.PricingModeOverride != nil {
		mode = *item.PricingModeOverride
	}
	if mode == "per_unit" {
		return int64(math.Round(float64(unitPrice) * effective))
	}
	return unitPrice
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"caterops_backend/internal/catalog/repository"
	"caterops_backend/internal/catalog/transport"
	"caterops_backend/platform/apperr"
)

func TestResolveProductCostUsesDefaultSelections(t *testing.T) {
	workspaceID := uuid.New()
	bundle := uuid.New()
	fixedChild := uuid.New()
	defaultChild := uuid.New()
	unselectedChild := uuid.New()
	groupID := uuid.New()

	plates := uuid.New()
	napkins := uuid.New()

	repo := &fakeRepo{
		products: map[uuid.UUID]repository.Product{bundle: bundleProduct(bundle)},
		def: repository.BundleDefinition{
			Groups: []repository.BundleGroup{
				{ID: groupID, ParentProductID: bundle, Name: "Mains", MinSelect: 1},
			},
			Components: []repository.Component{
				{ID: uuid.New(), ChildProductID: fixedChild, ChildName: "bread", Quantity: 1},
				{ID: uuid.New(), ChildProductID: defaultChild, ChildName: "beef", GroupID: &groupID, Quantity: 1, DefaultSelected: true},
				{ID: uuid.New(), ChildProductID: unselectedChild, ChildName: "fish", GroupID: &groupID, Quantity: 1},
			},
		},
		rules: []repository.ConsumptionRule{
			{
				ProductID: bundle, ResourceID: napkins, RuleType: "per_product_unit",
				Quantity: 2, RoundingMode: "none", AppliesTo: "bundle_parent_only",
				ResourceName: "napkin", ResourceUnit: "unit", ResourceCostPerUnitCents: 5,
			},
			{
				ProductID: fixedChild, ResourceID: plates, RuleType: "per_product_unit",
				Quantity: 1, RoundingMode: "none", AppliesTo: "all",
				ResourceName: "plate", ResourceUnit: "unit", ResourceCostPerUnitCents: 50,
			},
			{
				ProductID: defaultChild, ResourceID: plates, RuleType: "per_product_unit",
				Quantity: 1, RoundingMode: "none", AppliesTo: "all",
				ResourceName: "plate", ResourceUnit: "unit", ResourceCostPerUnitCents: 50,
			},
			// The unselected option's rule must not fire.
			{
				ProductID: unselectedChild, ResourceID: plates, RuleType: "per_product_unit",
				Quantity: 10, RoundingMode: "none", AppliesTo: "all",
				ResourceName: "plate", ResourceUnit: "unit", ResourceCostPerUnitCents: 50,
			},
		},
	}
	svc := newTestService(repo)

	got, err := svc.ResolveProductCost(context.Background(), workspaceID, bundle, 10)
	if err != nil {
		t.Fatalf("ResolveProductCost failed: %v", err)
	}

	byName := make(map[string]transport.ResourceCostLine)
	for _, line := range got.PerResource {
		byName[line.ResourceName] = line
	}

	// Parent rule: 2 napkins per unit at quantity 10.
	if byName["napkin"].Units != 20 {
		t.Fatalf("expected 20 napkins, got %v", byName["napkin"].Units)
	}
	// Fixed child plus default-selected child, each 1 plate per unit at
	// effective quantity 10. The unselected fish contributes nothing.
	if byName["plate"].Units != 20 {
		t.Fatalf("expected 20 plates, got %v", byName["plate"].Units)
	}
	wantTotal := int64(20*5 + 20*50)
	if got.TotalCostCents != wantTotal {
		t.Fatalf("expected total %d cents, got %d", wantTotal, got.TotalCostCents)
	}
}

func TestResolveCostForConfigurationRejectsInadmissibleSelection(t *testing.T) {
	workspaceID := uuid.New()
	bundle := uuid.New()
	groupID := uuid.New()
	edgeID := uuid.New()

	repo := &fakeRepo{
		products: map[uuid.UUID]repository.Product{bundle: bundleProduct(bundle)},
		def: repository.BundleDefinition{
			Groups: []repository.BundleGroup{
				{ID: groupID, ParentProductID: bundle, Name: "Mains", MinSelect: 1},
			},
			Components: []repository.Component{
				{ID: edgeID, ChildProductID: uuid.New(), ChildName: "beef", GroupID: &groupID, Quantity: 1},
			},
		},
	}
	svc := newTestService(repo)

	_, err := svc.ResolveCostForConfiguration(context.Background(), workspaceID, bundle, 10,
		[]transport.ConfigurationComponent{{ComponentID: edgeID, Quantity: 1, Selected: false}})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveProductCostRejectsNonPositiveQuantity(t *testing.T) {
	workspaceID := uuid.New()
	product := uuid.New()

	repo := &fakeRepo{products: map[uuid.UUID]repository.Product{product: singleProduct(product)}}
	svc := newTestService(repo)

	for _, quantity := range []float64{0, -5} {
		_, err := svc.ResolveProductCost(context.Background(), workspaceID, product, quantity)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error at quantity %v, got %v", quantity, err)
		}
	}
}

func TestResolveProductCostSurfacesZeroRatioBase(t *testing.T) {
	workspaceID := uuid.New()
	product := uuid.New()
	resource := uuid.New()

	repo := &fakeRepo{
		products: map[uuid.UUID]repository.Product{product: singleProduct(product)},
		rules: []repository.ConsumptionRule{
			{
				ProductID: product, ResourceID: resource, RuleType: "per_ratio",
				Quantity: 1, RatioBase: nil, RoundingMode: "ceil", AppliesTo: "bundle_parent_only",
				ResourceName: "chafing dish", ResourceUnit: "unit", ResourceCostPerUnitCents: 100,
			},
		},
	}
	svc := newTestService(repo)

	_, err := svc.ResolveProductCost(context.Background(), workspaceID, product, 10)
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected unprocessable error, got %v", err)
	}
}

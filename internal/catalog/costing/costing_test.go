package costing

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

func floatPtr(v float64) *float64 { return &v }

func singleResourceInput(rule Rule, quantity float64, costPerUnitCents int64) Input {
	return Input{
		ProductID: uuid.New(),
		Quantity:  quantity,
		Rules:     []Rule{rule},
		Resources: map[uuid.UUID]Resource{
			rule.ResourceID: {
				ID:               rule.ResourceID,
				Name:             "test resource",
				Unit:             "unit",
				CostPerUnitCents: costPerUnitCents,
			},
		},
	}
}

func TestResolveRoundingModes(t *testing.T) {
	resourceID := uuid.New()

	tests := []struct {
		name      string
		mode      RoundingMode
		wantUnits float64
	}{
		{"ceil", RoundCeil, 11},
		{"floor", RoundFloor, 10},
		{"round", RoundHalf, 10},
		{"none", RoundNone, 10.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := Rule{
				ResourceID: resourceID,
				Type:       RulePerRatio,
				Quantity:   1,
				RatioBase:  floatPtr(10),
				Rounding:   tt.mode,
				Scope:      ScopeBundleParentOnly,
			}

			got, err := Resolve(singleResourceInput(rule, 101, 100))
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if len(got.PerResource) != 1 {
				t.Fatalf("expected 1 resource line, got %d", len(got.PerResource))
			}
			if got.PerResource[0].Units != tt.wantUnits {
				t.Fatalf("expected %v units, got %v", tt.wantUnits, got.PerResource[0].Units)
			}
			wantCents := int64(math.Round(tt.wantUnits * 100))
			if got.TotalCents != wantCents {
				t.Fatalf("expected %d cents, got %d", wantCents, got.TotalCents)
			}
		})
	}
}

func TestResolvePerProductUnit(t *testing.T) {
	resourceID := uuid.New()
	rule := Rule{
		ResourceID: resourceID,
		Type:       RulePerProductUnit,
		Quantity:   0.2,
		Rounding:   RoundNone,
		Scope:      ScopeBundleParentOnly,
	}

	got, err := Resolve(singleResourceInput(rule, 50, 300))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.PerResource[0].Units != 10 {
		t.Fatalf("expected 10 units, got %v", got.PerResource[0].Units)
	}
	if got.TotalCents != 3000 {
		t.Fatalf("expected 3000 cents, got %d", got.TotalCents)
	}
}

func TestResolveFixedPerParentIgnoresQuantity(t *testing.T) {
	resourceID := uuid.New()
	rule := Rule{
		ResourceID: resourceID,
		Type:       RuleFixedPerParent,
		Quantity:   2,
		Rounding:   RoundNone,
		Scope:      ScopeBundleParentOnly,
	}

	for _, quantity := range []float64{1, 75, 1000} {
		got, err := Resolve(singleResourceInput(rule, quantity, 5000))
		if err != nil {
			t.Fatalf("Resolve failed at quantity %v: %v", quantity, err)
		}
		if got.PerResource[0].Units != 2 {
			t.Fatalf("expected 2 units at quantity %v, got %v", quantity, got.PerResource[0].Units)
		}
	}
}

func TestResolveZeroRatioBase(t *testing.T) {
	resourceID := uuid.New()

	for _, base := range []*float64{nil, floatPtr(0)} {
		rule := Rule{
			ResourceID: resourceID,
			Type:       RulePerRatio,
			Quantity:   1,
			RatioBase:  base,
			Rounding:   RoundCeil,
			Scope:      ScopeBundleParentOnly,
		}

		_, err := Resolve(singleResourceInput(rule, 10, 100))
		if !errors.Is(err, ErrZeroRatioBase) {
			t.Fatalf("expected ErrZeroRatioBase, got %v", err)
		}
	}
}

func TestResolveMissingResource(t *testing.T) {
	rule := Rule{
		ResourceID: uuid.New(),
		Type:       RulePerProductUnit,
		Quantity:   1,
		Rounding:   RoundNone,
		Scope:      ScopeBundleParentOnly,
	}

	_, err := Resolve(Input{
		ProductID: uuid.New(),
		Quantity:  10,
		Rules:     []Rule{rule},
		Resources: map[uuid.UUID]Resource{},
	})
	if !errors.Is(err, ErrMissingResource) {
		t.Fatalf("expected ErrMissingResource, got %v", err)
	}
}

func TestResolveScopes(t *testing.T) {
	parentResource := uuid.New()
	componentResource := uuid.New()
	sharedResource := uuid.New()

	resources := map[uuid.UUID]Resource{
		parentResource:    {ID: parentResource, Name: "chafing dish", Unit: "unit", CostPerUnitCents: 100},
		componentResource: {ID: componentResource, Name: "plate", Unit: "unit", CostPerUnitCents: 50},
		sharedResource:    {ID: sharedResource, Name: "napkin", Unit: "unit", CostPerUnitCents: 10},
	}

	in := Input{
		ProductID: uuid.New(),
		Quantity:  10,
		Rules: []Rule{
			{ResourceID: parentResource, Type: RulePerProductUnit, Quantity: 1, Rounding: RoundNone, Scope: ScopeBundleParentOnly},
			{ResourceID: componentResource, Type: RulePerProductUnit, Quantity: 1, Rounding: RoundNone, Scope: ScopeSelectedComponents},
			{ResourceID: sharedResource, Type: RulePerProductUnit, Quantity: 1, Rounding: RoundNone, Scope: ScopeAll},
		},
		Components: []ComponentSelection{
			{ProductID: uuid.New(), Name: "main", Quantity: 1},
			{ProductID: uuid.New(), Name: "side", Quantity: 2},
		},
		Resources: resources,
	}

	got, err := Resolve(in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	byName := make(map[string]ResourceCost)
	for _, line := range got.PerResource {
		byName[line.ResourceName] = line
	}

	// bundle_parent_only fires once at parent quantity 10.
	if byName["chafing dish"].Units != 10 {
		t.Fatalf("expected 10 parent-scoped units, got %v", byName["chafing dish"].Units)
	}
	// selected_components_only fires per component: 1*10 + 2*10.
	if byName["plate"].Units != 30 {
		t.Fatalf("expected 30 component-scoped units, got %v", byName["plate"].Units)
	}
	// all fires for the parent and every component: 10 + 10 + 20.
	if byName["napkin"].Units != 40 {
		t.Fatalf("expected 40 all-scoped units, got %v", byName["napkin"].Units)
	}
}

func TestResolveComponentRulesUseEffectiveQuantity(t *testing.T) {
	resourceID := uuid.New()
	skippedResource := uuid.New()

	in := Input{
		ProductID: uuid.New(),
		Quantity:  40,
		Components: []ComponentSelection{
			{
				ProductID: uuid.New(),
				Name:      "soup",
				Quantity:  0.5,
				Rules: []Rule{
					{ResourceID: resourceID, Type: RulePerProductUnit, Quantity: 1, Rounding: RoundCeil, Scope: ScopeBundleParentOnly},
					{ResourceID: skippedResource, Type: RulePerProductUnit, Quantity: 1, Rounding: RoundNone, Scope: ScopeSelectedComponents},
				},
			},
		},
		Resources: map[uuid.UUID]Resource{
			resourceID:      {ID: resourceID, Name: "bowl", Unit: "unit", CostPerUnitCents: 25},
			skippedResource: {ID: skippedResource, Name: "spoon", Unit: "unit", CostPerUnitCents: 5},
		},
	}

	got, err := Resolve(in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(got.PerResource) != 1 {
		t.Fatalf("expected nested component-scoped rule to be skipped, got %v", got.PerResource)
	}
	if got.PerResource[0].Units != 20 {
		t.Fatalf("expected 20 units at effective quantity 0.5*40, got %v", got.PerResource[0].Units)
	}
	if got.TotalCents != 500 {
		t.Fatalf("expected 500 cents, got %d", got.TotalCents)
	}
}

func TestResolveAggregatesRulesPerResourceAfterRounding(t *testing.T) {
	resourceID := uuid.New()

	in := Input{
		ProductID: uuid.New(),
		Quantity:  7,
		Rules: []Rule{
			{ResourceID: resourceID, Type: RulePerRatio, Quantity: 1, RatioBase: floatPtr(2), Rounding: RoundCeil, Scope: ScopeBundleParentOnly},
			{ResourceID: resourceID, Type: RulePerRatio, Quantity: 1, RatioBase: floatPtr(2), Rounding: RoundCeil, Scope: ScopeBundleParentOnly},
		},
		Resources: map[uuid.UUID]Resource{
			resourceID: {ID: resourceID, Name: "tray", Unit: "unit", CostPerUnitCents: 100},
		},
	}

	got, err := Resolve(in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// Each rule rounds 3.5 up to 4 before the sum.
	if got.PerResource[0].Units != 8 {
		t.Fatalf("expected 8 units, got %v", got.PerResource[0].Units)
	}
}

func TestResolveBreakdownIsSorted(t *testing.T) {
	apple := uuid.New()
	zest := uuid.New()

	in := Input{
		ProductID: uuid.New(),
		Quantity:  1,
		Rules: []Rule{
			{ResourceID: zest, Type: RuleFixedPerParent, Quantity: 1, Rounding: RoundNone, Scope: ScopeBundleParentOnly},
			{ResourceID: apple, Type: RuleFixedPerParent, Quantity: 1, Rounding: RoundNone, Scope: ScopeBundleParentOnly},
		},
		Resources: map[uuid.UUID]Resource{
			apple: {ID: apple, Name: "apple", Unit: "kg", CostPerUnitCents: 200},
			zest:  {ID: zest, Name: "zest", Unit: "g", CostPerUnitCents: 10},
		},
	}

	got, err := Resolve(in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.PerResource[0].ResourceName != "apple" || got.PerResource[1].ResourceName != "zest" {
		t.Fatalf("expected breakdown sorted by resource name, got %v", got.PerResource)
	}
	if got.TotalCents != 210 {
		t.Fatalf("expected 210 cents total, got %d", got.TotalCents)
	}
}

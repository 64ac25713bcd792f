// Package costing resolves the resource cost of a product at a given
// quantity. All money values are integer cents; resource unit counts stay
// fractional until each rule's rounding mode is applied.
package costing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// RuleType determines how a consumption rule scales with quantity.
type RuleType string

const (
	RulePerProductUnit RuleType = "per_product_unit"
	RulePerRatio       RuleType = "per_ratio"
	RuleFixedPerParent RuleType = "fixed_per_parent"
)

// RoundingMode is applied to a rule's computed unit count before costing.
type RoundingMode string

const (
	RoundCeil  RoundingMode = "ceil"
	RoundFloor RoundingMode = "floor"
	RoundHalf  RoundingMode = "round"
	RoundNone  RoundingMode = "none"
)

// Scope restricts which quantities a bundle parent's rule fires against.
type Scope string

const (
	ScopeAll                Scope = "all"
	ScopeSelectedComponents Scope = "selected_components_only"
	ScopeBundleParentOnly   Scope = "bundle_parent_only"
)

// ErrZeroRatioBase is returned when a per-ratio rule has a missing or zero
// ratio base. Cost resolution never divides by zero or silently skips rules.
var ErrZeroRatioBase = errors.New("per-ratio rule has zero ratio base")

// ErrMissingResource is returned when a rule references a resource that is
// absent from the input's resource index.
var ErrMissingResource = errors.New("rule references unknown resource")

// Resource is the costing view of a priced resource.
type Resource struct {
	ID               uuid.UUID
	Name             string
	Unit             string
	CostPerUnitCents int64
}

// Rule is one resource consumption rule attached to a product.
type Rule struct {
	ResourceID uuid.UUID
	Type       RuleType
	Quantity   float64
	// RatioBase is required for per-ratio rules and ignored otherwise.
	RatioBase *float64
	Rounding  RoundingMode
	Scope     Scope
}

// ComponentSelection is one selected or fixed child of a bundle, carrying the
// child's own consumption rules. Quantity is the per-parent-unit multiplier
// from the component edge or the stored item configuration.
type ComponentSelection struct {
	ProductID uuid.UUID
	Name      string
	Quantity  float64
	Rules     []Rule
}

// Input describes one product instance to cost.
type Input struct {
	ProductID  uuid.UUID
	Quantity   float64
	Rules      []Rule
	Components []ComponentSelection
	Resources  map[uuid.UUID]Resource
}

// ResourceCost is the aggregated consumption of one resource.
type ResourceCost struct {
	ResourceID   uuid.UUID `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	Unit         string    `json:"unit"`
	Units        float64   `json:"units"`
	CostCents    int64     `json:"costCents"`
}

// Breakdown is the full cost resolution result for one product instance.
type Breakdown struct {
	PerResource []ResourceCost `json:"perResource"`
	TotalCents  int64          `json:"totalCents"`
}

// Resolve computes the resource cost breakdown for a product at the given
// quantity. Each rule's unit count is rounded per its rounding mode before
// aggregation, so two rules on the same resource round independently.
//
// Scope semantics for the parent's own rules: bundle_parent_only fires once
// at the parent quantity, selected_components_only fires once per component
// at that component's effective quantity, and all does both. Each component's
// own rules fire at the component's effective quantity; a component rule
// scoped to selected_components_only is skipped because nested selections
// are resolved one level deep.
func Resolve(in Input) (Breakdown, error) {
	units := make(map[uuid.UUID]float64)

	addRule := func(rule Rule, quantity float64) error {
		if _, ok := in.Resources[rule.ResourceID]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingResource, rule.ResourceID)
		}
		n, err := ruleUnits(rule, quantity)
		if err != nil {
			return err
		}
		units[rule.ResourceID] += n
		return nil
	}

	for _, rule := range in.Rules {
		if rule.Scope == ScopeBundleParentOnly || rule.Scope == ScopeAll || rule.Scope == "" {
			if err := addRule(rule, in.Quantity); err != nil {
				return Breakdown{}, err
			}
		}
		if rule.Scope == ScopeSelectedComponents || rule.Scope == ScopeAll {
			for _, comp := range in.Components {
				if err := addRule(rule, comp.Quantity*in.Quantity); err != nil {
					return Breakdown{}, err
				}
			}
		}
	}

	for _, comp := range in.Components {
		effective := comp.Quantity * in.Quantity
		for _, rule := range comp.Rules {
			if rule.Scope == ScopeSelectedComponents {
				continue
			}
			if err := addRule(rule, effective); err != nil {
				return Breakdown{}, err
			}
		}
	}

	breakdown := Breakdown{PerResource: make([]ResourceCost, 0, len(units))}
	for resourceID, count := range units {
		resource := in.Resources[resourceID]
		cost := roundCents(count * float64(resource.CostPerUnitCents))
		breakdown.PerResource = append(breakdown.PerResource, ResourceCost{
			ResourceID:   resourceID,
			ResourceName: resource.Name,
			Unit:         resource.Unit,
			Units:        count,
			CostCents:    cost,
		})
		breakdown.TotalCents += cost
	}

	sort.Slice(breakdown.PerResource, func(i, j int) bool {
		a, b := breakdown.PerResource[i], breakdown.PerResource[j]
		if a.ResourceName != b.ResourceName {
			return a.ResourceName < b.ResourceName
		}
		return a.ResourceID.String() < b.ResourceID.String()
	})

	return breakdown, nil
}

// ruleUnits computes one rule's unit consumption at the given quantity and
// applies the rule's rounding mode.
func ruleUnits(rule Rule, quantity float64) (float64, error) {
	var raw float64
	switch rule.Type {
	case RuleFixedPerParent:
		raw = rule.Quantity
	case RulePerProductUnit:
		raw = rule.Quantity * quantity
	case RulePerRatio:
		if rule.RatioBase == nil || *rule.RatioBase == 0 {
			return 0, fmt.Errorf("%w: resource %s", ErrZeroRatioBase, rule.ResourceID)
		}
		raw = rule.Quantity * quantity / *rule.RatioBase
	default:
		return 0, fmt.Errorf("unknown rule type %q", rule.Type)
	}
	return applyRounding(raw, rule.Rounding), nil
}

func applyRounding(value float64, mode RoundingMode) float64 {
	switch mode {
	case RoundCeil:
		return math.Ceil(value)
	case RoundFloor:
		return math.Floor(value)
	case RoundHalf:
		return math.Round(value)
	default:
		return value
	}
}

// roundCents converts a fractional cent amount to whole cents, half away
// from zero.
func roundCents(value float64) int64 {
	return int64(math.Round(value))
}

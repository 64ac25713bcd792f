// Package selection validates candidate bundle selections against group
// cardinality constraints. It is pure: callers use it both before persisting
// an event item configuration and as a read-only catalog sanity check.
package selection

import (
	"fmt"

	"github.com/google/uuid"
)

// Group is a cardinality-constrained set of interchangeable bundle options.
type Group struct {
	ID        uuid.UUID
	Name      string
	MinSelect int
	// MaxSelect is nil when the group has no upper bound.
	MaxSelect *int
}

// Component is one selectable (or fixed) child of a bundle.
type Component struct {
	ID uuid.UUID
	// GroupID is nil for fixed components, which are always included and
	// never count toward any group's totals.
	GroupID  *uuid.UUID
	Quantity float64
}

// Selection is a candidate choice for one component.
type Selection struct {
	ComponentID uuid.UUID
	Quantity    float64
	Selected    bool
}

// Violation describes one group whose cardinality constraint the candidate
// selection breaks.
type Violation struct {
	GroupID   uuid.UUID `json:"groupId"`
	GroupName string    `json:"groupName"`
	Reason    string    `json:"reason"`
}

// Validate checks the candidate selections against every group independently
// and returns the complete list of violations in group order. An empty result
// means the selection is admissible.
//
// A selection with Selected=false or quantity <= 0 counts as zero. A group
// with MinSelect 0 is satisfied by no selections; a nil MaxSelect never
// produces an upper-bound violation.
func Validate(groups []Group, components []Component, selections []Selection) []Violation {
	selectedQty := make(map[uuid.UUID]float64, len(selections))
	for _, sel := range selections {
		if !sel.Selected || sel.Quantity <= 0 {
			continue
		}
		selectedQty[sel.ComponentID] += sel.Quantity
	}

	var violations []Violation
	for _, group := range groups {
		var total float64
		for _, comp := range components {
			if comp.GroupID == nil || *comp.GroupID != group.ID {
				continue
			}
			total += selectedQty[comp.ID]
		}

		if total < float64(group.MinSelect) {
			violations = append(violations, Violation{
				GroupID:   group.ID,
				GroupName: group.Name,
				Reason:    fmt.Sprintf("select at least %d", group.MinSelect),
			})
		}
		if group.MaxSelect != nil && total > float64(*group.MaxSelect) {
			violations = append(violations, Violation{
				GroupID:   group.ID,
				GroupName: group.Name,
				Reason:    fmt.Sprintf("select at most %d", *group.MaxSelect),
			})
		}
	}

	return violations
}

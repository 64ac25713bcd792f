package selection

import (
	"testing"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func TestValidateReportsAllViolatedGroups(t *testing.T) {
	menuGroup := Group{ID: uuid.New(), Name: "Menu", MinSelect: 1, MaxSelect: intPtr(1)}
	sideGroup := Group{ID: uuid.New(), Name: "Sides", MinSelect: 2, MaxSelect: intPtr(3)}

	beef := Component{ID: uuid.New(), GroupID: &menuGroup.ID, Quantity: 1}
	fish := Component{ID: uuid.New(), GroupID: &menuGroup.ID, Quantity: 1}
	fries := Component{ID: uuid.New(), GroupID: &sideGroup.ID, Quantity: 1}

	violations := Validate(
		[]Group{menuGroup, sideGroup},
		[]Component{beef, fish, fries},
		nil,
	)

	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(violations), violations)
	}
	if violations[0].GroupName != "Menu" || violations[0].Reason != "select at least 1" {
		t.Fatalf("unexpected first violation: %+v", violations[0])
	}
	if violations[1].GroupName != "Sides" || violations[1].Reason != "select at least 2" {
		t.Fatalf("unexpected second violation: %+v", violations[1])
	}
}

func TestValidateBoundaries(t *testing.T) {
	group := Group{ID: uuid.New(), Name: "Mains", MinSelect: 1, MaxSelect: intPtr(3)}
	a := Component{ID: uuid.New(), GroupID: &group.ID, Quantity: 1}
	b := Component{ID: uuid.New(), GroupID: &group.ID, Quantity: 1}
	c := Component{ID: uuid.New(), GroupID: &group.ID, Quantity: 1}
	d := Component{ID: uuid.New(), GroupID: &group.ID, Quantity: 1}
	components := []Component{a, b, c, d}

	tests := []struct {
		name       string
		selections []Selection
		wantReason string
	}{
		{
			name:       "below minimum",
			selections: nil,
			wantReason: "select at least 1",
		},
		{
			name:       "at minimum",
			selections: []Selection{{ComponentID: a.ID, Quantity: 1, Selected: true}},
		},
		{
			name: "at maximum",
			selections: []Selection{
				{ComponentID: a.ID, Quantity: 1, Selected: true},
				{ComponentID: b.ID, Quantity: 1, Selected: true},
				{ComponentID: c.ID, Quantity: 1, Selected: true},
			},
		},
		{
			name: "above maximum",
			selections: []Selection{
				{ComponentID: a.ID, Quantity: 1, Selected: true},
				{ComponentID: b.ID, Quantity: 1, Selected: true},
				{ComponentID: c.ID, Quantity: 1, Selected: true},
				{ComponentID: d.ID, Quantity: 1, Selected: true},
			},
			wantReason: "select at most 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Validate([]Group{group}, components, tt.selections)
			if tt.wantReason == "" {
				if len(violations) != 0 {
					t.Fatalf("expected no violations, got %v", violations)
				}
				return
			}
			if len(violations) != 1 {
				t.Fatalf("expected 1 violation, got %d: %v", len(violations), violations)
			}
			if violations[0].Reason != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, violations[0].Reason)
			}
		})
	}
}

func TestValidateQuantitiesCountTowardGroupTotal(t *testing.T) {
	group := Group{ID: uuid.New(), Name: "Drinks", MinSelect: 0, MaxSelect: intPtr(2)}
	soda := Component{ID: uuid.New(), GroupID: &group.ID, Quantity: 1}

	violations := Validate(
		[]Group{group},
		[]Component{soda},
		[]Selection{{ComponentID: soda.ID, Quantity: 3, Selected: true}},
	)

	if len(violations) != 1 || violations[0].Reason != "select at most 2" {
		t.Fatalf("expected quantity sum to exceed maximum, got %v", violations)
	}
}

func TestValidateIgnoresDeselectedAndFixedComponents(t *testing.T) {
	group := Group{ID: uuid.New(), Name: "Mains", MinSelect: 1, MaxSelect: intPtr(1)}
	chicken := Component{ID: uuid.New(), GroupID: &group.ID, Quantity: 1}
	bread := Component{ID: uuid.New(), GroupID: nil, Quantity: 1}

	violations := Validate(
		[]Group{group},
		[]Component{chicken, bread},
		[]Selection{
			{ComponentID: chicken.ID, Quantity: 1, Selected: true},
			{ComponentID: bread.ID, Quantity: 5, Selected: true},
			{ComponentID: chicken.ID, Quantity: 2, Selected: false},
		},
	)

	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestValidateUnboundedGroupNeverViolatesMaximum(t *testing.T) {
	group := Group{ID: uuid.New(), Name: "Extras", MinSelect: 0, MaxSelect: nil}
	comp := Component{ID: uuid.New(), GroupID: &group.ID, Quantity: 1}

	violations := Validate(
		[]Group{group},
		[]Component{comp},
		[]Selection{{ComponentID: comp.ID, Quantity: 500, Selected: true}},
	)

	if len(violations) != 0 {
		t.Fatalf("expected no violations for unbounded group, got %v", violations)
	}
}

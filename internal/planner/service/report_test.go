package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"caterops_backend/internal/planner/repository"
	"caterops_backend/platform/logger"
)

func (f *fakeRepo) ListPhases(_ context.Context, _, eventID uuid.UUID) ([]repository.Phase, error) {
	out := make([]repository.Phase, 0)
	for _, phase := range f.phases {
		if phase.EventID == eventID {
			out = append(out, phase)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListItems(_ context.Context, _, phaseID uuid.UUID) ([]repository.Item, error) {
	out := make([]repository.Item, 0)
	for _, item := range f.items {
		if item.EventPhaseID == phaseID {
			out = append(out, item)
		}
	}
	return out, nil
}

func TestEventCostReportResolvesGuestCountsPerPhase(t *testing.T) {
	workspaceID := uuid.New()
	catalog, bundleID, _, _ := menuBundle()
	repo := newFakeRepo()

	event := repository.Event{ID: uuid.New(), WorkspaceID: workspaceID, DefaultGuestCount: intPtr(120)}
	repo.events[event.ID] = event

	inheriting := repository.Phase{
		ID: uuid.New(), WorkspaceID: workspaceID, EventID: event.ID,
		Name: "Dinner", GuestCountMode: "inherit",
	}
	overridden := repository.Phase{
		ID: uuid.New(), WorkspaceID: workspaceID, EventID: event.ID,
		Name: "Party", GuestCountMode: "override", GuestCountOverride: intPtr(80),
	}
	repo.phases[inheriting.ID] = inheriting
	repo.phases[overridden.ID] = overridden

	for _, phaseID := range []uuid.UUID{inheriting.ID, overridden.ID} {
		item := repository.Item{
			ID: uuid.New(), WorkspaceID: workspaceID, EventPhaseID: phaseID,
			ProductID: bundleID, ProductName: "Menu", ProductType: "bundle",
			Quantity: 1, QuantitySource: "guests", PricingMode: "per_unit", BasePriceCents: 100,
		}
		repo.items[item.ID] = item
	}

	svc := New(repo, catalog, logger.New("test"))

	report, err := svc.EventCostReport(context.Background(), workspaceID, event.ID)
	if err != nil {
		t.Fatalf("EventCostReport failed: %v", err)
	}

	quantities := make(map[string]float64)
	for _, phase := range report.Phases {
		if len(phase.Items) != 1 {
			t.Fatalf("expected 1 item in phase %s, got %d", phase.PhaseName, len(phase.Items))
		}
		quantities[phase.PhaseName] = phase.Items[0].EffectiveQuantity
	}

	if quantities["Dinner"] != 120 {
		t.Fatalf("expected inheriting phase to resolve 120 guests, got %v", quantities["Dinner"])
	}
	if quantities["Party"] != 80 {
		t.Fatalf("expected overriding phase to resolve 80 guests, got %v", quantities["Party"])
	}
	if report.TotalPriceCents != 120*100+80*100 {
		t.Fatalf("unexpected total price: %d", report.TotalPriceCents)
	}
	if len(report.UnresolvableItemIDs) != 0 {
		t.Fatalf("expected no unresolvable items, got %v", report.UnresolvableItemIDs)
	}
}

func TestEventCostReportReportsUnresolvableItems(t *testing.T) {
	workspaceID := uuid.New()
	catalog, bundleID, _, _ := menuBundle()
	repo := newFakeRepo()

	// No guest count anywhere.
	event := repository.Event{ID: uuid.New(), WorkspaceID: workspaceID}
	phase := repository.Phase{ID: uuid.New(), WorkspaceID: workspaceID, EventID: event.ID, Name: "Dinner", GuestCountMode: "inherit"}
	item := repository.Item{
		ID: uuid.New(), WorkspaceID: workspaceID, EventPhaseID: phase.ID,
		ProductID: bundleID, ProductType: "bundle", Quantity: 1, QuantitySource: "guests",
	}
	repo.events[event.ID] = event
	repo.phases[phase.ID] = phase
	repo.items[item.ID] = item

	svc := New(repo, catalog, logger.New("test"))

	report, err := svc.EventCostReport(context.Background(), workspaceID, event.ID)
	if err != nil {
		t.Fatalf("EventCostReport failed: %v", err)
	}
	if len(report.UnresolvableItemIDs) != 1 || report.UnresolvableItemIDs[0] != item.ID {
		t.Fatalf("expected item %s to be reported unresolvable, got %v", item.ID, report.UnresolvableItemIDs)
	}
	if report.TotalCostCents != 0 || report.TotalPriceCents != 0 {
		t.Fatal("unresolvable items must not contribute to totals")
	}
}

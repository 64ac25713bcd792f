package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	catalogtransport "caterops_backend/internal/catalog/transport"
	"caterops_backend/internal/planner/repository"
	"caterops_backend/internal/planner/transport"
	"caterops_backend/platform/apperr"
	"caterops_backend/platform/logger"
)

// fakeRepo embeds the interface so only the methods a test exercises need
// implementations.
type fakeRepo struct {
	repository.Repository

	events map[uuid.UUID]repository.Event
	phases map[uuid.UUID]repository.Phase
	items  map[uuid.UUID]repository.Item

	savedComponents map[uuid.UUID][]repository.ComponentRow
	replaceCalls    int

	added *repository.AddItemParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events:          make(map[uuid.UUID]repository.Event),
		phases:          make(map[uuid.UUID]repository.Phase),
		items:           make(map[uuid.UUID]repository.Item),
		savedComponents: make(map[uuid.UUID][]repository.ComponentRow),
	}
}

func (f *fakeRepo) GetEvent(_ context.Context, _, id uuid.UUID) (repository.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return repository.Event{}, apperr.NotFound("event not found")
	}
	return event, nil
}

func (f *fakeRepo) GetPhase(_ context.Context, _, id uuid.UUID) (repository.Phase, error) {
	phase, ok := f.phases[id]
	if !ok {
		return repository.Phase{}, apperr.NotFound("phase not found")
	}
	return phase, nil
}

func (f *fakeRepo) GetItem(_ context.Context, _, id uuid.UUID) (repository.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return repository.Item{}, apperr.NotFound("item not found")
	}
	return item, nil
}

func (f *fakeRepo) AddItem(_ context.Context, params repository.AddItemParams) (repository.Item, error) {
	f.added = &params
	item := repository.Item{
		ID:             uuid.New(),
		WorkspaceID:    params.WorkspaceID,
		EventPhaseID:   params.EventPhaseID,
		ProductID:      params.ProductID,
		Quantity:       params.Quantity,
		QuantitySource: params.QuantitySource,
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeRepo) ReplaceItemComponents(_ context.Context, _, itemID uuid.UUID, rows []repository.ComponentRow) error {
	f.replaceCalls++
	f.savedComponents[itemID] = rows
	return nil
}

func (f *fakeRepo) ListItemComponents(_ context.Context, _ uuid.UUID, itemIDs []uuid.UUID) ([]repository.ItemComponent, error) {
	out := make([]repository.ItemComponent, 0)
	for _, itemID := range itemIDs {
		for _, row := range f.savedComponents[itemID] {
			out = append(out, repository.ItemComponent{
				ID:                 uuid.New(),
				EventPhaseItemID:   itemID,
				ComponentProductID: row.ComponentProductID,
				GroupID:            row.GroupID,
				Quantity:           row.Quantity,
				Selected:           row.Selected,
			})
		}
	}
	return out, nil
}

// fakeCatalog serves a single bundle definition and validates selections the
// same way the catalog module does.
type fakeCatalog struct {
	products map[uuid.UUID]catalogtransport.ProductResponse
	def      catalogtransport.BundleDefinitionResponse
}

func (f *fakeCatalog) GetProduct(_ context.Context, _, id uuid.UUID) (catalogtransport.ProductResponse, error) {
	product, ok := f.products[id]
	if !ok {
		return catalogtransport.ProductResponse{}, apperr.NotFound("product not found")
	}
	return product, nil
}

func (f *fakeCatalog) GetBundleDefinition(_ context.Context, _, _ uuid.UUID) (catalogtransport.BundleDefinitionResponse, error) {
	return f.def, nil
}

func (f *fakeCatalog) ValidateSelection(_ context.Context, _, _ uuid.UUID, components []catalogtransport.ConfigurationComponent) (catalogtransport.ValidationResponse, error) {
	selected := make(map[uuid.UUID]float64)
	for _, comp := range components {
		if comp.Selected && comp.Quantity > 0 {
			selected[comp.ComponentID] += comp.Quantity
		}
	}

	var violations []catalogtransport.ViolationResponse
	for _, group := range f.def.Groups {
		var total float64
		for _, comp := range f.def.Components {
			if comp.GroupID != nil && *comp.GroupID == group.ID {
				total += selected[comp.ID]
			}
		}
		if total < float64(group.MinSelect) {
			violations = append(violations, catalogtransport.ViolationResponse{
				GroupID: group.ID, GroupName: group.Name, Reason: "select at least 1",
			})
		}
		if group.MaxSelect != nil && total > float64(*group.MaxSelect) {
			violations = append(violations, catalogtransport.ViolationResponse{
				GroupID: group.ID, GroupName: group.Name, Reason: "select at most 1",
			})
		}
	}
	return catalogtransport.ValidationResponse{Valid: len(violations) == 0, Violations: violations}, nil
}

func (f *fakeCatalog) ResolveProductCost(_ context.Context, _, productID uuid.UUID, qty float64) (catalogtransport.CostBreakdownResponse, error) {
	return catalogtransport.CostBreakdownResponse{ProductID: productID, Quantity: qty}, nil
}

func (f *fakeCatalog) ResolveCostForSnapshot(_ context.Context, _, productID uuid.UUID, qty float64, _ []catalogtransport.SnapshotComponent) (catalogtransport.CostBreakdownResponse, error) {
	return catalogtransport.CostBreakdownResponse{ProductID: productID, Quantity: qty}, nil
}

func (f *fakeCatalog) ListCompatibleProducts(_ context.Context, _, _ uuid.UUID) ([]catalogtransport.ProductResponse, error) {
	return nil, nil
}

func intPtr(v int) *int { return &v }

// menuBundle builds a Menu bundle with one "Mains" group (choose exactly 1)
// holding Beef and Fish.
func menuBundle() (*fakeCatalog, uuid.UUID, uuid.UUID, uuid.UUID) {
	bundleID := uuid.New()
	groupID := uuid.New()
	beefEdge := uuid.New()
	fishEdge := uuid.New()

	catalog := &fakeCatalog{
		products: map[uuid.UUID]catalogtransport.ProductResponse{
			bundleID: {
				ID: bundleID, Name: "Menu", ProductType: "bundle", ProductRole: "sellable",
				IsActive: true, DefaultQuantitySource: "guests",
			},
		},
		def: catalogtransport.BundleDefinitionResponse{
			ProductID: bundleID,
			Groups: []catalogtransport.BundleGroupResponse{
				{ID: groupID, Name: "Mains", MinSelect: 1, MaxSelect: intPtr(1)},
			},
			Components: []catalogtransport.BundleComponentResponse{
				{ID: beefEdge, ChildProductID: uuid.New(), ChildName: "Beef", GroupID: &groupID, Quantity: 1},
				{ID: fishEdge, ChildProductID: uuid.New(), ChildName: "Fish", GroupID: &groupID, Quantity: 1},
			},
		},
	}
	return catalog, bundleID, beefEdge, fishEdge
}

func seedBundleItem(repo *fakeRepo, workspaceID, bundleID uuid.UUID) repository.Item {
	event := repository.Event{ID: uuid.New(), WorkspaceID: workspaceID, DefaultGuestCount: intPtr(40)}
	phase := repository.Phase{ID: uuid.New(), WorkspaceID: workspaceID, EventID: event.ID, GuestCountMode: "inherit"}
	item := repository.Item{
		ID: uuid.New(), WorkspaceID: workspaceID, EventPhaseID: phase.ID,
		ProductID: bundleID, ProductName: "Menu", ProductType: "bundle",
		Quantity: 40, QuantitySource: "guests", PricingMode: "per_unit",
	}
	repo.events[event.ID] = event
	repo.phases[phase.ID] = phase
	repo.items[item.ID] = item
	return item
}

func TestSaveConfigurationRoundTrip(t *testing.T) {
	workspaceID := uuid.New()
	catalog, bundleID, beefEdge, fishEdge := menuBundle()
	repo := newFakeRepo()
	item := seedBundleItem(repo, workspaceID, bundleID)
	svc := New(repo, catalog, logger.New("test"))

	// Selecting both mains breaks the choose-exactly-one constraint.
	_, err := svc.SaveConfiguration(context.Background(), workspaceID, item.ID, transport.SaveConfigurationRequest{
		Components: []catalogtransport.ConfigurationComponent{
			{ComponentID: beefEdge, Quantity: 1, Selected: true},
			{ComponentID: fishEdge, Quantity: 1, Selected: true},
		},
	})
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected unprocessable error, got %v", err)
	}
	if len(repo.savedComponents[item.ID]) != 0 {
		t.Fatal("rejected configuration must not be persisted")
	}

	// Deselecting fish makes the selection admissible.
	resp, err := svc.SaveConfiguration(context.Background(), workspaceID, item.ID, transport.SaveConfigurationRequest{
		Components: []catalogtransport.ConfigurationComponent{
			{ComponentID: beefEdge, Quantity: 1, Selected: true},
			{ComponentID: fishEdge, Quantity: 1, Selected: false},
		},
	})
	if err != nil {
		t.Fatalf("SaveConfiguration failed: %v", err)
	}
	if len(resp.Components) != 1 {
		t.Fatalf("expected 1 stored component, got %d", len(resp.Components))
	}
	if resp.Components[0].ProductName != "" && resp.Components[0].ProductName != "Beef" {
		t.Fatalf("unexpected stored component: %+v", resp.Components[0])
	}
	rows := repo.savedComponents[item.ID]
	if len(rows) != 1 || !rows[0].Selected || rows[0].Quantity != 1 {
		t.Fatalf("unexpected persisted rows: %+v", rows)
	}
}

func TestSaveConfigurationIsIdempotent(t *testing.T) {
	workspaceID := uuid.New()
	catalog, bundleID, beefEdge, _ := menuBundle()
	repo := newFakeRepo()
	item := seedBundleItem(repo, workspaceID, bundleID)
	svc := New(repo, catalog, logger.New("test"))

	req := transport.SaveConfigurationRequest{
		Components: []catalogtransport.ConfigurationComponent{
			{ComponentID: beefEdge, Quantity: 1, Selected: true},
		},
	}

	if _, err := svc.SaveConfiguration(context.Background(), workspaceID, item.ID, req); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	first := repo.savedComponents[item.ID]

	if _, err := svc.SaveConfiguration(context.Background(), workspaceID, item.ID, req); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	second := repo.savedComponents[item.ID]

	if repo.replaceCalls != 2 {
		t.Fatalf("expected 2 replace calls, got %d", repo.replaceCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("saving twice must yield identical rows: %+v vs %+v", first, second)
	}
}

func TestSaveConfigurationRejectsNonBundle(t *testing.T) {
	workspaceID := uuid.New()
	catalog, bundleID, _, _ := menuBundle()
	repo := newFakeRepo()
	item := seedBundleItem(repo, workspaceID, bundleID)
	item.ProductType = "single"
	repo.items[item.ID] = item
	svc := New(repo, catalog, logger.New("test"))

	_, err := svc.SaveConfiguration(context.Background(), workspaceID, item.ID, transport.SaveConfigurationRequest{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemInitializesQuantityFromGuests(t *testing.T) {
	workspaceID := uuid.New()
	catalog, bundleID, _, _ := menuBundle()
	repo := newFakeRepo()

	event := repository.Event{ID: uuid.New(), WorkspaceID: workspaceID, DefaultGuestCount: intPtr(75)}
	phase := repository.Phase{ID: uuid.New(), WorkspaceID: workspaceID, EventID: event.ID, GuestCountMode: "inherit"}
	repo.events[event.ID] = event
	repo.phases[phase.ID] = phase

	svc := New(repo, catalog, logger.New("test"))

	resp, err := svc.AddItem(context.Background(), workspaceID, phase.ID, transport.AddItemRequest{ProductID: bundleID})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if repo.added.Quantity != 75 {
		t.Fatalf("expected stored quantity 75, got %v", repo.added.Quantity)
	}
	if repo.added.QuantitySource != "guests" {
		t.Fatalf("expected product default source, got %q", repo.added.QuantitySource)
	}
	if resp.EffectiveQuantity == nil || *resp.EffectiveQuantity != 75 {
		t.Fatalf("expected effective quantity 75, got %v", resp.EffectiveQuantity)
	}
}

func TestAddItemRejectsComponentProducts(t *testing.T) {
	workspaceID := uuid.New()
	componentID := uuid.New()
	catalog := &fakeCatalog{
		products: map[uuid.UUID]catalogtransport.ProductResponse{
			componentID: {ID: componentID, ProductType: "single", ProductRole: "component", IsActive: true},
		},
	}
	repo := newFakeRepo()
	event := repository.Event{ID: uuid.New(), WorkspaceID: workspaceID}
	phase := repository.Phase{ID: uuid.New(), WorkspaceID: workspaceID, EventID: event.ID, GuestCountMode: "inherit"}
	repo.events[event.ID] = event
	repo.phases[phase.ID] = phase
	svc := New(repo, catalog, logger.New("test"))

	_, err := svc.AddItem(context.Background(), workspaceID, phase.ID, transport.AddItemRequest{ProductID: componentID})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestItemPriceCents(t *testing.T) {
	override := int64(2000)
	perUnit := "per_unit"

	tests := []struct {
		name      string
		item      repository.Item
		effective float64
		want      int64
	}{
		{
			name:      "fixed pricing charges once",
			item:      repository.Item{PricingMode: "fixed", BasePriceCents: 50000},
			effective: 80,
			want:      50000,
		},
		{
			name:      "per unit pricing scales",
			item:      repository.Item{PricingMode: "per_unit", BasePriceCents: 1250},
			effective: 80,
			want:      100000,
		},
		{
			name:      "price override wins",
			item:      repository.Item{PricingMode: "per_unit", BasePriceCents: 1250, UnitPriceOverrideCents: &override},
			effective: 10,
			want:      20000,
		},
		{
			name:      "mode override wins",
			item:      repository.Item{PricingMode: "fixed", BasePriceCents: 1250, PricingModeOverride: &perUnit},
			effective: 4,
			want:      5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := itemPriceCents(tt.item, tt.effective); got != tt.want {
				t.Fatalf("expected %d cents, got %d", tt.want, got)
			}
		})
	}
}

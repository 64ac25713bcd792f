package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"caterops_backend/internal/catalog/repository"
	"caterops_backend/internal/catalog/transport"
	"caterops_backend/platform/apperr"
	"caterops_backend/platform/logger"
)

// fakeRepo embeds the interface so only the methods a test exercises need
// implementations.
type fakeRepo struct {
	repository.Repository

	products map[uuid.UUID]repository.Product
	edges    []repository.Edge
	def      repository.BundleDefinition
	rules    []repository.ConsumptionRule
	replaced *repository.ReplaceBundleDefinitionParams
}

func (f *fakeRepo) GetProduct(_ context.Context, _, id uuid.UUID) (repository.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return repository.Product{}, apperr.NotFound("product not found")
	}
	return product, nil
}

func (f *fakeRepo) ListComponentEdges(_ context.Context, _ uuid.UUID) ([]repository.Edge, error) {
	return f.edges, nil
}

func (f *fakeRepo) GetBundleDefinition(_ context.Context, _, _ uuid.UUID) (repository.BundleDefinition, error) {
	return f.def, nil
}

func (f *fakeRepo) ReplaceBundleDefinition(_ context.Context, params repository.ReplaceBundleDefinitionParams) error {
	f.replaced = &params
	return nil
}

func (f *fakeRepo) ListConsumptionRules(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]repository.ConsumptionRule, error) {
	return f.rules, nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("test"))
}

func bundleProduct(id uuid.UUID) repository.Product {
	return repository.Product{ID: id, ProductType: "bundle", IsActive: true}
}

func singleProduct(id uuid.UUID) repository.Product {
	return repository.Product{ID: id, ProductType: "single", IsActive: true}
}

func TestDefineBundleRejectsDirectCycle(t *testing.T) {
	workspaceID := uuid.New()
	parent := uuid.New()
	child := uuid.New()

	repo := &fakeRepo{
		products: map[uuid.UUID]repository.Product{
			parent: bundleProduct(parent),
			child:  bundleProduct(child),
		},
		// The child already contains the parent.
		edges: []repository.Edge{{ParentID: child, ChildID: parent}},
	}
	svc := newTestService(repo)

	_, err := svc.DefineBundle(context.Background(), workspaceID, parent, transport.DefineBundleRequest{
		Components: []transport.ComponentDefinition{{ChildProductID: child, Quantity: 1}},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle rejection, got %v", err)
	}
	if repo.replaced != nil {
		t.Fatal("definition must not be persisted when rejected")
	}
}

func TestDefineBundleRejectsTransitiveCycle(t *testing.T) {
	workspaceID := uuid.New()
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	repo := &fakeRepo{
		products: map[uuid.UUID]repository.Product{
			a: bundleProduct(a), b: bundleProduct(b), c: bundleProduct(c),
		},
		// b -> c -> a already exists; adding a -> b closes the loop.
		edges: []repository.Edge{
			{ParentID: b, ChildID: c},
			{ParentID: c, ChildID: a},
		},
	}
	svc := newTestService(repo)

	_, err := svc.DefineBundle(context.Background(), workspaceID, a, transport.DefineBundleRequest{
		Components: []transport.ComponentDefinition{{ChildProductID: b, Quantity: 1}},
	})
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected transitive cycle rejection, got %v", err)
	}
}

func TestDefineBundleAllowsReplacingOwnEdges(t *testing.T) {
	workspaceID := uuid.New()
	parent := uuid.New()
	oldChild := uuid.New()
	newChild := uuid.New()

	repo := &fakeRepo{
		products: map[uuid.UUID]repository.Product{
			parent:   bundleProduct(parent),
			oldChild: singleProduct(oldChild),
			newChild: singleProduct(newChild),
		},
		// The parent's own existing edges are replaced, not accumulated.
		edges: []repository.Edge{{ParentID: parent, ChildID: oldChild}},
	}
	svc := newTestService(repo)

	_, err := svc.DefineBundle(context.Background(), workspaceID, parent, transport.DefineBundleRequest{
		Components: []transport.ComponentDefinition{{ChildProductID: newChild, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("DefineBundle failed: %v", err)
	}
	if repo.replaced == nil {
		t.Fatal("expected definition to be persisted")
	}
	if len(repo.replaced.Components) != 1 || repo.replaced.Components[0].ChildProductID != newChild {
		t.Fatalf("unexpected persisted components: %+v", repo.replaced.Components)
	}
}

func TestDefineBundleRejectsSelfReference(t *testing.T) {
	workspaceID := uuid.New()
	parent := uuid.New()

	repo := &fakeRepo{products: map[uuid.UUID]repository.Product{parent: bundleProduct(parent)}}
	svc := newTestService(repo)

	_, err := svc.DefineBundle(context.Background(), workspaceID, parent, transport.DefineBundleRequest{
		Components: []transport.ComponentDefinition{{ChildProductID: parent, Quantity: 1}},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDefineBundleRejectsInvalidGroupRange(t *testing.T) {
	workspaceID := uuid.New()
	parent := uuid.New()

	repo := &fakeRepo{products: map[uuid.UUID]repository.Product{parent: bundleProduct(parent)}}
	svc := newTestService(repo)

	maxSelect := 1
	_, err := svc.DefineBundle(context.Background(), workspaceID, parent, transport.DefineBundleRequest{
		Groups: []transport.GroupDefinition{
			{Key: "mains", Name: "Mains", MinSelect: 2, MaxSelect: &maxSelect},
		},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.replaced != nil {
		t.Fatal("definition must not be persisted when rejected")
	}
}

func TestDefineBundleRejectsNonBundleProduct(t *testing.T) {
	workspaceID := uuid.New()
	product := uuid.New()

	repo := &fakeRepo{products: map[uuid.UUID]repository.Product{product: singleProduct(product)}}
	svc := newTestService(repo)

	_, err := svc.DefineBundle(context.Background(), workspaceID, product, transport.DefineBundleRequest{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDefineBundleRejectsArchivedChild(t *testing.T) {
	workspaceID := uuid.New()
	parent := uuid.New()
	child := uuid.New()

	archived := singleProduct(child)
	archived.Name = "Retired canape"
	archived.IsActive = false

	repo := &fakeRepo{
		products: map[uuid.UUID]repository.Product{
			parent: bundleProduct(parent),
			child:  archived,
		},
	}
	svc := newTestService(repo)

	_, err := svc.DefineBundle(context.Background(), workspaceID, parent, transport.DefineBundleRequest{
		Components: []transport.ComponentDefinition{{ChildProductID: child, Quantity: 1}},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Retired canape") {
		t.Fatalf("expected error to name the archived product, got %v", err)
	}
	if repo.replaced != nil {
		t.Fatal("definition must not be persisted when rejected")
	}
}

func TestDefineBundleRejectsUnknownGroupKey(t *testing.T) {
	workspaceID := uuid.New()
	parent := uuid.New()
	child := uuid.New()

	repo := &fakeRepo{
		products: map[uuid.UUID]repository.Product{
			parent: bundleProduct(parent),
			child:  singleProduct(child),
		},
	}
	svc := newTestService(repo)

	groupKey := "missing"
	_, err := svc.DefineBundle(context.Background(), workspaceID, parent, transport.DefineBundleRequest{
		Components: []transport.ComponentDefinition{
			{ChildProductID: child, GroupKey: &groupKey, Quantity: 1},
		},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

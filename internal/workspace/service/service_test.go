package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"caterops_backend/internal/events"
	"caterops_backend/internal/workspace/repository"
	"caterops_backend/internal/workspace/transport"
	"caterops_backend/platform/logger"
)

type fakeRepo struct {
	repository.Repository

	created []string
}

func (f *fakeRepo) Create(_ context.Context, name string) (repository.Workspace, error) {
	f.created = append(f.created, name)
	return repository.Workspace{ID: uuid.New(), Name: name}, nil
}

func TestCreatePublishesSeedEventBeforeReturning(t *testing.T) {
	repo := &fakeRepo{}
	bus := events.NewInMemoryBus(logger.New("test"))

	var seeded []uuid.UUID
	bus.Subscribe(events.WorkspaceCreated{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		created := event.(events.WorkspaceCreated)
		seeded = append(seeded, created.WorkspaceID)
		return nil
	}))

	svc := New(repo, bus, logger.New("test"))

	resp, err := svc.Create(context.Background(), transport.CreateWorkspaceRequest{Name: "  Catering Noord  "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Synchronous publish: seeding has happened by the time Create returns.
	if len(seeded) != 1 || seeded[0] != resp.ID {
		t.Fatalf("expected one seed event for workspace %s, got %v", resp.ID, seeded)
	}
	if len(repo.created) != 1 || repo.created[0] != "Catering Noord" {
		t.Fatalf("expected trimmed name persisted, got %v", repo.created)
	}
}

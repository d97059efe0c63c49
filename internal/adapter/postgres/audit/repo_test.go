package audit_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/audit"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/testhelper"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// newRepo is a test helper that sets up the DB and returns a ready Repo.
func newRepo(t *testing.T) (*audit.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return audit.New(pool), pool
}

func TestRepo_CreateAndListByEntity(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)
	entityID := uuid.New()

	err := repo.Create(ctx, &domain.AuditRecord{
		UserID:     seeded.ID,
		EntityType: domain.EntityTypeRecord,
		EntityID:   &entityID,
		Action:     domain.AuditActionUpdate,
		Changes:    map[string]any{"title": "new title"},
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.ListByEntity(ctx, domain.EntityTypeRecord, entityID, 10)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	entry := got[0]
	if entry.Action != domain.AuditActionUpdate {
		t.Errorf("Action: got %s, want UPDATE", entry.Action)
	}
	if entry.Changes["title"] != "new title" {
		t.Errorf("Changes not round-tripped: %v", entry.Changes)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestRepo_Create_NilChanges(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)
	entityID := uuid.New()

	err := repo.Create(ctx, &domain.AuditRecord{
		UserID:     seeded.ID,
		EntityType: domain.EntityTypeRecord,
		EntityID:   &entityID,
		Action:     domain.AuditActionDelete,
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.ListByEntity(ctx, domain.EntityTypeRecord, entityID, 10)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Changes != nil {
		t.Errorf("Changes should be nil, got %v", got[0].Changes)
	}
}

func TestRepo_ListByEntity_NewestFirst(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)
	entityID := uuid.New()

	for _, action := range []domain.AuditAction{domain.AuditActionCreate, domain.AuditActionUpdate} {
		if err := repo.Create(ctx, &domain.AuditRecord{
			UserID:     seeded.ID,
			EntityType: domain.EntityTypeRecord,
			EntityID:   &entityID,
			Action:     action,
		}); err != nil {
			t.Fatalf("Create %s: %v", action, err)
		}
	}

	got, err := repo.ListByEntity(ctx, domain.EntityTypeRecord, entityID, 10)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Error("entries should be ordered newest first")
	}
}

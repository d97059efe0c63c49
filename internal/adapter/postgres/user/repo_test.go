package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/testhelper"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/user"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// newRepo is a test helper that sets up the DB and returns a ready Repo.
func newRepo(t *testing.T) (*user.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool), pool
}

// ---------------------------------------------------------------------------
// Create + Get
// ---------------------------------------------------------------------------

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	suffix := uuid.New().String()[:8]
	hash := "bcrypt-hash-" + suffix
	got, err := repo.Create(ctx, &domain.User{
		ID:    uuid.New(),
		Email: "create-" + suffix + "@example.com",
		Name:  "Create Test",
		Role:  domain.UserRoleUser,
	}, &hash)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.Role != domain.UserRoleUser {
		t.Errorf("Role: got %s, want USER", got.Role)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}

	storedHash, err := repo.GetPasswordHash(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetPasswordHash: %v", err)
	}
	if storedHash != hash {
		t.Errorf("password hash mismatch: got %q", storedHash)
	}
}

func TestRepo_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	existing := testhelper.SeedUser(t, pool)

	_, err := repo.Create(ctx, &domain.User{
		ID:    uuid.New(),
		Email: existing.Email,
		Name:  "Duplicate",
		Role:  domain.UserRoleUser,
	}, nil)
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

func TestRepo_GetByID_WithManagerAndTeam(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	manager := testhelper.SeedUser(t, pool, testhelper.WithRole(domain.UserRoleManager))
	teamID := uuid.New()
	seeded := testhelper.SeedUser(t, pool,
		testhelper.WithManager(manager.ID),
		testhelper.WithTeam(teamID),
	)

	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ManagerID == nil || *got.ManagerID != manager.ID {
		t.Errorf("ManagerID: got %v, want %s", got.ManagerID, manager.ID)
	}
	if got.TeamID == nil || *got.TeamID != teamID {
		t.Errorf("TeamID: got %v, want %s", got.TeamID, teamID)
	}
}

func TestRepo_GetByEmail_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByEmail(context.Background(), "missing-"+uuid.New().String()[:8]+"@example.com")
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_GetPasswordHash_NoPassword(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	// Seeded users have no password hash.
	seeded := testhelper.SeedUser(t, pool)
	_, err := repo.GetPasswordHash(context.Background(), seeded.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// UpdateRole
// ---------------------------------------------------------------------------

func TestRepo_UpdateRole_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)

	got, err := repo.UpdateRole(ctx, seeded.ID, domain.UserRoleManager)
	if err != nil {
		t.Fatalf("UpdateRole: unexpected error: %v", err)
	}
	if got.Role != domain.UserRoleManager {
		t.Errorf("Role: got %s, want MANAGER", got.Role)
	}

	stored, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Role != domain.UserRoleManager {
		t.Errorf("persisted Role: got %s, want MANAGER", stored.Role)
	}
}

func TestRepo_UpdateRole_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.UpdateRole(context.Background(), uuid.New(), domain.UserRoleAdmin)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Preferences
// ---------------------------------------------------------------------------

func TestRepo_GetPreferences_DefaultWhenMissing(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	// No row at all: defaults apply (enrichment on).
	userID := uuid.New()
	got, err := repo.GetPreferences(ctx, userID)
	if err != nil {
		t.Fatalf("GetPreferences: unexpected error: %v", err)
	}
	if !got.AIEnrichmentEnabled {
		t.Error("default preferences should enable enrichment")
	}
	if got.UserID != userID {
		t.Errorf("UserID: got %s, want %s", got.UserID, userID)
	}
}

func TestRepo_UpsertPreferences_OptOutRoundTrip(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)

	prefs := domain.UserPreferences{UserID: seeded.ID, AIEnrichmentEnabled: false}
	if err := repo.UpsertPreferences(ctx, prefs); err != nil {
		t.Fatalf("UpsertPreferences: unexpected error: %v", err)
	}

	got, err := repo.GetPreferences(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.AIEnrichmentEnabled {
		t.Error("opt-out was not persisted")
	}

	// Opting back in updates the existing row.
	prefs.AIEnrichmentEnabled = true
	if err := repo.UpsertPreferences(ctx, prefs); err != nil {
		t.Fatalf("UpsertPreferences (second): %v", err)
	}
	got, err = repo.GetPreferences(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetPreferences (second): %v", err)
	}
	if !got.AIEnrichmentEnabled {
		t.Error("opt-in was not persisted")
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestRepo_List_Pagination(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	for range 3 {
		testhelper.SeedUser(t, pool)
	}

	page, err := repo.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected page of 2, got %d", len(page))
	}
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func assertIsDomainError(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got: %v", target, err)
	}
}

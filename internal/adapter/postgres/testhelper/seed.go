package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UserOption mutates a seeded user before it is inserted.
type UserOption func(*domain.User)

// WithRole sets the seeded user's role.
func WithRole(role domain.UserRole) UserOption {
	return func(u *domain.User) { u.Role = role }
}

// WithManager sets the seeded user's manager.
func WithManager(managerID uuid.UUID) UserOption {
	return func(u *domain.User) { u.ManagerID = &managerID }
}

// WithTeam sets the seeded user's team.
func WithTeam(teamID uuid.UUID) UserOption {
	return func(u *domain.User) { u.TeamID = &teamID }
}

// SeedUser creates a user with default preferences. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool, opts ...UserOption) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		Name:      "Test User " + suffix,
		Role:      domain.UserRoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&user)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role, manager_id, team_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.Name, string(user.Role), user.ManagerID, user.TeamID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, ai_enrichment_enabled, updated_at)
		 VALUES ($1, $2, $3)`,
		user.ID, true, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user_preferences: %v", err)
	}

	return user
}

// SeedRecord creates a record owned by ownerID with the given visibility.
// Returns a fully populated domain.Record at revision 1.
func SeedRecord(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, visibility domain.Visibility) domain.Record {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := domain.Record{
		ID:         uuid.New(),
		Type:       domain.RecordTypePOV,
		OwnerID:    ownerID,
		Visibility: visibility,
		Title:      "Test Record " + suffix,
		Payload:    map[string]any{"objective": "seeded-" + suffix},
		Revision:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	payload, err := json.Marshal(record.Payload)
	if err != nil {
		t.Fatalf("testhelper: SeedRecord marshal payload: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO records (id, type, owner_id, visibility, title, payload, annotations, revision, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb, $7, $8, $9)`,
		record.ID, string(record.Type), record.OwnerID, string(record.Visibility),
		record.Title, payload, record.Revision, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRecord insert record: %v", err)
	}

	return record
}

// SeedSuggestion creates a suggestion row in the given status for a record.
func SeedSuggestion(t *testing.T, pool *pgxpool.Pool, recordID uuid.UUID, kind domain.SuggestionKind, status domain.SuggestionStatus) domain.Suggestion {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.Suggestion{
		ID:        uuid.New(),
		RecordID:  recordID,
		Kind:      kind,
		Status:    status,
		InputHash: "seed-" + uniqueSuffix(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var payload []byte
	if status == domain.SuggestionStatusReady {
		s.Payload = map[string]any{"summary": "seeded suggestion"}
		generatedAt := now
		s.GeneratedAt = &generatedAt
		raw, err := json.Marshal(s.Payload)
		if err != nil {
			t.Fatalf("testhelper: SeedSuggestion marshal payload: %v", err)
		}
		payload = raw
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO suggestions (id, record_id, kind, status, input_hash, payload, generated_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.RecordID, string(s.Kind), string(s.Status), s.InputHash, payload, s.GeneratedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSuggestion insert: %v", err)
	}

	return s
}

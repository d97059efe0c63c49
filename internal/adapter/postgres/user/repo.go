// Package user implements the user and preferences repository using
// PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

const (
	table            = "users"
	preferencesTable = "user_preferences"
)

var columns = []string{
	"id", "email", "name", "role", "manager_id", "team_id", "created_at", "updated_at",
}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, id)
}

// GetByEmail returns a user by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email}, uuid.Nil)
}

func (r *Repo) getBy(ctx context.Context, where squirrel.Eq, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("user.getBy build query: %w", err)
	}

	u, err := scanUser(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// Create inserts a new user and returns the persisted row.
// passwordHash may be nil for users provisioned without password login.
func (r *Repo) Create(ctx context.Context, u *domain.User, passwordHash *string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "email", "name", "role", "manager_id", "team_id", "password_hash").
		Values(u.ID, u.Email, u.Name, u.Role, u.ManagerID, u.TeamID, passwordHash).
		Suffix("RETURNING " + allColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("user.Create build query: %w", err)
	}

	created, err := scanUser(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}
	return created, nil
}

// GetPasswordHash returns the stored bcrypt hash for a user, or
// domain.ErrNotFound if the user has no password login.
func (r *Repo) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var hash *string
	err := q.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", id).Scan(&hash)
	if err != nil {
		return "", postgres.MapError(err, "user", id)
	}
	if hash == nil {
		return "", fmt.Errorf("user %s: password hash: %w", id, domain.ErrNotFound)
	}
	return *hash, nil
}

// UpdateRole sets a user's role. The caller is responsible for enforcing
// that only admins reach this operation.
func (r *Repo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("role", role).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + allColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("user.UpdateRole build query: %w", err)
	}

	u, err := scanUser(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// List returns users ordered by email with pagination.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("email ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("user.List build query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of users.
func (r *Repo) Count(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&total); err != nil {
		return 0, postgres.MapError(err, "user", uuid.Nil)
	}
	return total, nil
}

// GetPreferences returns a user's background AI preferences. A user with no
// stored row gets the defaults (enrichment enabled).
func (r *Repo) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.UserPreferences, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("user_id", "ai_enrichment_enabled", "updated_at").
		From(preferencesTable).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("user.GetPreferences build query: %w", err)
	}

	var prefs domain.UserPreferences
	err = q.QueryRow(ctx, sql, args...).Scan(&prefs.UserID, &prefs.AIEnrichmentEnabled, &prefs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultUserPreferences(userID), nil
		}
		return domain.UserPreferences{}, postgres.MapError(err, "user_preferences", userID)
	}
	return prefs, nil
}

// UpsertPreferences stores a user's background AI preferences.
func (r *Repo) UpsertPreferences(ctx context.Context, prefs domain.UserPreferences) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(preferencesTable).
		Columns("user_id", "ai_enrichment_enabled").
		Values(prefs.UserID, prefs.AIEnrichmentEnabled).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			ai_enrichment_enabled = EXCLUDED.ai_enrichment_enabled,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("user.UpsertPreferences build query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "user_preferences", prefs.UserID)
	}
	return nil
}

func allColumns() string {
	out := ""
	for i, c := range columns {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.ManagerID, &u.TeamID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

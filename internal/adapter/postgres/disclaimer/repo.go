// Package disclaimer implements the disclaimer acknowledgment repository
// using PostgreSQL. Rows are insert-once per (user, policy version).
package disclaimer

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

const table = "disclaimer_acknowledgments"

// Repo provides acknowledgment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new disclaimer repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Exists reports whether the user has acknowledged exactly this policy
// version. An acknowledgment of any other version does not count.
func (r *Repo) Exists(ctx context.Context, userID uuid.UUID, policyVersion string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM disclaimer_acknowledgments WHERE user_id = $1 AND policy_version = $2)`,
		userID, policyVersion,
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "disclaimer_acknowledgment", userID)
	}
	return exists, nil
}

// Create records an acknowledgment. Idempotent: acknowledging the same
// version twice is not an error and never mutates the original row.
func (r *Repo) Create(ctx context.Context, ack domain.DisclaimerAcknowledgment) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "policy_version").
		Values(ack.UserID, ack.PolicyVersion).
		Suffix("ON CONFLICT (user_id, policy_version) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("disclaimer.Create build query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "disclaimer_acknowledgment", ack.UserID)
	}
	return nil
}

// ListByUser returns all versions a user has acknowledged, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DisclaimerAcknowledgment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("user_id", "policy_version", "acknowledged_at").
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("acknowledged_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("disclaimer.ListByUser build query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "disclaimer_acknowledgment", userID)
	}
	defer rows.Close()

	var out []domain.DisclaimerAcknowledgment
	for rows.Next() {
		var ack domain.DisclaimerAcknowledgment
		if err := rows.Scan(&ack.UserID, &ack.PolicyVersion, &ack.AcknowledgedAt); err != nil {
			return nil, err
		}
		out = append(out, ack)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Package audit implements the audit-log repository using PostgreSQL.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

const table = "audit_log"

// Repo provides append-only audit-log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create appends a new audit entry. Entries are immutable after insert.
func (r *Repo) Create(ctx context.Context, rec *domain.AuditRecord) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var changes []byte
	if rec.Changes != nil {
		raw, err := json.Marshal(rec.Changes)
		if err != nil {
			return fmt.Errorf("audit.Create marshal changes: %w", err)
		}
		changes = raw
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "user_id", "entity_type", "entity_id", "action", "changes").
		Values(uuid.New(), rec.UserID, rec.EntityType, rec.EntityID, rec.Action, changes).
		ToSql()
	if err != nil {
		return fmt.Errorf("audit.Create build query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "audit_record", rec.UserID)
	}
	return nil
}

// ListByEntity returns audit entries for a specific entity, newest first.
func (r *Repo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("id", "user_id", "entity_type", "entity_id", "action", "changes", "created_at").
		From(table).
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("audit.ListByEntity build query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "audit_record", entityID)
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		var (
			rec        domain.AuditRecord
			entityType string
			action     string
			changes    []byte
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &entityType, &rec.EntityID, &action, &changes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit.ListByEntity scan: %w", err)
		}
		rec.EntityType = domain.EntityType(entityType)
		rec.Action = domain.AuditAction(action)
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &rec.Changes); err != nil {
				return nil, fmt.Errorf("audit.ListByEntity unmarshal changes: %w", err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "audit_record", entityID)
	}
	return out, nil
}

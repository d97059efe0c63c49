// Package suggestion implements the suggestion repository using PostgreSQL.
// A suggestion's identity is the (record_id, kind) pair: Upsert supersedes
// the existing row in place, so at most one live suggestion exists per pair.
package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

const table = "suggestions"

var columns = []string{
	"id", "record_id", "kind", "status", "input_hash",
	"payload", "error_message", "generated_at", "created_at", "updated_at",
}

// Repo provides suggestion persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new suggestion repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Upsert creates or supersedes the suggestion for (recordID, kind), resetting
// it to PENDING with the given input hash. The row id is stable across
// supersessions.
func (r *Repo) Upsert(ctx context.Context, recordID uuid.UUID, kind domain.SuggestionKind, inputHash string) (*domain.Suggestion, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "record_id", "kind", "status", "input_hash").
		Values(uuid.New(), recordID, kind, domain.SuggestionStatusPending, inputHash).
		Suffix(`ON CONFLICT (record_id, kind) DO UPDATE SET
			status = EXCLUDED.status,
			input_hash = EXCLUDED.input_hash,
			payload = NULL,
			error_message = NULL,
			generated_at = NULL,
			updated_at = now()
		RETURNING ` + allColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("suggestion.Upsert build query: %w", err)
	}

	s, err := scanSuggestion(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "suggestion", recordID)
	}
	return s, nil
}

// GetByRecordAndKind returns the suggestion for (recordID, kind).
func (r *Repo) GetByRecordAndKind(ctx context.Context, recordID uuid.UUID, kind domain.SuggestionKind) (*domain.Suggestion, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"record_id": recordID, "kind": kind}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("suggestion.GetByRecordAndKind build query: %w", err)
	}

	s, err := scanSuggestion(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "suggestion", recordID)
	}
	return s, nil
}

// ListByRecordAndStatus returns suggestions for a record filtered by status,
// ordered by kind for stable output.
func (r *Repo) ListByRecordAndStatus(ctx context.Context, recordID uuid.UUID, status domain.SuggestionStatus) ([]domain.Suggestion, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"record_id": recordID, "status": status}).
		OrderBy("kind ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("suggestion.ListByRecordAndStatus build query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "suggestion", recordID)
	}
	defer rows.Close()

	return scanSuggestions(rows)
}

// MarkReady transitions a suggestion to READY with its computed payload.
// The transition is guarded on the input hash so a stale computation whose
// work was superseded mid-flight cannot clobber the newer pending row.
func (r *Repo) MarkReady(ctx context.Context, id uuid.UUID, inputHash string, payload map[string]any) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("suggestion.MarkReady marshal payload: %w", err)
	}

	sql, args, err := postgres.Builder().
		Update(table).
		Set("status", domain.SuggestionStatusReady).
		Set("payload", raw).
		Set("error_message", nil).
		Set("generated_at", time.Now().UTC()).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "input_hash": inputHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("suggestion.MarkReady build query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "suggestion", id)
	}
	if tag.RowsAffected() == 0 {
		// The row was superseded or deleted while the computation ran.
		return fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MarkFailed transitions a suggestion to FAILED with an error message,
// guarded on the input hash like MarkReady.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, inputHash string, errMsg string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("status", domain.SuggestionStatusFailed).
		Set("error_message", errMsg).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "input_hash": inputHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("suggestion.MarkFailed build query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "suggestion", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetStats returns aggregate suggestion counts by status.
func (r *Repo) GetStats(ctx context.Context) (domain.SuggestionQueueStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	const sql = `SELECT
		count(*) FILTER (WHERE status = 'PENDING') AS pending,
		count(*) FILTER (WHERE status = 'READY')   AS ready,
		count(*) FILTER (WHERE status = 'FAILED')  AS failed,
		count(*)                                   AS total
	FROM suggestions`

	var stats domain.SuggestionQueueStats
	err := q.QueryRow(ctx, sql).Scan(&stats.Pending, &stats.Ready, &stats.Failed, &stats.Total)
	if err != nil {
		return domain.SuggestionQueueStats{}, postgres.MapError(err, "suggestion", uuid.Nil)
	}
	return stats, nil
}

// ListByStatus returns suggestions in the given status with pagination,
// oldest first. Used by admin endpoints.
func (r *Repo) ListByStatus(ctx context.Context, status domain.SuggestionStatus, limit, offset int) ([]domain.Suggestion, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": status}).
		OrderBy("updated_at ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("suggestion.ListByStatus build query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "suggestion", uuid.Nil)
	}
	defer rows.Close()

	return scanSuggestions(rows)
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

func scanSuggestion(row pgx.Row) (*domain.Suggestion, error) {
	var (
		s       domain.Suggestion
		payload []byte
	)
	err := row.Scan(
		&s.ID, &s.RecordID, &s.Kind, &s.Status, &s.InputHash,
		&payload, &s.ErrorMessage, &s.GeneratedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		if err := json.Unmarshal(payload, &s.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	return &s, nil
}

func scanSuggestions(rows pgx.Rows) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

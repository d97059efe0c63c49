// Package record implements the engagement record repository using
// PostgreSQL. Revision-checked mutations are single-statement conditional
// writes, never read-then-write pairs.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

const table = "records"

var columns = []string{
	"id", "type", "owner_id", "visibility", "title",
	"payload", "annotations", "revision", "created_at", "updated_at",
}

// Repo provides record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new record repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new record with revision 1 and returns the persisted row.
func (r *Repo) Create(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	payload, annotations, err := marshalJSONFields(rec.Payload, rec.Annotations)
	if err != nil {
		return nil, fmt.Errorf("record.Create: %w", err)
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "type", "owner_id", "visibility", "title", "payload", "annotations", "revision").
		Values(rec.ID, rec.Type, rec.OwnerID, rec.Visibility, rec.Title, payload, annotations, 1).
		Suffix("RETURNING " + allColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.Create build query: %w", err)
	}

	created, err := scanRecord(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "record", rec.ID)
	}
	return created, nil
}

// GetByID returns a record by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.GetByID build query: %w", err)
	}

	rec, err := scanRecord(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "record", id)
	}
	return rec, nil
}

// ListByOwner returns records owned by the given user, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.ListByOwner build query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "record", ownerID)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// UpdateWithRevision applies a full-field patch if and only if the stored
// revision equals patch.ExpectedRevision, incrementing the revision by one.
// The compare-and-set is a single UPDATE statement; two concurrent callers
// with the same expected revision cannot both succeed. On mismatch it
// returns a domain.ConflictError carrying the actual revision; on a missing
// row it returns domain.ErrNotFound.
func (r *Repo) UpdateWithRevision(ctx context.Context, id uuid.UUID, patch domain.RecordPatch) (*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	update := postgres.Builder().
		Update(table).
		Set("revision", squirrel.Expr("revision + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "revision": patch.ExpectedRevision}).
		Suffix("RETURNING " + allColumns())

	if patch.Title != nil {
		update = update.Set("title", *patch.Title)
	}
	if patch.Visibility != nil {
		update = update.Set("visibility", *patch.Visibility)
	}
	if len(patch.Payload) > 0 {
		raw, err := json.Marshal(patch.Payload)
		if err != nil {
			return nil, fmt.Errorf("record.UpdateWithRevision marshal payload: %w", err)
		}
		update = update.Set("payload", raw)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.UpdateWithRevision build query: %w", err)
	}

	rec, err := scanRecord(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, id, patch.ExpectedRevision)
		}
		return nil, postgres.MapError(err, "record", id)
	}
	return rec, nil
}

// AppendAnnotation appends a single annotation under the same revision
// discipline as UpdateWithRevision.
func (r *Repo) AppendAnnotation(ctx context.Context, id uuid.UUID, ann domain.Annotation, expectedRevision int64) (*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	raw, err := json.Marshal(ann)
	if err != nil {
		return nil, fmt.Errorf("record.AppendAnnotation marshal: %w", err)
	}

	sql, args, err := postgres.Builder().
		Update(table).
		Set("annotations", squirrel.Expr("annotations || ?::jsonb", raw)).
		Set("revision", squirrel.Expr("revision + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "revision": expectedRevision}).
		Suffix("RETURNING " + allColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.AppendAnnotation build query: %w", err)
	}

	rec, err := scanRecord(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, id, expectedRevision)
		}
		return nil, postgres.MapError(err, "record", id)
	}
	return rec, nil
}

// Delete removes a record; suggestions cascade via FK.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("record.Delete build query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "record", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// conflictOrNotFound distinguishes a failed CAS from a missing row. The probe
// is for error reporting only; the CAS itself already happened atomically.
func (r *Repo) conflictOrNotFound(ctx context.Context, id uuid.UUID, expected int64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var actual int64
	err := q.QueryRow(ctx, "SELECT revision FROM records WHERE id = $1", id).Scan(&actual)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
		}
		return postgres.MapError(err, "record", id)
	}
	return fmt.Errorf("record %s: %w", id, domain.NewConflictError(expected, actual))
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

func marshalJSONFields(payload map[string]any, annotations []domain.Annotation) ([]byte, []byte, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	if annotations == nil {
		annotations = []domain.Annotation{}
	}
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal payload: %w", err)
	}
	a, err := json.Marshal(annotations)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal annotations: %w", err)
	}
	return p, a, nil
}

func scanRecord(row pgx.Row) (*domain.Record, error) {
	var (
		rec         domain.Record
		payload     []byte
		annotations []byte
	)
	err := row.Scan(
		&rec.ID, &rec.Type, &rec.OwnerID, &rec.Visibility, &rec.Title,
		&payload, &annotations, &rec.Revision, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &rec.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := json.Unmarshal(annotations, &rec.Annotations); err != nil {
		return nil, fmt.Errorf("unmarshal annotations: %w", err)
	}
	return &rec, nil
}

func scanRecords(rows pgx.Rows) ([]domain.Record, error) {
	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/access"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// Mutate applies a full-field mutation to a record under optimistic
// concurrency control. The write is a single conditional UPDATE against the
// expected revision; a mismatch surfaces as domain.ConflictError and is never
// retried server-side. The caller must re-fetch and resubmit with fresh
// intent.
func (s *Service) Mutate(ctx context.Context, recordID uuid.UUID, input MutateInput) (*domain.Record, error) {
	actor, err := s.loadActor(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	ac, _, err := s.loadAccessContext(ctx, actor, recordID)
	if err != nil {
		return nil, fmt.Errorf("gateway.Mutate: %w", err)
	}

	if err := s.authorize(ctx, ac, access.ActionWrite); err != nil {
		return nil, err
	}

	var updated *domain.Record
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.records.UpdateWithRevision(txCtx, recordID, input.patch())
		if err != nil {
			return fmt.Errorf("update record: %w", err)
		}

		changes := map[string]any{
			"revision": updated.Revision,
		}
		if input.Title != nil {
			changes["title"] = *input.Title
		}
		if input.Visibility != nil {
			changes["visibility"] = input.Visibility.String()
		}
		if len(input.Payload) > 0 {
			changes["payload_updated"] = true
		}

		return s.audit.Create(txCtx, &domain.AuditRecord{
			UserID:     actor.ID,
			EntityType: domain.EntityTypeRecord,
			EntityID:   &recordID,
			Action:     domain.AuditActionUpdate,
			Changes:    changes,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("gateway.Mutate: %w", err)
	}

	s.publishEvent(domain.WorkflowEventRecordUpdated, updated)

	s.log.InfoContext(ctx, "record updated",
		slog.String("record_id", recordID.String()),
		slog.Int64("revision", updated.Revision),
	)
	return updated, nil
}

// Annotate appends a comment-level annotation under the same revision
// discipline as Mutate. Managers may annotate shared records they cannot
// fully edit.
func (s *Service) Annotate(ctx context.Context, recordID uuid.UUID, input AnnotateInput) (*domain.Record, error) {
	actor, err := s.loadActor(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	ac, _, err := s.loadAccessContext(ctx, actor, recordID)
	if err != nil {
		return nil, fmt.Errorf("gateway.Annotate: %w", err)
	}

	if err := s.authorize(ctx, ac, access.ActionAnnotate); err != nil {
		return nil, err
	}

	ann := domain.Annotation{
		ID:        uuid.New(),
		AuthorID:  actor.ID,
		Text:      input.Text,
		CreatedAt: time.Now(),
	}

	var updated *domain.Record
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.records.AppendAnnotation(txCtx, recordID, ann, input.ExpectedRevision)
		if err != nil {
			return fmt.Errorf("append annotation: %w", err)
		}

		return s.audit.Create(txCtx, &domain.AuditRecord{
			UserID:     actor.ID,
			EntityType: domain.EntityTypeRecord,
			EntityID:   &recordID,
			Action:     domain.AuditActionAnnotate,
			Changes: map[string]any{
				"annotation_id": ann.ID.String(),
				"revision":      updated.Revision,
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("gateway.Annotate: %w", err)
	}

	s.publishEvent(domain.WorkflowEventRecordUpdated, updated)

	s.log.InfoContext(ctx, "record annotated",
		slog.String("record_id", recordID.String()),
		slog.Int64("revision", updated.Revision),
	)
	return updated, nil
}

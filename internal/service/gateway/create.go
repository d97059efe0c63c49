package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// Create inserts a new record owned by the authenticated user at revision 1,
// writes an audit entry, and publishes a created event for enrichment.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Record, error) {
	actor, err := s.loadActor(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &domain.Record{
		ID:         uuid.New(),
		Type:       input.Type,
		OwnerID:    actor.ID,
		Visibility: input.Visibility,
		Title:      input.Title,
		Payload:    input.Payload,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var created *domain.Record
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, err = s.records.Create(txCtx, rec)
		if err != nil {
			return fmt.Errorf("create record: %w", err)
		}

		return s.audit.Create(txCtx, &domain.AuditRecord{
			UserID:     actor.ID,
			EntityType: domain.EntityTypeRecord,
			EntityID:   &created.ID,
			Action:     domain.AuditActionCreate,
			Changes: map[string]any{
				"type":       created.Type.String(),
				"title":      created.Title,
				"visibility": created.Visibility.String(),
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("gateway.Create: %w", err)
	}

	s.publishEvent(domain.WorkflowEventRecordCreated, created)

	s.log.InfoContext(ctx, "record created",
		slog.String("record_id", created.ID.String()),
		slog.String("type", created.Type.String()),
	)
	return created, nil
}

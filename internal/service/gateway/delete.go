package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/access"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// Delete removes a record and, via cascade, every suggestion attached to it.
// Deletion requires full write access.
func (s *Service) Delete(ctx context.Context, recordID uuid.UUID) error {
	actor, err := s.loadActor(ctx)
	if err != nil {
		return err
	}

	ac, rec, err := s.loadAccessContext(ctx, actor, recordID)
	if err != nil {
		return fmt.Errorf("gateway.Delete: %w", err)
	}

	if err := s.authorize(ctx, ac, access.ActionWrite); err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.records.Delete(txCtx, recordID); err != nil {
			return fmt.Errorf("delete record: %w", err)
		}

		return s.audit.Create(txCtx, &domain.AuditRecord{
			UserID:     actor.ID,
			EntityType: domain.EntityTypeRecord,
			EntityID:   &recordID,
			Action:     domain.AuditActionDelete,
			Changes: map[string]any{
				"title": rec.Title,
				"type":  rec.Type.String(),
			},
		})
	})
	if err != nil {
		return fmt.Errorf("gateway.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "record deleted",
		slog.String("record_id", recordID.String()),
	)
	return nil
}

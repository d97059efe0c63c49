package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/access"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// Fetch returns the merged view of a record: the record plus its READY
// suggestions. Suggestions are withheld when the actor has not acknowledged
// the current AI content policy; the record itself is always returned on an
// allowed read.
func (s *Service) Fetch(ctx context.Context, recordID uuid.UUID) (*View, error) {
	actor, err := s.loadActor(ctx)
	if err != nil {
		return nil, err
	}

	ac, rec, err := s.loadAccessContext(ctx, actor, recordID)
	if err != nil {
		return nil, fmt.Errorf("gateway.Fetch: %w", err)
	}

	if err := s.authorize(ctx, ac, access.ActionRead); err != nil {
		return nil, err
	}

	acknowledged, err := s.disclaimer.HasCurrentAcknowledgment(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("gateway.Fetch disclaimer: %w", err)
	}

	view := &View{
		Record:             rec,
		Suggestions:        []domain.Suggestion{},
		DisclaimerRequired: !acknowledged,
	}
	if !acknowledged {
		return view, nil
	}

	suggestions, err := s.suggestions.ListByRecordAndStatus(ctx, recordID, domain.SuggestionStatusReady)
	if err != nil {
		return nil, fmt.Errorf("gateway.Fetch suggestions: %w", err)
	}
	if suggestions != nil {
		view.Suggestions = suggestions
	}

	return view, nil
}

// ListMine returns records owned by the authenticated user, newest first.
// Suggestions are not merged on list reads.
func (s *Service) ListMine(ctx context.Context, limit, offset int) ([]domain.Record, error) {
	actor, err := s.loadActor(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.records.ListByOwner(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("gateway.ListMine: %w", err)
	}
	return records, nil
}

package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/pkg/ctxutil"
)

// GetPreferences returns the authenticated user's background AI preferences.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) GetPreferences(ctx context.Context) (domain.UserPreferences, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.UserPreferences{}, domain.ErrUnauthorized
	}

	prefs, err := s.users.GetPreferences(ctx, userID)
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("user.GetPreferences: %w", err)
	}

	return prefs, nil
}

// SetAIEnrichment opts the authenticated user in or out of background AI
// enrichment. Opting out only stops future computations; suggestions already
// computed stay visible.
func (s *Service) SetAIEnrichment(ctx context.Context, enabled bool) (domain.UserPreferences, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.UserPreferences{}, domain.ErrUnauthorized
	}

	prefs := domain.UserPreferences{UserID: userID, AIEnrichmentEnabled: enabled}
	if err := s.users.UpsertPreferences(ctx, prefs); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("user.SetAIEnrichment: %w", err)
	}

	s.log.InfoContext(ctx, "ai enrichment preference updated",
		slog.String("user_id", userID.String()),
		slog.Bool("enabled", enabled),
	)

	return prefs, nil
}

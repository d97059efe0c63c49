package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/pkg/ctxutil"
)

// SetUserRole changes the role of a user (admin only). The change and an
// audit record are committed together.
func (s *Service) SetUserRole(ctx context.Context, targetUserID uuid.UUID, role domain.UserRole) (*domain.User, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}

	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "invalid role: must be 'USER', 'MANAGER' or 'ADMIN'")
	}

	// Prevent an admin from demoting themselves.
	callerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if callerID == targetUserID && role != domain.UserRoleAdmin {
		return nil, domain.NewValidationError("role", "cannot demote yourself")
	}

	var updated *domain.User
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.users.GetByID(txCtx, targetUserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		user, err := s.users.UpdateRole(txCtx, targetUserID, role)
		if err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		updated = user

		rec := domain.AuditRecord{
			ID:         uuid.New(),
			UserID:     callerID,
			EntityType: domain.EntityTypeUser,
			EntityID:   &targetUserID,
			Action:     domain.AuditActionRoleChange,
			Changes: map[string]any{
				"role": map[string]any{"old": current.Role.String(), "new": role.String()},
			},
			CreatedAt: time.Now().UTC(),
		}
		if err := s.audit.Create(txCtx, &rec); err != nil {
			return fmt.Errorf("create audit record: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("user.SetUserRole: %w", err)
	}

	s.log.InfoContext(ctx, "user role updated",
		slog.String("target_user_id", targetUserID.String()),
		slog.String("new_role", role.String()),
	)

	return updated, nil
}

// ListUsers returns a paginated list of all users (admin only).
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, 0, domain.ErrForbidden
	}

	if limit <= 0 {
		limit = 50
	}

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("user.ListUsers: %w", err)
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("user.ListUsers count: %w", err)
	}

	return users, total, nil
}

// Package disclaimer gates AI-generated content behind an explicit policy
// acknowledgment.
package disclaimer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/pkg/ctxutil"
)

// ackRepo defines the acknowledgment repository interface needed by the service.
type ackRepo interface {
	Exists(ctx context.Context, userID uuid.UUID, policyVersion string) (bool, error)
	Create(ctx context.Context, ack domain.DisclaimerAcknowledgment) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DisclaimerAcknowledgment, error)
}

// Service enforces the AI-content disclaimer policy. policyVersion is the
// currently active version; acknowledgments of any other version never
// satisfy the gate.
type Service struct {
	log           *slog.Logger
	acks          ackRepo
	policyVersion string
}

// NewService creates a new disclaimer service for the given active policy version.
func NewService(logger *slog.Logger, acks ackRepo, policyVersion string) *Service {
	return &Service{
		log:           logger.With("service", "disclaimer"),
		acks:          acks,
		policyVersion: policyVersion,
	}
}

// PolicyVersion returns the currently active policy version.
func (s *Service) PolicyVersion() string {
	return s.policyVersion
}

// Status reports whether the authenticated user has acknowledged the current
// policy version.
func (s *Service) Status(ctx context.Context) (acknowledged bool, version string, err error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, "", domain.ErrUnauthorized
	}

	acknowledged, err = s.acks.Exists(ctx, userID, s.policyVersion)
	if err != nil {
		return false, "", fmt.Errorf("disclaimer.Status: %w", err)
	}
	return acknowledged, s.policyVersion, nil
}

// Acknowledge records the authenticated user's acceptance of a policy
// version. The submitted version must match the active one exactly, so a
// client that cached a stale policy text cannot acknowledge the new one by
// accident. Repeat acknowledgments are no-ops.
func (s *Service) Acknowledge(ctx context.Context, version string) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if version != s.policyVersion {
		return domain.NewValidationError("policy_version",
			fmt.Sprintf("expected %q, got %q", s.policyVersion, version))
	}

	err := s.acks.Create(ctx, domain.DisclaimerAcknowledgment{
		UserID:        userID,
		PolicyVersion: version,
	})
	if err != nil {
		return fmt.Errorf("disclaimer.Acknowledge: %w", err)
	}

	s.log.InfoContext(ctx, "disclaimer acknowledged",
		slog.String("user_id", userID.String()),
		slog.String("policy_version", version),
	)
	return nil
}

// HasCurrentAcknowledgment reports whether a user has acknowledged the
// active policy version. Used by read paths that must decide whether to
// surface AI-generated content.
func (s *Service) HasCurrentAcknowledgment(ctx context.Context, userID uuid.UUID) (bool, error) {
	ok, err := s.acks.Exists(ctx, userID, s.policyVersion)
	if err != nil {
		return false, fmt.Errorf("disclaimer.HasCurrentAcknowledgment: %w", err)
	}
	return ok, nil
}

// History returns every acknowledgment the authenticated user has made.
func (s *Service) History(ctx context.Context) ([]domain.DisclaimerAcknowledgment, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	acks, err := s.acks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("disclaimer.History: %w", err)
	}
	return acks, nil
}

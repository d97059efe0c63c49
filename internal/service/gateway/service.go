// Package gateway is the single entry point for engagement record reads and
// writes. Every operation resolves the actor and the record, runs the access
// policy, and only then touches storage. Reads merge in READY suggestions
// behind the disclaimer gate; writes are revision-checked, audited, and
// published to the enrichment orchestrator as workflow events.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/access"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/pkg/ctxutil"
)

// recordRepo defines the record repository interface needed by the gateway.
type recordRepo interface {
	Create(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Record, error)
	UpdateWithRevision(ctx context.Context, id uuid.UUID, patch domain.RecordPatch) (*domain.Record, error)
	AppendAnnotation(ctx context.Context, id uuid.UUID, ann domain.Annotation, expectedRevision int64) (*domain.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// userRepo defines the user repository interface needed by the gateway.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// suggestionRepo defines the suggestion repository interface needed by the gateway.
type suggestionRepo interface {
	ListByRecordAndStatus(ctx context.Context, recordID uuid.UUID, status domain.SuggestionStatus) ([]domain.Suggestion, error)
}

// auditRepo defines the audit log interface needed by the gateway.
type auditRepo interface {
	Create(ctx context.Context, rec *domain.AuditRecord) error
}

// txManager defines the transaction manager interface needed by the gateway.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// disclaimerGate reports whether a user may see AI-generated content.
type disclaimerGate interface {
	HasCurrentAcknowledgment(ctx context.Context, userID uuid.UUID) (bool, error)
}

// eventPublisher delivers workflow events to the enrichment orchestrator.
// Publish must never block a request.
type eventPublisher interface {
	Publish(event domain.WorkflowEvent)
}

// Service implements the record gateway operations.
type Service struct {
	log         *slog.Logger
	records     recordRepo
	users       userRepo
	suggestions suggestionRepo
	audit       auditRepo
	tx          txManager
	disclaimer  disclaimerGate
	events      eventPublisher
}

// NewService creates a new gateway service instance.
func NewService(
	logger *slog.Logger,
	records recordRepo,
	users userRepo,
	suggestions suggestionRepo,
	audit auditRepo,
	tx txManager,
	disclaimer disclaimerGate,
	events eventPublisher,
) *Service {
	return &Service{
		log:         logger.With("service", "gateway"),
		records:     records,
		users:       users,
		suggestions: suggestions,
		audit:       audit,
		tx:          tx,
		disclaimer:  disclaimer,
		events:      events,
	}
}

// loadActor resolves the authenticated user from the request context.
func (s *Service) loadActor(ctx context.Context) (*domain.User, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Token outlived the account.
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}
	return actor, nil
}

// loadAccessContext resolves the record and its owner and builds the policy
// context for the given actor.
func (s *Service) loadAccessContext(ctx context.Context, actor *domain.User, recordID uuid.UUID) (access.Context, *domain.Record, error) {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return access.Context{}, nil, fmt.Errorf("load record: %w", err)
	}

	owner, err := s.users.GetByID(ctx, rec.OwnerID)
	if err != nil {
		return access.Context{}, nil, fmt.Errorf("load record owner: %w", err)
	}

	return access.Context{Actor: *actor, Record: *rec, Owner: *owner}, rec, nil
}

// authorize runs the access policy and converts a denial into ErrForbidden.
// The denial reason is logged, never surfaced; the transport layer collapses
// ErrForbidden and ErrNotFound into the same response so callers cannot
// probe for record existence.
func (s *Service) authorize(ctx context.Context, ac access.Context, action access.Action) error {
	decision := access.Decide(ac, action)
	if decision.Allowed {
		return nil
	}

	s.log.InfoContext(ctx, "access denied",
		slog.String("actor_id", ac.Actor.ID.String()),
		slog.String("record_id", ac.Record.ID.String()),
		slog.String("action", string(action)),
		slog.String("reason", decision.Reason),
	)
	return domain.ErrForbidden
}

// publishEvent hands a record change to the orchestrator. The payload map is
// shared with the record; events are treated as read-only downstream.
func (s *Service) publishEvent(eventType domain.WorkflowEventType, rec *domain.Record) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.WorkflowEvent{
		Type:       eventType,
		RecordID:   rec.ID,
		RecordType: rec.Type,
		OwnerID:    rec.OwnerID,
		Title:      rec.Title,
		Payload:    rec.Payload,
		OccurredAt: rec.UpdatedAt,
	})
}

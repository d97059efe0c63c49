package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

var (
	_ recordRepo     = &recordRepoMock{}
	_ userRepo       = &userRepoMock{}
	_ suggestionRepo = &suggestionRepoMock{}
	_ auditRepo      = &auditRepoMock{}
	_ txManager      = &txManagerMock{}
	_ disclaimerGate = &disclaimerGateMock{}
	_ eventPublisher = &eventPublisherMock{}
)

type recordRepoMock struct {
	CreateFunc             func(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	ListByOwnerFunc        func(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Record, error)
	UpdateWithRevisionFunc func(ctx context.Context, id uuid.UUID, patch domain.RecordPatch) (*domain.Record, error)
	AppendAnnotationFunc   func(ctx context.Context, id uuid.UUID, ann domain.Annotation, expectedRevision int64) (*domain.Record, error)
	DeleteFunc             func(ctx context.Context, id uuid.UUID) error
}

func (m *recordRepoMock) Create(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	return m.CreateFunc(ctx, rec)
}

func (m *recordRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *recordRepoMock) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Record, error) {
	return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
}

func (m *recordRepoMock) UpdateWithRevision(ctx context.Context, id uuid.UUID, patch domain.RecordPatch) (*domain.Record, error) {
	return m.UpdateWithRevisionFunc(ctx, id, patch)
}

func (m *recordRepoMock) AppendAnnotation(ctx context.Context, id uuid.UUID, ann domain.Annotation, expectedRevision int64) (*domain.Record, error) {
	return m.AppendAnnotationFunc(ctx, id, ann, expectedRevision)
}

func (m *recordRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

type suggestionRepoMock struct {
	ListByRecordAndStatusFunc func(ctx context.Context, recordID uuid.UUID, status domain.SuggestionStatus) ([]domain.Suggestion, error)
}

func (m *suggestionRepoMock) ListByRecordAndStatus(ctx context.Context, recordID uuid.UUID, status domain.SuggestionStatus) ([]domain.Suggestion, error) {
	return m.ListByRecordAndStatusFunc(ctx, recordID, status)
}

type auditRepoMock struct {
	CreateFunc func(ctx context.Context, rec *domain.AuditRecord) error
}

func (m *auditRepoMock) Create(ctx context.Context, rec *domain.AuditRecord) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, rec)
}

// txManagerMock runs the callback directly, without a real transaction.
type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type disclaimerGateMock struct {
	HasCurrentAcknowledgmentFunc func(ctx context.Context, userID uuid.UUID) (bool, error)
}

func (m *disclaimerGateMock) HasCurrentAcknowledgment(ctx context.Context, userID uuid.UUID) (bool, error) {
	return m.HasCurrentAcknowledgmentFunc(ctx, userID)
}

// eventPublisherMock records published events in order.
type eventPublisherMock struct {
	events []domain.WorkflowEvent
}

func (m *eventPublisherMock) Publish(event domain.WorkflowEvent) {
	m.events = append(m.events, event)
}

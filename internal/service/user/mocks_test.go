package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

var (
	_ userRepo  = &userRepoMock{}
	_ auditRepo = &auditRepoMock{}
	_ txManager = &txManagerMock{}
)

type userRepoMock struct {
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateRoleFunc        func(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error)
	ListFunc              func(ctx context.Context, limit, offset int) ([]domain.User, error)
	CountFunc             func(ctx context.Context) (int, error)
	GetPreferencesFunc    func(ctx context.Context, userID uuid.UUID) (domain.UserPreferences, error)
	UpsertPreferencesFunc func(ctx context.Context, prefs domain.UserPreferences) error
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	return m.UpdateRoleFunc(ctx, id, role)
}

func (m *userRepoMock) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return m.ListFunc(ctx, limit, offset)
}

func (m *userRepoMock) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

func (m *userRepoMock) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.UserPreferences, error) {
	return m.GetPreferencesFunc(ctx, userID)
}

func (m *userRepoMock) UpsertPreferences(ctx context.Context, prefs domain.UserPreferences) error {
	return m.UpsertPreferencesFunc(ctx, prefs)
}

type auditRepoMock struct {
	CreateFunc func(ctx context.Context, rec *domain.AuditRecord) error
}

func (m *auditRepoMock) Create(ctx context.Context, rec *domain.AuditRecord) error {
	return m.CreateFunc(ctx, rec)
}

// txManagerMock runs the callback directly, without a real transaction.
type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

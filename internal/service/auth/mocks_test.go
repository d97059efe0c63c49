package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

var (
	_ userRepo   = &userRepoMock{}
	_ tokenRepo  = &tokenRepoMock{}
	_ txManager  = &txManagerMock{}
	_ jwtManager = &jwtManagerMock{}
)

type userRepoMock struct {
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*domain.User, error)
	CreateFunc            func(ctx context.Context, user *domain.User, passwordHash *string) (*domain.User, error)
	GetPasswordHashFunc   func(ctx context.Context, id uuid.UUID) (string, error)
	UpsertPreferencesFunc func(ctx context.Context, prefs domain.UserPreferences) error
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User, passwordHash *string) (*domain.User, error) {
	return m.CreateFunc(ctx, user, passwordHash)
}

func (m *userRepoMock) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	return m.GetPasswordHashFunc(ctx, id)
}

func (m *userRepoMock) UpsertPreferences(ctx context.Context, prefs domain.UserPreferences) error {
	return m.UpsertPreferencesFunc(ctx, prefs)
}

type tokenRepoMock struct {
	CreateFunc          func(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.RefreshToken, error)
	GetByHashFunc       func(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByIDFunc      func(ctx context.Context, id uuid.UUID) error
	RevokeAllByUserFunc func(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredFunc   func(ctx context.Context) (int, error)
}

func (m *tokenRepoMock) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.RefreshToken, error) {
	return m.CreateFunc(ctx, userID, tokenHash, expiresAt)
}

func (m *tokenRepoMock) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	return m.GetByHashFunc(ctx, tokenHash)
}

func (m *tokenRepoMock) RevokeByID(ctx context.Context, id uuid.UUID) error {
	return m.RevokeByIDFunc(ctx, id)
}

func (m *tokenRepoMock) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return m.RevokeAllByUserFunc(ctx, userID)
}

func (m *tokenRepoMock) DeleteExpired(ctx context.Context) (int, error) {
	return m.DeleteExpiredFunc(ctx)
}

// txManagerMock runs the callback directly, without a real transaction.
type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type jwtManagerMock struct {
	GenerateAccessTokenFunc  func(userID uuid.UUID, role domain.UserRole) (string, error)
	ValidateAccessTokenFunc  func(token string) (uuid.UUID, domain.UserRole, error)
	GenerateRefreshTokenFunc func() (string, string, error)
}

func (m *jwtManagerMock) GenerateAccessToken(userID uuid.UUID, role domain.UserRole) (string, error) {
	return m.GenerateAccessTokenFunc(userID, role)
}

func (m *jwtManagerMock) ValidateAccessToken(token string) (uuid.UUID, domain.UserRole, error) {
	return m.ValidateAccessTokenFunc(token)
}

func (m *jwtManagerMock) GenerateRefreshToken() (string, string, error) {
	return m.GenerateRefreshTokenFunc()
}

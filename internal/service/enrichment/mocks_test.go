package enrichment

import (
	"context"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/provider"
)

var (
	_ suggestionRepo     = &suggestionRepoMock{}
	_ preferencesRepo    = &preferencesRepoMock{}
	_ enrichmentProvider = &providerMock{}
)

type suggestionRepoMock struct {
	UpsertFunc             func(ctx context.Context, recordID uuid.UUID, kind domain.SuggestionKind, inputHash string) (*domain.Suggestion, error)
	GetByRecordAndKindFunc func(ctx context.Context, recordID uuid.UUID, kind domain.SuggestionKind) (*domain.Suggestion, error)
	MarkReadyFunc          func(ctx context.Context, id uuid.UUID, inputHash string, payload map[string]any) error
	MarkFailedFunc         func(ctx context.Context, id uuid.UUID, inputHash string, errMsg string) error
	GetStatsFunc           func(ctx context.Context) (domain.SuggestionQueueStats, error)
	ListByStatusFunc       func(ctx context.Context, status domain.SuggestionStatus, limit, offset int) ([]domain.Suggestion, error)
}

func (m *suggestionRepoMock) Upsert(ctx context.Context, recordID uuid.UUID, kind domain.SuggestionKind, inputHash string) (*domain.Suggestion, error) {
	if m.UpsertFunc == nil {
		return &domain.Suggestion{
			ID:        uuid.New(),
			RecordID:  recordID,
			Kind:      kind,
			Status:    domain.SuggestionStatusPending,
			InputHash: inputHash,
		}, nil
	}
	return m.UpsertFunc(ctx, recordID, kind, inputHash)
}

func (m *suggestionRepoMock) GetByRecordAndKind(ctx context.Context, recordID uuid.UUID, kind domain.SuggestionKind) (*domain.Suggestion, error) {
	if m.GetByRecordAndKindFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.GetByRecordAndKindFunc(ctx, recordID, kind)
}

func (m *suggestionRepoMock) MarkReady(ctx context.Context, id uuid.UUID, inputHash string, payload map[string]any) error {
	if m.MarkReadyFunc == nil {
		return nil
	}
	return m.MarkReadyFunc(ctx, id, inputHash, payload)
}

func (m *suggestionRepoMock) MarkFailed(ctx context.Context, id uuid.UUID, inputHash string, errMsg string) error {
	if m.MarkFailedFunc == nil {
		return nil
	}
	return m.MarkFailedFunc(ctx, id, inputHash, errMsg)
}

func (m *suggestionRepoMock) GetStats(ctx context.Context) (domain.SuggestionQueueStats, error) {
	return m.GetStatsFunc(ctx)
}

func (m *suggestionRepoMock) ListByStatus(ctx context.Context, status domain.SuggestionStatus, limit, offset int) ([]domain.Suggestion, error) {
	return m.ListByStatusFunc(ctx, status, limit, offset)
}

type preferencesRepoMock struct {
	GetPreferencesFunc func(ctx context.Context, userID uuid.UUID) (domain.UserPreferences, error)
}

func (m *preferencesRepoMock) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.UserPreferences, error) {
	if m.GetPreferencesFunc == nil {
		return domain.UserPreferences{UserID: userID, AIEnrichmentEnabled: true}, nil
	}
	return m.GetPreferencesFunc(ctx, userID)
}

type providerMock struct {
	GenerateFunc func(ctx context.Context, req provider.EnrichmentRequest) (*provider.EnrichmentResult, error)
}

func (m *providerMock) Generate(ctx context.Context, req provider.EnrichmentRequest) (*provider.EnrichmentResult, error) {
	return m.GenerateFunc(ctx, req)
}

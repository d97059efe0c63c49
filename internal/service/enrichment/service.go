// Package enrichment runs AI suggestion computations in the background.
//
// The orchestrator consumes workflow events published by the gateway, fans
// each one out into per-kind computations, and drives every suggestion
// through PENDING to READY or FAILED. Per (record, kind) there is at most
// one live computation: a newer event cancels the older one cooperatively
// and its result is discarded by the input-hash guard on the write path.
package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/config"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/provider"
)

// suggestionRepo defines the suggestion repository interface needed by the orchestrator.
type suggestionRepo interface {
	Upsert(ctx context.Context, recordID uuid.UUID, kind domain.SuggestionKind, inputHash string) (*domain.Suggestion, error)
	GetByRecordAndKind(ctx context.Context, recordID uuid.UUID, kind domain.SuggestionKind) (*domain.Suggestion, error)
	MarkReady(ctx context.Context, id uuid.UUID, inputHash string, payload map[string]any) error
	MarkFailed(ctx context.Context, id uuid.UUID, inputHash string, errMsg string) error
	GetStats(ctx context.Context) (domain.SuggestionQueueStats, error)
	ListByStatus(ctx context.Context, status domain.SuggestionStatus, limit, offset int) ([]domain.Suggestion, error)
}

// preferencesRepo resolves a record owner's enrichment opt-out.
type preferencesRepo interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (domain.UserPreferences, error)
}

// enrichmentProvider computes a single suggestion from a record snapshot.
type enrichmentProvider interface {
	Generate(ctx context.Context, req provider.EnrichmentRequest) (*provider.EnrichmentResult, error)
}

// taskKey identifies the single computation slot for a (record, kind) pair.
type taskKey struct {
	recordID uuid.UUID
	kind     domain.SuggestionKind
}

// inflightEntry tracks a scheduled computation so a newer event can cancel it.
type inflightEntry struct {
	cancel context.CancelFunc
}

// task is one unit of work for a worker. ctx is canceled when the task is
// superseded or the orchestrator shuts down.
type task struct {
	key   taskKey
	id    uuid.UUID
	hash  string
	req   provider.EnrichmentRequest
	ctx   context.Context
	entry *inflightEntry
}

// Orchestrator schedules and runs background suggestion computations.
type Orchestrator struct {
	log         *slog.Logger
	suggestions suggestionRepo
	prefs       preferencesRepo
	provider    enrichmentProvider
	cfg         config.EnrichmentConfig

	tasks chan task

	mu       sync.Mutex
	closed   bool
	inflight map[taskKey]*inflightEntry

	baseCtx    context.Context
	baseCancel context.CancelFunc
	workers    *errgroup.Group
}

// NewOrchestrator creates an orchestrator. Call Start before publishing
// events and Shutdown when done.
func NewOrchestrator(
	logger *slog.Logger,
	suggestions suggestionRepo,
	prefs preferencesRepo,
	prov enrichmentProvider,
	cfg config.EnrichmentConfig,
) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())
	return &Orchestrator{
		log:         logger.With("service", "enrichment"),
		suggestions: suggestions,
		prefs:       prefs,
		provider:    prov,
		cfg:         cfg,
		tasks:       make(chan task, cfg.QueueSize),
		inflight:    make(map[taskKey]*inflightEntry),
		baseCtx:     baseCtx,
		baseCancel:  baseCancel,
	}
}

// Start launches the worker pool.
func (o *Orchestrator) Start() {
	o.workers = &errgroup.Group{}
	for i := 0; i < o.cfg.Workers; i++ {
		o.workers.Go(func() error {
			for t := range o.tasks {
				o.process(t)
			}
			return nil
		})
	}

	o.log.Info("enrichment orchestrator started",
		slog.Int("workers", o.cfg.Workers),
		slog.Int("queue_size", o.cfg.QueueSize),
	)
}

// Shutdown stops accepting events, cancels in-flight computations, and waits
// for the workers to drain, bounded by ctx.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	o.mu.Unlock()

	o.baseCancel()
	close(o.tasks)

	if o.workers == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		_ = o.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.log.Info("enrichment orchestrator stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enrichment.Shutdown: %w", ctx.Err())
	}
}

// GetStats returns aggregate suggestion counts by status.
func (o *Orchestrator) GetStats(ctx context.Context) (domain.SuggestionQueueStats, error) {
	return o.suggestions.GetStats(ctx)
}

// ListByStatus returns suggestions in the given status with pagination.
func (o *Orchestrator) ListByStatus(ctx context.Context, status domain.SuggestionStatus, limit, offset int) ([]domain.Suggestion, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "must be 'PENDING', 'READY' or 'FAILED'")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return o.suggestions.ListByStatus(ctx, status, limit, offset)
}

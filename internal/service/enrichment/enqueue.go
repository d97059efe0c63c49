package enrichment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/provider"
)

// Publish accepts a workflow event from the gateway. It returns immediately;
// scheduling happens on a separate goroutine so a slow preferences lookup or
// a full queue can never stall a request.
func (o *Orchestrator) Publish(event domain.WorkflowEvent) {
	if !o.cfg.Enabled {
		return
	}
	go o.OnWorkflowEvent(event)
}

// OnWorkflowEvent maps a record lifecycle event to the configured suggestion
// kinds and enqueues a computation per kind. The owner's opt-out preference
// is checked before any work is scheduled.
func (o *Orchestrator) OnWorkflowEvent(event domain.WorkflowEvent) {
	ctx := o.baseCtx

	prefs, err := o.prefs.GetPreferences(ctx, event.OwnerID)
	if err != nil {
		o.log.ErrorContext(ctx, "preferences lookup failed, dropping event",
			slog.String("record_id", event.RecordID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	if !prefs.AIEnrichmentEnabled {
		o.log.DebugContext(ctx, "owner opted out of enrichment",
			slog.String("record_id", event.RecordID.String()),
			slog.String("owner_id", event.OwnerID.String()),
		)
		return
	}

	o.Enqueue(ctx, event, o.cfg.Kinds)
}

// Enqueue schedules one computation per kind for the record snapshot carried
// by the event. Kinds whose current suggestion already matches the input
// hash are skipped; scheduling a kind that is already in flight cancels the
// older computation.
func (o *Orchestrator) Enqueue(ctx context.Context, event domain.WorkflowEvent, kinds []domain.SuggestionKind) {
	for _, kind := range lo.Uniq(kinds) {
		if !kind.IsValid() {
			continue
		}
		o.enqueueKind(ctx, event, kind)
	}
}

func (o *Orchestrator) enqueueKind(ctx context.Context, event domain.WorkflowEvent, kind domain.SuggestionKind) {
	hash := domain.SuggestionInputHash(kind, event.Title, event.Payload)

	// Idempotency: identical inputs are computed once. FAILED rows are the
	// exception, a fresh event is the retry path for them.
	existing, err := o.suggestions.GetByRecordAndKind(ctx, event.RecordID, kind)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		o.log.ErrorContext(ctx, "suggestion lookup failed",
			slog.String("record_id", event.RecordID.String()),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	if existing != nil && existing.InputHash == hash && existing.Status != domain.SuggestionStatusFailed {
		return
	}

	// Reset the row to PENDING. Readers stop seeing the stale result from
	// this point on; the row keeps its stable identity.
	sugg, err := o.suggestions.Upsert(ctx, event.RecordID, kind, hash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Record deleted between the event and now.
			return
		}
		o.log.ErrorContext(ctx, "suggestion upsert failed",
			slog.String("record_id", event.RecordID.String()),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	key := taskKey{recordID: event.RecordID, kind: kind}
	taskCtx, cancel := context.WithCancel(o.baseCtx)
	entry := &inflightEntry{cancel: cancel}

	t := task{
		key:   key,
		id:    sugg.ID,
		hash:  hash,
		entry: entry,
		ctx:   taskCtx,
		req: provider.EnrichmentRequest{
			Kind:       kind,
			RecordType: event.RecordType,
			Title:      event.Title,
			Payload:    event.Payload,
		},
	}

	if !o.offer(key, entry, t) {
		cancel()
		o.log.WarnContext(ctx, "enrichment queue full, dropping task",
			slog.String("record_id", event.RecordID.String()),
			slog.String("kind", kind.String()),
		)
	}
}

// offer registers the entry in the in-flight table, canceling any older
// computation for the same key, and pushes the task without blocking.
func (o *Orchestrator) offer(key taskKey, entry *inflightEntry, t task) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false
	}

	if prev, ok := o.inflight[key]; ok {
		prev.cancel()
	}
	o.inflight[key] = entry

	select {
	case o.tasks <- t:
		return true
	default:
		delete(o.inflight, key)
		return false
	}
}

// release removes the entry from the in-flight table if it still owns the
// slot. A superseding enqueue may already have replaced it.
func (o *Orchestrator) release(key taskKey, entry *inflightEntry) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inflight[key] == entry {
		delete(o.inflight, key)
	}
}

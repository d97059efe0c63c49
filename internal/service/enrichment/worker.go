package enrichment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

const maxErrorMessageLen = 500

// process runs a single computation and records its outcome. Superseded work
// is discarded silently: the input-hash guard on MarkReady/MarkFailed makes
// a stale write a no-op even if the supersession raced the final write.
func (o *Orchestrator) process(t task) {
	defer t.entry.cancel()
	defer o.release(t.key, t.entry)

	if t.ctx.Err() != nil {
		// Superseded or shut down while queued.
		return
	}

	ctx, cancel := context.WithTimeout(t.ctx, o.cfg.ComputationTimeout)
	defer cancel()

	result, err := o.provider.Generate(ctx, t.req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			o.log.DebugContext(o.baseCtx, "computation superseded",
				slog.String("record_id", t.key.recordID.String()),
				slog.String("kind", t.key.kind.String()),
			)
			return
		}

		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "computation timed out"
		}
		o.fail(t, msg)
		return
	}

	// The write uses the orchestrator's base context: the task context dies
	// with a supersession, but a finished result must still be attempted.
	// The hash guard decides whether it lands.
	if err := o.suggestions.MarkReady(o.baseCtx, t.id, t.hash, result.Payload); err != nil {
		o.handleWriteErr(t, "mark ready", err)
		return
	}

	o.log.InfoContext(o.baseCtx, "suggestion ready",
		slog.String("record_id", t.key.recordID.String()),
		slog.String("kind", t.key.kind.String()),
		slog.String("model", result.Model),
	)
}

func (o *Orchestrator) fail(t task, msg string) {
	if len(msg) > maxErrorMessageLen {
		msg = msg[:maxErrorMessageLen]
	}

	if err := o.suggestions.MarkFailed(o.baseCtx, t.id, t.hash, msg); err != nil {
		o.handleWriteErr(t, "mark failed", err)
		return
	}

	o.log.WarnContext(o.baseCtx, "suggestion failed",
		slog.String("record_id", t.key.recordID.String()),
		slog.String("kind", t.key.kind.String()),
		slog.String("error", msg),
	)
}

// handleWriteErr classifies a failed status write. ErrNotFound means the row
// was superseded (hash guard) or deleted with its record; both are expected
// and the result is simply discarded.
func (o *Orchestrator) handleWriteErr(t task, op string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		o.log.DebugContext(o.baseCtx, "stale result discarded",
			slog.String("record_id", t.key.recordID.String()),
			slog.String("kind", t.key.kind.String()),
		)
		return
	}

	o.log.ErrorContext(o.baseCtx, op+" failed",
		slog.String("record_id", t.key.recordID.String()),
		slog.String("kind", t.key.kind.String()),
		slog.String("error", err.Error()),
	)
}

package audit

import (
	"context"
	"log/slog"
)

// Worker drains the publisher inbox into the store. A failing append is
// logged and skipped rather than propagated: audit delivery problems belong
// to the operational channel, not to the caller whose action produced the
// entry.
type Worker struct {
	store  Store
	inbox  <-chan Entry
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Entry, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run consumes entries until ctx is cancelled. Entries still buffered at
// shutdown are flushed before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return ctx.Err()
		case entry := <-w.inbox:
			w.append(ctx, entry)
		}
	}
}

func (w *Worker) append(ctx context.Context, entry Entry) {
	if err := w.store.Append(ctx, entry); err != nil {
		w.logger.Error("audit append failed",
			"action", entry.Action,
			"actor_id", entry.ActorID,
			"error", err,
		)
	}
}

func (w *Worker) flush() {
	// The publisher may still hold buffered entries; persist what is already
	// queued using a background context since the run context is gone.
	ctx := context.Background()
	for {
		select {
		case entry := <-w.inbox:
			w.append(ctx, entry)
		default:
			return
		}
	}
}

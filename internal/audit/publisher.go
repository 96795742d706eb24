package audit

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"alumnet/pkg/requestcontext"
)

// Publisher accepts audit entries from domain logic and hands them to the
// worker without ever blocking the caller. A slow or failing sink must not
// fail the business operation that triggered the entry, so Emit is
// fire-and-forget: when the buffer is full the entry is dropped, counted,
// and logged to the operational channel.
type Publisher struct {
	inbox  chan Entry
	logger *slog.Logger
}

const defaultBuffer = 256

// Registered once at package level so tests can build publishers freely.
var droppedEntries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "alumnet_audit_entries_dropped_total",
	Help: "Audit entries dropped because the inbox was full",
})

// NewPublisher builds a publisher with a buffered inbox. Pass the returned
// publisher to domain services and its Inbox to a Worker.
func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Entry, defaultBuffer),
		logger: logger,
	}
}

// Emit records an entry best-effort. The zero timestamp is stamped here so
// callers can omit it.
func (p *Publisher) Emit(ctx context.Context, entry Entry) {
	if entry.ActorID == "" {
		entry.ActorID = ActorUnknown
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	select {
	case p.inbox <- entry:
	default:
		droppedEntries.Inc()
		p.logger.WarnContext(ctx, "audit inbox full, entry dropped",
			"action", entry.Action,
			"actor_id", entry.ActorID,
		)
	}
}

// Inbox exposes the entry stream for the worker.
func (p *Publisher) Inbox() <-chan Entry { return p.inbox }

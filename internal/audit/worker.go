package audit

import (
	"context"
	"log/slog"

	id "covera/pkg/domain"
)

// Store persists audit events. Swap with concrete storage without touching
// the worker.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Sink receives a copy of every event for external delivery (Kafka today).
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes audit events from the publisher and persists them. Sink
// failures are logged, not retried; the store is the system of record.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker wires the worker to its inbox, store, and optional sink (nil
// disables external delivery).
func NewWorker(store Store, sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

// Run processes events until the context is cancelled. It drains quickly;
// durability comes from the store call, not from buffering.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			w.process(ctx, event)
		}
	}
}

func (w *Worker) process(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "audit append failed",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
	}
	if w.sink != nil {
		if err := w.sink.Publish(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "audit sink publish failed",
				"action", event.Action,
				"error", err,
			)
		}
	}
}

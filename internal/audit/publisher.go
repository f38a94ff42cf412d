package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"covera/pkg/requestcontext"
)

// Publisher enriches events and hands them to the background worker through
// a buffered channel. Emit never blocks the request path: when the buffer is
// full the event is dropped and logged, because a slow audit sink must not
// slow down recommendations.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher creates a publisher with the given buffer size.
func NewPublisher(bufferSize int, logger *slog.Logger) *Publisher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Publisher{
		inbox:  make(chan Event, bufferSize),
		logger: logger,
	}
}

// Inbox exposes the event channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit records an event. ID and timestamp are filled in if unset; device
// metadata from the request context is attached when present.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if device := requestcontext.DeviceInfo(ctx); device.Browser != "" || device.OS != "" {
		if event.Metadata == nil {
			event.Metadata = make(map[string]string, 2)
		}
		event.Metadata["device_browser"] = device.Browser
		event.Metadata["device_os"] = device.OS
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", event.Action,
			"user_id", event.UserID,
		)
		return nil
	}
}

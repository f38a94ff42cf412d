package audit

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "covera/pkg/domain"
	"covera/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPublisher_EnrichesEvents(t *testing.T) {
	pub := NewPublisher(8, discardLogger())
	userID := id.NewUserID()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	ctx := requestcontext.WithTime(context.Background(), fixed)
	ctx = requestcontext.WithDeviceInfo(ctx, requestcontext.Device{Browser: "Firefox", OS: "Linux"})

	require.NoError(t, pub.Emit(ctx, Event{UserID: userID, Action: ActionUserLogin}))

	event := <-pub.Inbox()
	assert.NotZero(t, event.ID)
	assert.Equal(t, fixed, event.Timestamp)
	assert.Equal(t, "Firefox", event.Metadata["device_browser"])
	assert.Equal(t, "Linux", event.Metadata["device_os"])
}

func TestPublisher_DropsWhenBufferFull(t *testing.T) {
	pub := NewPublisher(1, discardLogger())
	ctx := context.Background()

	require.NoError(t, pub.Emit(ctx, Event{Action: ActionUserLogin}))
	// Second emit must not block even though nothing drains the inbox.
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionUserLogin}))
	assert.Len(t, pub.Inbox(), 1)
}

type failingSink struct{ calls int }

func (s *failingSink) Publish(context.Context, Event) error {
	s.calls++
	return assert.AnError
}

func TestWorker_PersistsAndToleratesSinkFailure(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(8, discardLogger())
	sink := &failingSink{}
	worker := NewWorker(store, sink, pub.Inbox(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	userID := id.NewUserID()
	require.NoError(t, pub.Emit(ctx, Event{UserID: userID, Action: ActionRecommendationCreated}))

	// Store append must succeed even though the sink fails.
	require.Eventually(t, func() bool {
		events, err := store.ListByUser(context.Background(), userID)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, sink.calls)

	cancel()
	<-done
}

package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/config"
	"github.com/eventhub/event-service/internal/events"
	"github.com/eventhub/event-service/internal/service"
)

func TestQueueDeliversToSubscribers(t *testing.T) {
	q := NewQueue(events.NewInMemoryDispatcher(), 4, zap.NewNop())

	var mu sync.Mutex
	var got []int64
	q.Subscribe(events.EventUserSuspended, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.SubjectID)
		return nil
	})

	require.NoError(t, q.Publish(context.Background(), events.Event{Type: events.EventUserSuspended, SubjectID: 7}))
	require.NoError(t, q.Publish(context.Background(), events.Event{Type: events.EventUserSuspended, SubjectID: 8}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Close(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{7, 8}, got)
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := NewQueue(events.NewInMemoryDispatcher(), 1, nil)
	require.NoError(t, q.Close(context.Background()))

	err := q.Publish(context.Background(), events.Event{Type: events.EventUserActivated})
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.NoError(t, q.Close(context.Background()))
}

func TestQueueReportsFullBuffer(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	release := make(chan struct{})
	inner.Subscribe(events.EventUserActivated, func(context.Context, events.Event) error {
		<-release
		return nil
	})
	q := NewQueue(inner, 1, nil)

	event := events.Event{Type: events.EventUserActivated}
	require.NoError(t, q.Publish(context.Background(), event))
	// Wait for the first event to be picked up so the buffer slot is free again.
	assert.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Publish(context.Background(), event))
	assert.ErrorIs(t, q.Publish(context.Background(), event), ErrQueueFull)

	close(release)
	require.NoError(t, q.Close(context.Background()))
}

func TestStartNotificationWorkerSubscribesHandlers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "http://hooks.local/notify",
	})
	StartNotificationWorker(notifications)
	StartNotificationWorker(nil)

	for _, eventType := range []events.EventType{
		events.EventUserSuspended,
		events.EventUserActivated,
		events.EventEventSuspended,
		events.EventEventUnsuspended,
		events.EventPromotionAccepted,
		events.EventPromotionRejected,
		events.EventRegistrationUpdated,
	} {
		assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: eventType, SubjectID: 1}))
	}
}

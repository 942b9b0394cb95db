package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []int64
	d.Subscribe(EventUserSuspended, func(_ context.Context, e Event) error {
		got = append(got, e.SubjectID)
		return nil
	})
	d.Subscribe(EventUserActivated, func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserSuspended, SubjectID: 4}))
	assert.Equal(t, []int64{4}, got)
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventPromotionAccepted, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventPromotionAccepted, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventPromotionAccepted})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventEventSuspended}))
}

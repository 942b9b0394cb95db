package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/events"
)

var (
	// ErrQueueFull is returned by Publish when the buffer is exhausted.
	ErrQueueFull = errors.New("notification queue full")
	// ErrQueueClosed is returned by Publish after Close.
	ErrQueueClosed = errors.New("notification queue closed")
)

const deliveryTimeout = 10 * time.Second

// Queue is an events.Dispatcher that buffers published events and delivers
// them to the wrapped dispatcher from a single goroutine, so handlers never
// run on the request path.
type Queue struct {
	inner  events.Dispatcher
	logger *zap.Logger
	ch     chan events.Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewQueue starts the delivery goroutine.
func NewQueue(inner events.Dispatcher, size int, logger *zap.Logger) *Queue {
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Queue{
		inner:  inner,
		logger: logger,
		ch:     make(chan events.Event, size),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

// Publish enqueues event without blocking.
func (q *Queue) Publish(_ context.Context, event events.Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe registers handler on the wrapped dispatcher.
func (q *Queue) Subscribe(eventType events.EventType, handler events.EventHandler) {
	q.inner.Subscribe(eventType, handler)
}

func (q *Queue) run() {
	defer close(q.done)
	for event := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		if err := q.inner.Publish(ctx, event); err != nil {
			q.logger.Warn("notification delivery failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
		cancel()
	}
}

// Close stops accepting events and waits until the buffer drains or ctx ends.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/events"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

// Clock returns the current time. Services derive "today" from it once per
// call.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// notFoundAs maps a missing row to a 404 carrying message.
func notFoundAs(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(message)
	}
	return err
}

// publisher stamps and publishes domain events. Delivery failures are logged
// and never fail the request that caused them.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

var (
	plainText = bluemonday.StrictPolicy()
	richText  = bluemonday.UGCPolicy()
)

// sanitizePlain strips every tag and returns unescaped text.
func sanitizePlain(value string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(value)))
}

// sanitizeRich keeps the safe formatting subset used in descriptions.
func sanitizeRich(value string) string {
	return strings.TrimSpace(richText.Sanitize(value))
}

func sanitizePlainPtr(value *string) *string {
	if value == nil {
		return nil
	}
	clean := sanitizePlain(*value)
	return &clean
}

package dto

import (
	"time"

	"github.com/eventhub/event-service/internal/domain"
)

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// ParseDatePtr parses an optional YYYY-MM-DD value. Nil stays nil.
func ParseDatePtr(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := domain.ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

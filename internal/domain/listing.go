package domain

import "time"

// Date and clock layouts used by stored and transported values.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// EventSort selects the listing order.
type EventSort string

const (
	SortClosest  EventSort = "closest"
	SortPopular  EventSort = "popular"
	SortDeadline EventSort = "deadline"
)

// ParseEventSort falls back to SortClosest for unknown values.
func ParseEventSort(value string) EventSort {
	switch EventSort(value) {
	case SortPopular, SortDeadline:
		return EventSort(value)
	}
	return SortClosest
}

// CompletedFilter is the tri-state completed listing filter.
type CompletedFilter int

const (
	// CompletedExclude keeps events ending today or later.
	CompletedExclude CompletedFilter = iota
	// CompletedOnly keeps events that ended before today.
	CompletedOnly
	// CompletedAny applies no end-date filter.
	CompletedAny
)

// ParseCompletedFilter maps an absent value or "false" to CompletedExclude,
// "true" to CompletedOnly and anything else to CompletedAny.
func ParseCompletedFilter(value string) CompletedFilter {
	switch value {
	case "", "false":
		return CompletedExclude
	case "true":
		return CompletedOnly
	}
	return CompletedAny
}

// SuspendedVisibility describes which suspended events a requester may list.
type SuspendedVisibility int

const (
	SuspendedHidden SuspendedVisibility = iota
	SuspendedOwnOnly
	SuspendedVisible
)

// DefaultPageSize applies when a list request carries no usable limit.
const DefaultPageSize = 20

// Page is a limit/offset window over a list.
type Page struct {
	Limit  int
	Offset int
}

// NewPage falls back to DefaultPageSize for non-positive limits and to zero
// for negative offsets.
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

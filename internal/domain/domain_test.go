package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompletedFilter(t *testing.T) {
	assert.Equal(t, CompletedExclude, ParseCompletedFilter(""))
	assert.Equal(t, CompletedExclude, ParseCompletedFilter("false"))
	assert.Equal(t, CompletedOnly, ParseCompletedFilter("true"))
	assert.Equal(t, CompletedAny, ParseCompletedFilter("all"))
}

func TestParseEventSort(t *testing.T) {
	assert.Equal(t, SortPopular, ParseEventSort("popular"))
	assert.Equal(t, SortDeadline, ParseEventSort("deadline"))
	assert.Equal(t, SortClosest, ParseEventSort(""))
	assert.Equal(t, SortClosest, ParseEventSort("random"))
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Limit: 20, Offset: 0}, NewPage(0, -3))
	assert.Equal(t, Page{Limit: 5, Offset: 10}, NewPage(5, 10))
}

func TestRates(t *testing.T) {
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 67.0, Percent(2, 3))
	assert.Equal(t, 0.0, Average(10, 0))
	assert.Equal(t, 3.33, Average(10, 3))
}

func TestEventStartsAt(t *testing.T) {
	e := Event{StartDate: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), StartTime: "18:30"}
	at, err := e.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 12, 18, 30, 0, 0, time.UTC), at)

	e.StartTime = "late"
	_, err = e.StartsAt()
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	at := time.Date(2025, 3, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), DateOf(at))
}

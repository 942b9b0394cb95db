package domain

import (
	"fmt"
	"time"
)

// EventStatus is controlled by the owning organizer. Deleted is a soft delete.
type EventStatus string

const (
	EventActive    EventStatus = "active"
	EventCancelled EventStatus = "cancelled"
	EventDeleted   EventStatus = "deleted"
)

// Valid reports whether s is a stored status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventActive, EventCancelled, EventDeleted:
		return true
	}
	return false
}

// Event is owned by exactly one organizer and belongs to one category.
// Suspended is an admin moderation flag, independent of Status.
type Event struct {
	ID                       int64
	OrganizerID              int64
	DateCreated              time.Time
	Banner                   string
	CategoryID               int64
	Title                    string
	Description              string
	Country                  string
	City                     string
	FullAddress              string
	StartDate                time.Time
	StartTime                string
	EndDate                  time.Time
	EndTime                  string
	Tags                     *string
	MaxCapacity              *int
	RegistrationDeadlineDate time.Time
	RegistrationDeadlineTime string
	CancellationDeadlineDate time.Time
	CancellationDeadlineTime string
	ViewsCount               int64
	Status                   EventStatus
	Suspended                bool
}

// StartsAt combines the start date and HH:MM start time in UTC.
func (e *Event) StartsAt() (time.Time, error) {
	clock, err := time.Parse(TimeLayout, e.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start time %q: %w", e.StartTime, err)
	}
	y, m, d := e.StartDate.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

// EventView is an event row augmented with the fields listings and detail
// pages display. The registration fields are only populated when the query
// joined a specific user's registration.
type EventView struct {
	Event
	OrganizerName       *string
	OrganizerProfilePic *string
	CategoryName        string
	IsLikedByUser       bool
	RegistrationStatus  *RegistrationStatus
	RegistrationDate    *time.Time
	Attendance          *string
}

package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/eventhub/event-service/internal/domain"
)

// CreateEventRequest payload for POST /api/events.
type CreateEventRequest struct {
	Title                    string  `json:"title" validate:"required"`
	Description              string  `json:"description" validate:"required"`
	Category                 int64   `json:"category" validate:"required,gt=0"`
	Banner                   string  `json:"event_banner" validate:"required"`
	StartDate                string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartTime                string  `json:"start_time" validate:"required,datetime=15:04"`
	EndDate                  string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	EndTime                  string  `json:"end_time" validate:"required,datetime=15:04"`
	Country                  string  `json:"country" validate:"required"`
	City                     string  `json:"city" validate:"required"`
	FullAddress              string  `json:"full_address" validate:"required"`
	RegistrationDeadlineDate string  `json:"registration_deadline_date" validate:"required,datetime=2006-01-02"`
	RegistrationDeadlineTime string  `json:"registration_deadline_time" validate:"required,datetime=15:04"`
	CancellationDeadlineDate string  `json:"cancellation_deadline_date" validate:"required,datetime=2006-01-02"`
	CancellationDeadlineTime string  `json:"cancellation_deadline_time" validate:"required,datetime=15:04"`
	Tags                     *string `json:"tags"`
	MaxCapacity              *int    `json:"max_capacity"`
}

// FlexString accepts a JSON string, boolean or number and keeps its text.
// Clients send the suspended flag both as "true" and as true.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	switch string(data) {
	case "true", "false":
		*f = FlexString(data)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unsupported value %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// UpdateEventRequest payload for PATCH /api/events/:id. Absent fields stay
// unchanged.
type UpdateEventRequest struct {
	Suspended                *FlexString `json:"suspended"`
	Banner                   *string     `json:"event_banner"`
	Description              *string     `json:"description"`
	Status                   *string     `json:"status"`
	City                     *string     `json:"city"`
	FullAddress              *string     `json:"full_address"`
	StartDate                *string     `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime                *string     `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndDate                  *string     `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	EndTime                  *string     `json:"end_time" validate:"omitempty,datetime=15:04"`
	Tags                     *string     `json:"tags"`
	MaxCapacity              *int        `json:"max_capacity"`
	RegistrationDeadlineDate *string     `json:"registration_deadline_date" validate:"omitempty,datetime=2006-01-02"`
	RegistrationDeadlineTime *string     `json:"registration_deadline_time" validate:"omitempty,datetime=15:04"`
	CancellationDeadlineDate *string     `json:"cancellation_deadline_date" validate:"omitempty,datetime=2006-01-02"`
	CancellationDeadlineTime *string     `json:"cancellation_deadline_time" validate:"omitempty,datetime=15:04"`
}

// SuspendedValue returns the suspended flag as text, nil when absent.
func (r UpdateEventRequest) SuspendedValue() *string {
	if r.Suspended == nil {
		return nil
	}
	s := string(*r.Suspended)
	return &s
}

// EventCreatedResponse is returned by POST /api/events.
type EventCreatedResponse struct {
	Message string `json:"message"`
	EventID int64  `json:"event_id"`
}

// EventResponse carries an event row with its display fields.
type EventResponse struct {
	ID                       int64              `json:"id"`
	OrganizerID              int64              `json:"organizer_id"`
	DateCreated              string             `json:"date_created"`
	Banner                   string             `json:"event_banner"`
	Category                 int64              `json:"category"`
	CategoryName             string             `json:"category_name"`
	Title                    string             `json:"title"`
	Description              string             `json:"description"`
	Country                  string             `json:"country"`
	City                     string             `json:"city"`
	FullAddress              string             `json:"full_address"`
	StartDate                string             `json:"start_date"`
	StartTime                string             `json:"start_time"`
	EndDate                  string             `json:"end_date"`
	EndTime                  string             `json:"end_time"`
	Tags                     *string            `json:"tags"`
	MaxCapacity              *int               `json:"max_capacity"`
	RegistrationDeadlineDate string             `json:"registration_deadline_date"`
	RegistrationDeadlineTime string             `json:"registration_deadline_time"`
	CancellationDeadlineDate string             `json:"cancellation_deadline_date"`
	CancellationDeadlineTime string             `json:"cancellation_deadline_time"`
	ViewsCount               int64              `json:"views_count"`
	Status                   domain.EventStatus `json:"status"`
	Suspended                bool               `json:"suspended"`
	OrganizerName            *string            `json:"organizer_name"`
	OrganizerProfilePic      *string            `json:"organizer_profile_pic"`
	IsLikedByUser            bool               `json:"isLikedByUser"`
}

// EventListItem adds the registrant's registration when the listing was
// scoped by registerId.
type EventListItem struct {
	EventResponse
	RegistrationStatus *domain.RegistrationStatus `json:"registration_status,omitempty"`
	RegistrationDate   *string                    `json:"registration_date,omitempty"`
	Attendance         *string                    `json:"attendance,omitempty"`
}

// EventDetailResponse adds the requester's own registration status.
type EventDetailResponse struct {
	EventResponse
	UserRegistrationStatus *domain.RegistrationStatus `json:"user_registration_status"`
}

func eventResponse(v *domain.EventView) EventResponse {
	return EventResponse{
		ID:                       v.ID,
		OrganizerID:              v.OrganizerID,
		DateCreated:              formatDate(v.DateCreated),
		Banner:                   v.Banner,
		Category:                 v.CategoryID,
		CategoryName:             v.CategoryName,
		Title:                    v.Title,
		Description:              v.Description,
		Country:                  v.Country,
		City:                     v.City,
		FullAddress:              v.FullAddress,
		StartDate:                formatDate(v.StartDate),
		StartTime:                v.StartTime,
		EndDate:                  formatDate(v.EndDate),
		EndTime:                  v.EndTime,
		Tags:                     v.Tags,
		MaxCapacity:              v.MaxCapacity,
		RegistrationDeadlineDate: formatDate(v.RegistrationDeadlineDate),
		RegistrationDeadlineTime: v.RegistrationDeadlineTime,
		CancellationDeadlineDate: formatDate(v.CancellationDeadlineDate),
		CancellationDeadlineTime: v.CancellationDeadlineTime,
		ViewsCount:               v.ViewsCount,
		Status:                   v.Status,
		Suspended:                v.Suspended,
		OrganizerName:            v.OrganizerName,
		OrganizerProfilePic:      v.OrganizerProfilePic,
		IsLikedByUser:            v.IsLikedByUser,
	}
}

// EventList maps listing rows, never returning a nil slice.
func EventList(views []domain.EventView) []EventListItem {
	items := make([]EventListItem, 0, len(views))
	for i := range views {
		v := &views[i]
		items = append(items, EventListItem{
			EventResponse:      eventResponse(v),
			RegistrationStatus: v.RegistrationStatus,
			RegistrationDate:   formatDatePtr(v.RegistrationDate),
			Attendance:         v.Attendance,
		})
	}
	return items
}

// EventDetail maps a single event fetch.
func EventDetail(v *domain.EventView) EventDetailResponse {
	return EventDetailResponse{
		EventResponse:          eventResponse(v),
		UserRegistrationStatus: v.RegistrationStatus,
	}
}

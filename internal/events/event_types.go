package events

import (
	"time"

	"github.com/eventhub/event-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSuspended       EventType = "user_suspended"
	EventUserActivated       EventType = "user_activated"
	EventEventSuspended      EventType = "event_suspended"
	EventEventUnsuspended    EventType = "event_unsuspended"
	EventPromotionAccepted   EventType = "promotion_accepted"
	EventPromotionRejected   EventType = "promotion_rejected"
	EventRegistrationUpdated EventType = "registration_updated"
)

// Actor is the account that caused the event.
type Actor struct {
	UserID      int64              `json:"user_id"`
	AccountType domain.AccountType `json:"account_type"`
}

// ActorFrom converts a request principal.
func ActorFrom(p domain.Principal) Actor {
	return Actor{UserID: p.ID, AccountType: p.AccountType}
}

// Event represents a domain event emitted by services. SubjectID is the id of
// the user or event the change applies to.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID int64       `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// EventModeratedPayload accompanies event suspension changes.
type EventModeratedPayload struct {
	OrganizerID int64  `json:"organizer_id"`
	Title       string `json:"title"`
}

// PromotionDecidedPayload accompanies promotion decisions.
type PromotionDecidedPayload struct {
	RequestedOrganizerName string `json:"requested_organizer_name,omitempty"`
}

// RegistrationUpdatedPayload accompanies organizer-side registration changes.
type RegistrationUpdatedPayload struct {
	EventID    int64                      `json:"event_id"`
	Status     *domain.RegistrationStatus `json:"status,omitempty"`
	Attendance *string                    `json:"attendance,omitempty"`
}

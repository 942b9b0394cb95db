package domain

import "time"

// PromotionStatus is the state of a request to become an organizer.
type PromotionStatus string

const (
	PromotionPending  PromotionStatus = "pending"
	PromotionAccepted PromotionStatus = "accepted"
	PromotionRejected PromotionStatus = "rejected"
)

// PromotionRequest is filed by a regular user. At most one request per user
// is pending at any time.
type PromotionRequest struct {
	ID                     int64
	UserID                 int64
	Status                 PromotionStatus
	RequestDate            time.Time
	RequestedOrganizerName string
	WhyMessage             string
}

// PromotionRequestView adds the requester's display fields.
type PromotionRequestView struct {
	PromotionRequest
	Fullname   string
	ProfilePic *string
}

package dto

import "github.com/eventhub/event-service/internal/domain"

// PromotionRequestBody payload for POST /api/promotion-requests.
type PromotionRequestBody struct {
	RequestedOrganizerName string `json:"requested_organizer_name"`
	WhyMessage             string `json:"why_message"`
}

// PromotionResponse is a user's pending request.
type PromotionResponse struct {
	ID                     int64                  `json:"id"`
	UserID                 int64                  `json:"user_id"`
	Status                 domain.PromotionStatus `json:"status"`
	RequestDate            string                 `json:"request_date"`
	RequestedOrganizerName string                 `json:"requested_organizer_name"`
	WhyMessage             string                 `json:"why_message"`
}

// PendingPromotionResponse is one entry of the admin review queue.
type PendingPromotionResponse struct {
	UserID                 int64   `json:"user_id"`
	RequestDate            string  `json:"request_date"`
	RequestedOrganizerName string  `json:"requested_organizer_name"`
	WhyMessage             string  `json:"why_message"`
	Fullname               string  `json:"fullname"`
	ProfilePic             *string `json:"profile_pic"`
}

// Promotion maps a request; nil stays nil so the body renders as null.
func Promotion(p *domain.PromotionRequest) *PromotionResponse {
	if p == nil {
		return nil
	}
	return &PromotionResponse{
		ID:                     p.ID,
		UserID:                 p.UserID,
		Status:                 p.Status,
		RequestDate:            formatDate(p.RequestDate),
		RequestedOrganizerName: p.RequestedOrganizerName,
		WhyMessage:             p.WhyMessage,
	}
}

// PendingPromotions maps the review queue.
func PendingPromotions(rows []domain.PromotionRequestView) []PendingPromotionResponse {
	out := make([]PendingPromotionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, PendingPromotionResponse{
			UserID:                 r.UserID,
			RequestDate:            formatDate(r.RequestDate),
			RequestedOrganizerName: r.RequestedOrganizerName,
			WhyMessage:             r.WhyMessage,
			Fullname:               r.Fullname,
			ProfilePic:             r.ProfilePic,
		})
	}
	return out
}

package dto

import "github.com/eventhub/event-service/internal/domain"

// ManageRegistrationRequest payload for PATCH /api/events/:id/register.
type ManageRegistrationRequest struct {
	UserID     int64       `json:"user_id"`
	Status     *string     `json:"status"`
	Attendance *FlexString `json:"attendance"`
}

// AttendanceValue returns attendance as text, nil when absent.
func (r ManageRegistrationRequest) AttendanceValue() *string {
	if r.Attendance == nil {
		return nil
	}
	s := string(*r.Attendance)
	return &s
}

// RegistrationResponse is one registrant of an event.
type RegistrationResponse struct {
	UserID           int64                     `json:"user_id"`
	EventID          int64                     `json:"event_id"`
	RegistrationDate string                    `json:"registration_date"`
	Status           domain.RegistrationStatus `json:"status"`
	Attendance       *string                   `json:"attendance"`
	Fullname         string                    `json:"fullname"`
	Email            string                    `json:"email"`
	PhoneNumber      *string                   `json:"phone_number"`
	ProfilePic       *string                   `json:"profile_pic"`
}

// Registrations maps registrant rows.
func Registrations(rows []domain.RegistrationView) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, RegistrationResponse{
			UserID:           r.UserID,
			EventID:          r.EventID,
			RegistrationDate: formatDate(r.RegistrationDate),
			Status:           r.Status,
			Attendance:       r.Attendance,
			Fullname:         r.Fullname,
			Email:            r.Email,
			PhoneNumber:      r.PhoneNumber,
			ProfilePic:       r.ProfilePic,
		})
	}
	return out
}

package dto

import (
	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/policy"
)

// UpdateUserRequest payload for PATCH /api/users/:id.
type UpdateUserRequest struct {
	PhoneNumber *string `json:"phone_number"`
	Birthday    *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	ProfilePic  *string `json:"profile_pic"`
	Gender      *string `json:"gender"`
}

// UserResponse is the full account record. The password hash never leaves
// the service.
type UserResponse struct {
	ID            int64                `json:"id"`
	AccountType   domain.AccountType   `json:"account_type"`
	AccountStatus domain.AccountStatus `json:"account_status"`
	DateJoined    string               `json:"date_joined"`
	ProfilePic    *string              `json:"profile_pic"`
	Fullname      string               `json:"fullname"`
	Gender        domain.Gender        `json:"gender"`
	Email         string               `json:"email"`
	PhoneNumber   *string              `json:"phone_number"`
	Birthday      *string              `json:"birthday"`
	OrganizerName *string              `json:"organizer_name"`
	PromotionDate *string              `json:"promotion_date"`
}

// OrganizerCardResponse is the organizer profile shown to regular users.
type OrganizerCardResponse struct {
	ID            int64                `json:"id"`
	AccountType   domain.AccountType   `json:"account_type"`
	AccountStatus domain.AccountStatus `json:"account_status"`
	PhoneNumber   *string              `json:"phone_number"`
	OrganizerName *string              `json:"organizer_name"`
	ProfilePic    *string              `json:"profile_pic"`
}

// User maps a full account record.
func User(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		AccountType:   u.AccountType,
		AccountStatus: u.AccountStatus,
		DateJoined:    formatDate(u.DateJoined),
		ProfilePic:    u.ProfilePic,
		Fullname:      u.Fullname,
		Gender:        u.Gender,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		Birthday:      formatDatePtr(u.Birthday),
		OrganizerName: u.OrganizerName,
		PromotionDate: formatDatePtr(u.PromotionDate),
	}
}

// Profile renders u according to the resolved projection.
func Profile(u *domain.User, projection policy.Projection) any {
	if projection == policy.ProjectionOrganizerPublic {
		return OrganizerCardResponse{
			ID:            u.ID,
			AccountType:   u.AccountType,
			AccountStatus: u.AccountStatus,
			PhoneNumber:   u.PhoneNumber,
			OrganizerName: u.OrganizerName,
			ProfilePic:    u.ProfilePic,
		}
	}
	return User(u)
}

// Users maps an admin listing.
func Users(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, User(&users[i]))
	}
	return out
}

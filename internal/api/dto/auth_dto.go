package dto

import "github.com/eventhub/event-service/internal/domain"

// RegisterRequest is the self sign-up payload.
type RegisterRequest struct {
	Fullname    string  `json:"fullname" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required"`
	Gender      string  `json:"gender" validate:"required,oneof=male female"`
	PhoneNumber *string `json:"phone_number"`
	Birthday    *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionUser is the identity echoed back by the auth endpoints.
type SessionUser struct {
	ID          int64              `json:"id"`
	AccountType domain.AccountType `json:"account_type"`
}

// AuthResponse standard response for register and login.
type AuthResponse struct {
	User    SessionUser `json:"user"`
	Message string      `json:"message"`
}

// ValidateUserResponse wraps the caller's identity.
type ValidateUserResponse struct {
	User SessionUser `json:"user"`
}

// MessageResponse is the body of mutations that return nothing else.
type MessageResponse struct {
	Message string `json:"message"`
}

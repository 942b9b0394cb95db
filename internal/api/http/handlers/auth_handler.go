package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/api/dto"
	"github.com/eventhub/event-service/internal/auth"
	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/service"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

// CookieSettings controls the session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthHandler exposes sign-up, login and session endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	cookie CookieSettings
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie CookieSettings) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &AuthHandler{auth: authService, cookie: cookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	birthday, err := dto.ParseDatePtr(req.Birthday)
	if err != nil {
		return apperrors.NewValidationError("Invalid value for field: birthday")
	}

	user, token, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Fullname:    req.Fullname,
		Email:       req.Email,
		Password:    req.Password,
		Gender:      domain.Gender(req.Gender),
		PhoneNumber: req.PhoneNumber,
		Birthday:    birthday,
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		User:    dto.SessionUser{ID: user.ID, AccountType: user.AccountType},
		Message: "User created successfully",
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil || dto.Validate(req) != nil {
		return apperrors.NewValidationError("Email and Password are required.")
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(dto.AuthResponse{
		User:    dto.SessionUser{ID: user.ID, AccountType: user.AccountType},
		Message: "Login successful",
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), c.Cookies(h.cookie.Name)); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// ValidateUser handles GET /api/auth/validate-user.
func (h *AuthHandler) ValidateUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.ValidateUserResponse{User: dto.SessionUser{ID: p.ID, AccountType: p.AccountType}})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token auth.IssuedToken) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/api/dto"
	"github.com/eventhub/event-service/internal/service"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

// UsersHandler serves profile and account administration endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.service.Get(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Profile(profile.User, profile.Projection))
}

// Update handles PATCH /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	birthday, err := dto.ParseDatePtr(req.Birthday)
	if err != nil {
		return apperrors.NewValidationError("Invalid value for field: birthday")
	}
	err = h.service.Update(c.UserContext(), p, id, service.UserUpdateInput{
		PhoneNumber: req.PhoneNumber,
		Birthday:    birthday,
		ProfilePic:  req.ProfilePic,
		Gender:      req.Gender,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Profile updated successfully"})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	input := service.UserListInput{
		Role:   c.Query("role"),
		Gender: c.Query("gender"),
		MinAge: optionalInt(c, "min_age"),
		MaxAge: optionalInt(c, "max_age"),
		Search: c.Query("search"),
		SortBy: c.Query("sort_by"),
		Page:   pageFromQuery(c),
	}
	users, err := h.service.List(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(dto.Users(users))
}

// Suspend handles PATCH /api/users/:id/suspend.
func (h *UsersHandler) Suspend(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Suspend(c.UserContext(), p, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User suspended."})
}

// Activate handles PATCH /api/users/:id/activate.
func (h *UsersHandler) Activate(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Activate(c.UserContext(), p, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User account activated."})
}

// OrganizerStats handles GET /api/users/:id/organizer-stats.
func (h *UsersHandler) OrganizerStats(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.service.OrganizerStats(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func optionalInt(c *fiber.Ctx, key string) *int {
	if c.Query(key) == "" {
		return nil
	}
	v := c.QueryInt(key, -1)
	if v < 0 {
		return nil
	}
	return &v
}

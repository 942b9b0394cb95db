package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/api/dto"
	"github.com/eventhub/event-service/internal/service"
)

// RegistrationsHandler serves event registration endpoints.
type RegistrationsHandler struct {
	service *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrationService *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{service: registrationService}
}

// Register handles POST /api/events/:id/register.
func (h *RegistrationsHandler) Register(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	eventID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.service.Register(c.UserContext(), p, eventID); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Registered successfully"})
}

// Cancel handles DELETE /api/events/:id/register.
func (h *RegistrationsHandler) Cancel(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	eventID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Cancel(c.UserContext(), p, eventID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Registration cancelled"})
}

// List handles GET /api/events/:id/registrations.
func (h *RegistrationsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	eventID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.service.ListForEvent(c.UserContext(), p, eventID, pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.Registrations(rows))
}

// Manage handles PATCH /api/events/:id/register.
func (h *RegistrationsHandler) Manage(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	eventID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ManageRegistrationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	err = h.service.Manage(c.UserContext(), p, eventID, service.RegistrationManageInput{
		UserID:     req.UserID,
		Status:     req.Status,
		Attendance: req.AttendanceValue(),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Registration updated"})
}

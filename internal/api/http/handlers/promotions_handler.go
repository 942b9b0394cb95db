package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/api/dto"
	"github.com/eventhub/event-service/internal/service"
)

// PromotionsHandler serves the organizer promotion workflow.
type PromotionsHandler struct {
	service *service.PromotionService
}

// NewPromotionsHandler constructs handler.
func NewPromotionsHandler(promotionService *service.PromotionService) *PromotionsHandler {
	return &PromotionsHandler{service: promotionService}
}

// Pending handles GET /api/promotion-requests/:userId. The body is null when
// the user has no pending request.
func (h *PromotionsHandler) Pending(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	request, err := h.service.Pending(c.UserContext(), p, userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Promotion(request))
}

// Request handles POST /api/promotion-requests.
func (h *PromotionsHandler) Request(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	// An unreadable body is treated as empty so role checks still come first.
	var req dto.PromotionRequestBody
	if err := c.BodyParser(&req); err != nil {
		req = dto.PromotionRequestBody{}
	}
	_, err = h.service.Request(c.UserContext(), p, service.PromotionInput{
		RequestedOrganizerName: req.RequestedOrganizerName,
		WhyMessage:             req.WhyMessage,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Promotion request submitted"})
}

// List handles GET /api/promotion-requests.
func (h *PromotionsHandler) List(c *fiber.Ctx) error {
	rows, err := h.service.ListPending(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.PendingPromotions(rows))
}

// Accept handles PATCH /api/promotion-requests/:userId/accept.
func (h *PromotionsHandler) Accept(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.service.Accept(c.UserContext(), p, userID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User promoted to organizer"})
}

// Reject handles PATCH /api/promotion-requests/:userId/reject.
func (h *PromotionsHandler) Reject(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.service.Reject(c.UserContext(), p, userID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Promotion request rejected"})
}

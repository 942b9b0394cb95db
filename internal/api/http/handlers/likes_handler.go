package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/api/dto"
	"github.com/eventhub/event-service/internal/service"
)

// LikesHandler serves like toggles.
type LikesHandler struct {
	service *service.LikeService
}

// NewLikesHandler constructs handler.
func NewLikesHandler(likeService *service.LikeService) *LikesHandler {
	return &LikesHandler{service: likeService}
}

// Like handles POST /api/events/:id/like.
func (h *LikesHandler) Like(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	eventID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Like(c.UserContext(), p, eventID); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Event liked successfully"})
}

// Unlike handles DELETE /api/events/:id/like.
func (h *LikesHandler) Unlike(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	eventID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Unlike(c.UserContext(), p, eventID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Event unliked successfully"})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/service"
)

// StatsHandler serves platform analytics.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Platform handles GET /api/stats/platform.
func (h *StatsHandler) Platform(c *fiber.Ctx) error {
	stats, err := h.service.Platform(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/api/dto"
	"github.com/eventhub/event-service/internal/policy"
	"github.com/eventhub/event-service/internal/service"
)

// CategoriesHandler serves category endpoints.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// List handles GET /api/categories. Admins also see creation dates.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	rows, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	detailed := policy.Permits(p, policy.ResourceCategory, policy.ActionDetailed, 0)
	return c.JSON(dto.Categories(rows, detailed))
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		req = dto.CreateCategoryRequest{}
	}
	category, err := h.service.Create(c.UserContext(), req.CategoryName)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CategoryCreated(category))
}

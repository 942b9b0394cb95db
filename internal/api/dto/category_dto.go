package dto

import "github.com/eventhub/event-service/internal/domain"

// CreateCategoryRequest payload for POST /api/categories.
type CreateCategoryRequest struct {
	CategoryName string `json:"category_name"`
}

// CategoryResponse lists a category. DateCreated is only set for admins.
type CategoryResponse struct {
	ID           int64   `json:"id"`
	CategoryName string  `json:"category_name"`
	DateCreated  *string `json:"date_created,omitempty"`
}

// CategoryCreatedResponse is returned by POST /api/categories.
type CategoryCreatedResponse struct {
	Message      string `json:"message"`
	ID           int64  `json:"id"`
	CategoryName string `json:"category_name"`
	DateCreated  string `json:"date_created"`
}

// Categories maps rows, including the creation date when detailed is set.
func Categories(rows []domain.Category, detailed bool) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(rows))
	for _, c := range rows {
		item := CategoryResponse{ID: c.ID, CategoryName: c.Name}
		if detailed {
			date := formatDate(c.DateCreated)
			item.DateCreated = &date
		}
		out = append(out, item)
	}
	return out
}

// CategoryCreated maps a freshly stored category.
func CategoryCreated(c *domain.Category) CategoryCreatedResponse {
	return CategoryCreatedResponse{
		Message:      "Category created",
		ID:           c.ID,
		CategoryName: c.Name,
		DateCreated:  formatDate(c.DateCreated),
	}
}

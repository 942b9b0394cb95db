package service

import (
	"context"
	"errors"
	"strings"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/repository"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

// CategoryService manages the category catalogue.
type CategoryService struct {
	categories repository.CategoryRepository
	now        Clock
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository, clock Clock) *CategoryService {
	return &CategoryService{categories: categories, now: clock.orDefault()}
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Create stores a category under its lower-cased, trimmed name.
func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.ToLower(sanitizePlain(name))
	if name == "" {
		return nil, apperrors.NewValidationError("category_name is required")
	}

	category := &domain.Category{Name: name, DateCreated: domain.DateOf(s.now())}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("Category already exists")
		}
		return nil, err
	}
	return category, nil
}

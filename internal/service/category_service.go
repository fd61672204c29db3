package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// CategoryService handles category business logic
type CategoryService struct {
	eventSource
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// UpdateCategoryInput holds the optional fields of a category update
type UpdateCategoryInput struct {
	Name     *string
	Location *domain.Location
}

// CreateCategory creates a category; an empty location defaults to finance
func (s *CategoryService) CreateCategory(ctx context.Context, name string, location domain.Location) (*domain.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	if location == "" {
		location = domain.DefaultLocation
	}
	if !location.Valid() {
		return nil, domain.ErrInvalidLocation
	}

	created, err := s.categoryRepo.Create(ctx, &domain.Category{Name: name, Location: location})
	if err != nil {
		return nil, err
	}

	log.Info().Int32("category_id", created.ID).Str("location", string(created.Location)).Msg("Category created")
	s.publishEvent(websocket.Created(websocket.EntityTypeCategory, created))
	return created, nil
}

// GetCategories retrieves all categories
func (s *CategoryService) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// UpdateCategory merges the provided fields into the stored category
func (s *CategoryService) UpdateCategory(ctx context.Context, id int32, input UpdateCategoryInput) (*domain.Category, error) {
	if input.Name == nil && input.Location == nil {
		return nil, domain.ErrNothingToUpdate
	}
	if input.Location != nil && !input.Location.Valid() {
		return nil, domain.ErrInvalidLocation
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		category.Name = name
	}
	if input.Location != nil {
		category.Location = *input.Location
	}

	updated, err := s.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Updated(websocket.EntityTypeCategory, updated))
	return updated, nil
}

// DeleteCategory removes a category
func (s *CategoryService) DeleteCategory(ctx context.Context, id int32) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(websocket.Deleted(websocket.EntityTypeCategory, id))
	return nil
}

// validateName trims a required name and enforces the length limit
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// validateTitle trims a required title and enforces the length limit
func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return "", domain.ErrTitleTooLong
	}
	return title, nil
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// UpdateCategoryRequest represents the update category request body
type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// CreateCategory handles POST /categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} CategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, domain.Location(req.Location))
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		return NewConflictError(c, "Categoria já existe ou erro ao criar")
	}

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CategoryResponse
// @Failure 401 {object} ProblemDetails
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryService.GetCategories(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get categories")
		return NewInternalError(c, "Erro ao buscar categorias")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateCategory handles PUT /categories/:id
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	input := service.UpdateCategoryInput{Name: req.Name}
	if req.Location != nil {
		location := domain.Location(*req.Location)
		input.Location = &location
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, input)
	if err != nil {
		if errors.Is(err, domain.ErrNothingToUpdate) {
			return NewValidationError(c, "Informe name ou location para atualizar", nil)
		}
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("category_id", id).Msg("Failed to update category")
		return NewInternalError(c, "Erro ao atualizar categoria")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /categories/:id
// @Summary Delete category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("category_id", id).Msg("Failed to delete category")
		return NewInternalError(c, "Erro ao deletar categoria")
	}

	return c.NoContent(http.StatusNoContent)
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Location: string(c.Location),
	}
}

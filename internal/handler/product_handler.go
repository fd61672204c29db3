package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
)

// ProductHandler handles inventory HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest is used for both create and update; omitted fields are left unchanged on update
type ProductRequest struct {
	Name     *string `json:"name,omitempty"`
	Quantity *int32  `json:"quantity,omitempty"`
	Category *string `json:"category,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	MinStock *int32  `json:"minStock,omitempty"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	MinStock int32  `json:"minStock"`
	LowStock bool   `json:"lowStock"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:     r.Name,
		Quantity: r.Quantity,
		Category: r.Category,
		Unit:     r.Unit,
		MinStock: r.MinStock,
	}
}

// CreateProduct handles POST /products
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	product, err := h.productService.CreateProduct(c.Request().Context(), req.toInput())
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Msg("Failed to create product")
		return NewInternalError(c, "Erro ao criar produto")
	}

	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// GetProducts handles GET /products
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProductResponse
// @Failure 401 {object} ProblemDetails
// @Router /products [get]
func (h *ProductHandler) GetProducts(c echo.Context) error {
	products, err := h.productService.GetProducts(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get products")
		return NewInternalError(c, "Erro ao buscar produtos")
	}

	response := make([]ProductResponse, len(products))
	for i, product := range products {
		response[i] = toProductResponse(product)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateProduct handles PUT /products/:id
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), id, req.toInput())
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("product_id", id).Msg("Failed to update product")
		return NewInternalError(c, "Erro ao atualizar produto")
	}

	return c.JSON(http.StatusOK, toProductResponse(product))
}

// DeleteProduct handles DELETE /products/:id
// @Summary Delete product
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("product_id", id).Msg("Failed to delete product")
		return NewInternalError(c, "Erro ao deletar produto")
	}

	return c.NoContent(http.StatusNoContent)
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Quantity: p.Quantity,
		Category: p.Category,
		Unit:     p.Unit,
		MinStock: p.MinStock,
		LowStock: p.LowStock(),
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
)

// FinancialHandler handles income and expense HTTP requests
type FinancialHandler struct {
	financialService *service.FinancialService
}

// NewFinancialHandler creates a new FinancialHandler
func NewFinancialHandler(financialService *service.FinancialService) *FinancialHandler {
	return &FinancialHandler{financialService: financialService}
}

// CreateFinancialRequest represents the create financial request body.
// Amount accepts a JSON number or a numeric string.
type CreateFinancialRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"150.00"`
	Type        string          `json:"type" example:"income"`
}

// UpdateFinancialRequest represents the update financial request body
type UpdateFinancialRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty" swaggertype:"string" example:"150.00"`
	Type        *string          `json:"type,omitempty" example:"expense"`
}

// FinancialResponse represents a financial record in API responses
type FinancialResponse struct {
	ID          int32  `json:"id"`
	AuthorID    *int32 `json:"author_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	CreatedAt   string `json:"created_at"`
}

// FinancialSummaryResponse holds totals over every financial record
type FinancialSummaryResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
	Count   int64  `json:"count"`
}

// Lookup loads a financial record for the ownership guard
func (h *FinancialHandler) Lookup(ctx context.Context, id int32) (domain.Owned, error) {
	return h.financialService.GetFinancial(ctx, id)
}

// CreateFinancial handles POST /financials
// @Summary Create financial record
// @Tags financials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFinancialRequest true "Financial record"
// @Success 201 {object} FinancialResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /financials [post]
func (h *FinancialHandler) CreateFinancial(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Token não fornecido")
	}

	var req CreateFinancialRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	financial, err := h.financialService.CreateFinancial(
		c.Request().Context(),
		identity.UserID,
		req.Description,
		req.Amount,
		domain.FinancialType(req.Type),
	)
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("user_id", identity.UserID).Msg("Failed to create financial record")
		return NewInternalError(c, "Erro ao criar registro financeiro")
	}

	return c.JSON(http.StatusCreated, toFinancialResponse(financial))
}

// GetFinancials handles GET /financials
// @Summary List financial records
// @Tags financials
// @Produce json
// @Security BearerAuth
// @Success 200 {array} FinancialResponse
// @Failure 401 {object} ProblemDetails
// @Router /financials [get]
func (h *FinancialHandler) GetFinancials(c echo.Context) error {
	financials, err := h.financialService.GetFinancials(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get financial records")
		return NewInternalError(c, "Erro ao buscar registros financeiros")
	}

	response := make([]FinancialResponse, len(financials))
	for i, financial := range financials {
		response[i] = toFinancialResponse(financial)
	}
	return c.JSON(http.StatusOK, response)
}

// GetSummary handles GET /financials/summary
// @Summary Financial totals
// @Tags financials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} FinancialSummaryResponse
// @Failure 401 {object} ProblemDetails
// @Router /financials/summary [get]
func (h *FinancialHandler) GetSummary(c echo.Context) error {
	summary, err := h.financialService.GetSummary(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get financial summary")
		return NewInternalError(c, "Erro ao calcular resumo financeiro")
	}

	return c.JSON(http.StatusOK, FinancialSummaryResponse{
		Income:  summary.Income.StringFixed(2),
		Expense: summary.Expense.StringFixed(2),
		Balance: summary.Balance.StringFixed(2),
		Count:   summary.Count,
	})
}

// UpdateFinancial handles PUT /financials/:id (author or admin)
// @Summary Update financial record
// @Tags financials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Financial ID"
// @Param request body UpdateFinancialRequest true "Fields to change"
// @Success 200 {object} FinancialResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /financials/{id} [put]
func (h *FinancialHandler) UpdateFinancial(c echo.Context) error {
	existing, err := h.loadFinancial(c)
	if err != nil {
		return respondLoadError(c, err)
	}

	var req UpdateFinancialRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	input := service.UpdateFinancialInput{
		Description: req.Description,
		Amount:      req.Amount,
	}
	if req.Type != nil {
		financialType := domain.FinancialType(*req.Type)
		input.Type = &financialType
	}

	financial, err := h.financialService.UpdateFinancial(c.Request().Context(), existing, input)
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("financial_id", existing.ID).Msg("Failed to update financial record")
		return NewInternalError(c, "Erro ao atualizar registro financeiro")
	}

	return c.JSON(http.StatusOK, toFinancialResponse(financial))
}

// DeleteFinancial handles DELETE /financials/:id (author or admin)
// @Summary Delete financial record
// @Tags financials
// @Security BearerAuth
// @Param id path int true "Financial ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /financials/{id} [delete]
func (h *FinancialHandler) DeleteFinancial(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	if err := h.financialService.DeleteFinancial(c.Request().Context(), id); err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("financial_id", id).Msg("Failed to delete financial record")
		return NewInternalError(c, "Erro ao deletar registro financeiro")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *FinancialHandler) loadFinancial(c echo.Context) (*domain.Financial, error) {
	if record, ok := middleware.GetRecord(c).(*domain.Financial); ok {
		return record, nil
	}
	id, err := middleware.ParseID(c)
	if err != nil {
		return nil, errInvalidID
	}
	return h.financialService.GetFinancial(c.Request().Context(), id)
}

func toFinancialResponse(f *domain.Financial) FinancialResponse {
	return FinancialResponse{
		ID:          f.ID,
		AuthorID:    f.AuthorID,
		Description: f.Description,
		Amount:      f.Amount.StringFixed(2),
		Type:        string(f.Type),
		CreatedAt:   formatTime(f.CreatedAt),
	}
}

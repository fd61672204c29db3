package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
)

// CommunicationHandler handles communication HTTP requests
type CommunicationHandler struct {
	communicationService *service.CommunicationService
}

// NewCommunicationHandler creates a new CommunicationHandler
func NewCommunicationHandler(communicationService *service.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{communicationService: communicationService}
}

// CreateCommunicationRequest represents the create communication request body
type CreateCommunicationRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateCommunicationRequest represents the update communication request body
type UpdateCommunicationRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// CommunicationResponse represents a communication in API responses
type CommunicationResponse struct {
	ID        int32  `json:"id"`
	AuthorID  *int32 `json:"author_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Lookup loads a communication for the ownership guard
func (h *CommunicationHandler) Lookup(ctx context.Context, id int32) (domain.Owned, error) {
	return h.communicationService.GetCommunication(ctx, id)
}

// CreateCommunication handles POST /communications
// @Summary Create communication
// @Tags communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommunicationRequest true "Communication"
// @Success 201 {object} CommunicationResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /communications [post]
func (h *CommunicationHandler) CreateCommunication(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Token não fornecido")
	}

	var req CreateCommunicationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	communication, err := h.communicationService.CreateCommunication(c.Request().Context(), identity.UserID, req.Title, req.Content)
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("user_id", identity.UserID).Msg("Failed to create communication")
		return NewInternalError(c, "Erro ao criar comunicação")
	}

	return c.JSON(http.StatusCreated, toCommunicationResponse(communication))
}

// GetCommunications handles GET /communications
// @Summary List communications
// @Tags communications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CommunicationResponse
// @Failure 401 {object} ProblemDetails
// @Router /communications [get]
func (h *CommunicationHandler) GetCommunications(c echo.Context) error {
	communications, err := h.communicationService.GetCommunications(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get communications")
		return NewInternalError(c, "Erro ao buscar comunicações")
	}

	response := make([]CommunicationResponse, len(communications))
	for i, communication := range communications {
		response[i] = toCommunicationResponse(communication)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateCommunication handles PUT /communications/:id (author or admin)
// @Summary Update communication
// @Tags communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Communication ID"
// @Param request body UpdateCommunicationRequest true "Fields to change"
// @Success 200 {object} CommunicationResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /communications/{id} [put]
func (h *CommunicationHandler) UpdateCommunication(c echo.Context) error {
	existing, err := h.loadCommunication(c)
	if err != nil {
		return respondLoadError(c, err)
	}

	var req UpdateCommunicationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	communication, err := h.communicationService.UpdateCommunication(c.Request().Context(), existing, service.UpdateCommunicationInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("communication_id", existing.ID).Msg("Failed to update communication")
		return NewInternalError(c, "Erro ao atualizar comunicação")
	}

	return c.JSON(http.StatusOK, toCommunicationResponse(communication))
}

// DeleteCommunication handles DELETE /communications/:id (author or admin)
// @Summary Delete communication
// @Tags communications
// @Security BearerAuth
// @Param id path int true "Communication ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /communications/{id} [delete]
func (h *CommunicationHandler) DeleteCommunication(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	if err := h.communicationService.DeleteCommunication(c.Request().Context(), id); err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("communication_id", id).Msg("Failed to delete communication")
		return NewInternalError(c, "Erro ao deletar comunicação")
	}

	return c.NoContent(http.StatusNoContent)
}

// loadCommunication returns the record the ownership guard already loaded,
// reading it again only when the guard did not run.
func (h *CommunicationHandler) loadCommunication(c echo.Context) (*domain.Communication, error) {
	if record, ok := middleware.GetRecord(c).(*domain.Communication); ok {
		return record, nil
	}
	id, err := middleware.ParseID(c)
	if err != nil {
		return nil, errInvalidID
	}
	return h.communicationService.GetCommunication(c.Request().Context(), id)
}

func toCommunicationResponse(m *domain.Communication) CommunicationResponse {
	return CommunicationResponse{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: formatTime(m.CreatedAt),
	}
}

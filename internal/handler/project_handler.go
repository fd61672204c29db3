package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents the create project request body
type CreateProjectRequest struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty" example:"a fazer"`
}

// UpdateProjectRequest represents the update project request body
type UpdateProjectRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty" example:"em andamento"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CreateProject handles POST /projects
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), req.Name, domain.Status(req.Status))
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create project")
		return NewInternalError(c, "Erro ao criar projeto")
	}

	return c.JSON(http.StatusCreated, toProjectResponse(project))
}

// GetProjects handles GET /projects
// @Summary List projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProjectResponse
// @Failure 401 {object} ProblemDetails
// @Router /projects [get]
func (h *ProjectHandler) GetProjects(c echo.Context) error {
	projects, err := h.projectService.GetProjects(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get projects")
		return NewInternalError(c, "Erro ao buscar projetos")
	}

	response := make([]ProjectResponse, len(projects))
	for i, project := range projects {
		response[i] = toProjectResponse(project)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateProject handles PUT /projects/:id
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body UpdateProjectRequest true "Fields to change"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	input := service.UpdateProjectInput{Name: req.Name}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		input.Status = &status
	}

	project, err := h.projectService.UpdateProject(c.Request().Context(), id, input)
	if err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("project_id", id).Msg("Failed to update project")
		return NewInternalError(c, "Erro ao atualizar projeto")
	}

	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// DeleteProject handles DELETE /projects/:id; the project's tasks are deleted with it
// @Summary Delete project
// @Tags projects
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	if err := h.projectService.DeleteProject(c.Request().Context(), id); err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("project_id", id).Msg("Failed to delete project")
		return NewInternalError(c, "Erro ao deletar projeto")
	}

	return c.NoContent(http.StatusNoContent)
}

func toProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: formatTime(p.CreatedAt),
	}
}

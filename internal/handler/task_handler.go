package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/middleware"
	"github.com/sistema-salt/salt-backend/internal/service"
)

// TaskHandler handles kanban task HTTP requests
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents the create task request body
type CreateTaskRequest struct {
	Title     string `json:"title"`
	ProjectID *int32 `json:"project_id"`
	Status    string `json:"status,omitempty" example:"a fazer"`
}

// UpdateTaskRequest represents the update task request body.
// Sending project_id moves the task to that project.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	ProjectID *int32  `json:"project_id,omitempty"`
	Status    *string `json:"status,omitempty" example:"concluido"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID        int32  `json:"id"`
	ProjectID *int32 `json:"project_id"`
	AuthorID  *int32 `json:"author_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Lookup loads a task for the ownership guard
func (h *TaskHandler) Lookup(ctx context.Context, id int32) (domain.Owned, error) {
	return h.taskService.GetTask(ctx, id)
}

// CreateTask handles POST /tasks
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Token não fornecido")
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), identity.UserID, req.ProjectID, req.Title, domain.Status(req.Status))
	if err != nil {
		return h.writeError(c, err, "Erro ao criar tarefa")
	}

	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// GetTasks handles GET /tasks
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TaskResponse
// @Failure 401 {object} ProblemDetails
// @Router /tasks [get]
func (h *TaskHandler) GetTasks(c echo.Context) error {
	tasks, err := h.taskService.GetTasks(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get tasks")
		return NewInternalError(c, "Erro ao buscar tarefas")
	}

	response := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = toTaskResponse(task)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateTask handles PUT /tasks/:id (author or admin)
// @Summary Update or move task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	existing, err := h.loadTask(c)
	if err != nil {
		return respondLoadError(c, err)
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, msgInvalidBody, nil)
	}

	input := service.UpdateTaskInput{
		Title:     req.Title,
		ProjectID: req.ProjectID,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		input.Status = &status
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), existing, input)
	if err != nil {
		return h.writeError(c, err, "Erro ao atualizar tarefa")
	}

	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// DeleteTask handles DELETE /tasks/:id (author or admin)
// @Summary Delete task
// @Tags tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return NewValidationError(c, "ID inválido", nil)
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		if handled, resp := respondDomainError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("task_id", id).Msg("Failed to delete task")
		return NewInternalError(c, "Erro ao deletar tarefa")
	}

	return c.NoContent(http.StatusNoContent)
}

// writeError maps task write errors. A missing destination project is a bad
// request here, since the project id came from the request body.
func (h *TaskHandler) writeError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, domain.ErrProjectNotFound) {
		return NewValidationError(c, "Projeto não encontrado", []ValidationError{
			{Field: "project_id", Message: "Projeto não encontrado"},
		})
	}
	if handled, resp := respondDomainError(c, err); handled {
		return resp
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("Failed to write task")
	return NewInternalError(c, fallback)
}

func (h *TaskHandler) loadTask(c echo.Context) (*domain.Task, error) {
	if record, ok := middleware.GetRecord(c).(*domain.Task); ok {
		return record, nil
	}
	id, err := middleware.ParseID(c)
	if err != nil {
		return nil, errInvalidID
	}
	return h.taskService.GetTask(c.Request().Context(), id)
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		AuthorID:  t.AuthorID,
		Title:     t.Title,
		Status:    string(t.Status),
		CreatedAt: formatTime(t.CreatedAt),
	}
}

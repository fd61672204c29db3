package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// TaskService handles kanban tasks
type TaskService struct {
	eventSource
	taskRepo domain.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo domain.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// UpdateTaskInput holds the optional fields of a task update.
// A non-nil ProjectID moves the task to that project.
type UpdateTaskInput struct {
	Title     *string
	Status    *domain.Status
	ProjectID *int32
}

// CreateTask creates a task in a project, authored by authorID
func (s *TaskService) CreateTask(ctx context.Context, authorID int32, projectID *int32, title string, status domain.Status) (*domain.Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	if projectID == nil {
		return nil, domain.ErrProjectIDRequired
	}
	status, err = validateStatus(status)
	if err != nil {
		return nil, err
	}

	created, err := s.taskRepo.Create(ctx, &domain.Task{
		ProjectID: projectID,
		AuthorID:  &authorID,
		Title:     title,
		Status:    status,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("task_id", created.ID).
		Int32("project_id", *created.ProjectID).
		Int32("author_id", authorID).
		Msg("Task created")
	s.publishEvent(websocket.Created(websocket.EntityTypeTask, created))
	return created, nil
}

// GetTasks retrieves all tasks, newest first
func (s *TaskService) GetTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.taskRepo.GetAll(ctx)
}

// GetTask retrieves a single task
func (s *TaskService) GetTask(ctx context.Context, id int32) (*domain.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// UpdateTask merges the provided fields into an already loaded task.
// When a project is given the task is moved and its fields written in one transaction.
func (s *TaskService) UpdateTask(ctx context.Context, existing *domain.Task, input UpdateTaskInput) (*domain.Task, error) {
	if input.Title == nil && input.Status == nil && input.ProjectID == nil {
		return nil, domain.ErrNothingToUpdate
	}

	merged := *existing
	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		merged.Title = title
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		merged.Status = *input.Status
	}

	var (
		updated *domain.Task
		err     error
	)
	if input.ProjectID != nil {
		merged.ProjectID = input.ProjectID
		updated, err = s.taskRepo.Move(ctx, &merged)
	} else {
		updated, err = s.taskRepo.Update(ctx, &merged)
	}
	if err != nil {
		return nil, err
	}

	if input.ProjectID != nil {
		log.Info().
			Int32("task_id", updated.ID).
			Int32("project_id", *input.ProjectID).
			Str("status", string(updated.Status)).
			Msg("Task moved")
	}
	s.publishEvent(websocket.Updated(websocket.EntityTypeTask, updated))
	return updated, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, id int32) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(websocket.Deleted(websocket.EntityTypeTask, id))
	return nil
}

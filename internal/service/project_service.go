package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// ProjectService handles kanban projects
type ProjectService struct {
	eventSource
	projectRepo domain.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo domain.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// UpdateProjectInput holds the optional fields of a project update
type UpdateProjectInput struct {
	Name   *string
	Status *domain.Status
}

// CreateProject creates a project; an empty status defaults to "a fazer"
func (s *ProjectService) CreateProject(ctx context.Context, name string, status domain.Status) (*domain.Project, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	status, err = validateStatus(status)
	if err != nil {
		return nil, err
	}

	created, err := s.projectRepo.Create(ctx, &domain.Project{Name: name, Status: status})
	if err != nil {
		return nil, err
	}

	log.Info().Int32("project_id", created.ID).Str("name", created.Name).Msg("Project created")
	s.publishEvent(websocket.Created(websocket.EntityTypeProject, created))
	return created, nil
}

// GetProjects retrieves all projects, newest first
func (s *ProjectService) GetProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projectRepo.GetAll(ctx)
}

// UpdateProject merges the provided fields into the stored project
func (s *ProjectService) UpdateProject(ctx context.Context, id int32, input UpdateProjectInput) (*domain.Project, error) {
	if input.Name == nil && input.Status == nil {
		return nil, domain.ErrNothingToUpdate
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		project.Name = name
	}
	if input.Status != nil {
		project.Status = *input.Status
	}

	updated, err := s.projectRepo.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Updated(websocket.EntityTypeProject, updated))
	return updated, nil
}

// DeleteProject removes a project together with its tasks
func (s *ProjectService) DeleteProject(ctx context.Context, id int32) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int32("project_id", id).Msg("Project deleted with its tasks")
	s.publishEvent(websocket.Deleted(websocket.EntityTypeProject, id))
	return nil
}

func validateStatus(status domain.Status) (domain.Status, error) {
	if status == "" {
		return domain.DefaultStatus, nil
	}
	if !status.Valid() {
		return "", domain.ErrInvalidStatus
	}
	return status, nil
}

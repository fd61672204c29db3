package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/testutil"
)

func statusPtr(s domain.Status) *domain.Status {
	return &s
}

func TestCreateProject_DefaultStatus(t *testing.T) {
	projectService := NewProjectService(testutil.NewMockProjectRepository())

	project, err := projectService.CreateProject(context.Background(), "Reforma", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if project.Status != domain.StatusTodo {
		t.Errorf("Expected status 'a fazer', got %q", project.Status)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	projectService := NewProjectService(testutil.NewMockProjectRepository())
	ctx := context.Background()

	if _, err := projectService.CreateProject(ctx, "", ""); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
	if _, err := projectService.CreateProject(ctx, "Reforma", "pausado"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateProject_PartialMerge(t *testing.T) {
	projectRepo := testutil.NewMockProjectRepository()
	projectRepo.AddProject(&domain.Project{ID: 1, Name: "Reforma", Status: domain.StatusTodo})
	projectService := NewProjectService(projectRepo)
	ctx := context.Background()

	updated, err := projectService.UpdateProject(ctx, 1, UpdateProjectInput{Status: statusPtr(domain.StatusInProgress)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "Reforma" || updated.Status != domain.StatusInProgress {
		t.Errorf("Unexpected project after update: %+v", updated)
	}

	if _, err := projectService.UpdateProject(ctx, 1, UpdateProjectInput{Status: statusPtr("x")}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
	if _, err := projectService.UpdateProject(ctx, 2, UpdateProjectInput{Name: testutil.StringPtr("X")}); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestDeleteProject_CascadesTasks(t *testing.T) {
	store := testutil.NewMockStore()
	store.Projects.AddProject(&domain.Project{ID: 1, Name: "Reforma", Status: domain.StatusTodo})
	store.Projects.AddProject(&domain.Project{ID: 2, Name: "Inventário", Status: domain.StatusTodo})
	store.Tasks.AddTask(&domain.Task{ID: 1, ProjectID: testutil.Int32Ptr(1), Title: "Pintar", Status: domain.StatusTodo})
	store.Tasks.AddTask(&domain.Task{ID: 2, ProjectID: testutil.Int32Ptr(1), Title: "Lixar", Status: domain.StatusDone})
	store.Tasks.AddTask(&domain.Task{ID: 3, ProjectID: testutil.Int32Ptr(2), Title: "Contar", Status: domain.StatusTodo})

	projectService := NewProjectService(store.Projects)
	ctx := context.Background()

	if err := projectService.DeleteProject(ctx, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	tasks, err := store.Tasks.GetAll(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != 3 {
		t.Errorf("Expected only task 3 to remain, got %+v", tasks)
	}
}

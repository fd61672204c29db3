package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/testutil"
)

func newTaskFixture(t *testing.T) (*TaskService, *testutil.MockStore) {
	t.Helper()
	store := testutil.NewMockStore()
	store.Users.AddUser(&domain.User{ID: 2, Name: "Ana", Role: domain.RoleUser})
	store.Projects.AddProject(&domain.Project{ID: 1, Name: "Reforma", Status: domain.StatusTodo})
	store.Projects.AddProject(&domain.Project{ID: 2, Name: "Inventário", Status: domain.StatusTodo})
	store.Tasks.AddTask(&domain.Task{ID: 1, ProjectID: testutil.Int32Ptr(1), AuthorID: testutil.Int32Ptr(2), Title: "Pintar", Status: domain.StatusTodo})
	return NewTaskService(store.Tasks), store
}

func TestCreateTask(t *testing.T) {
	taskService, _ := newTaskFixture(t)

	task, err := taskService.CreateTask(context.Background(), 2, testutil.Int32Ptr(1), "Comprar tinta", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Status != domain.StatusTodo {
		t.Errorf("Expected default status, got %q", task.Status)
	}
	if task.AuthorID == nil || *task.AuthorID != 2 {
		t.Errorf("Expected author 2, got %v", task.AuthorID)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	taskService, _ := newTaskFixture(t)
	ctx := context.Background()

	if _, err := taskService.CreateTask(ctx, 2, testutil.Int32Ptr(1), "", ""); !errors.Is(err, domain.ErrTitleRequired) {
		t.Errorf("Expected ErrTitleRequired, got %v", err)
	}
	if _, err := taskService.CreateTask(ctx, 2, nil, "X", ""); !errors.Is(err, domain.ErrProjectIDRequired) {
		t.Errorf("Expected ErrProjectIDRequired, got %v", err)
	}
	if _, err := taskService.CreateTask(ctx, 2, testutil.Int32Ptr(1), "X", "feito"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
	if _, err := taskService.CreateTask(ctx, 2, testutil.Int32Ptr(50), "X", ""); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestUpdateTask_StatusOnly(t *testing.T) {
	taskService, _ := newTaskFixture(t)
	ctx := context.Background()

	existing, err := taskService.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := taskService.UpdateTask(ctx, existing, UpdateTaskInput{Status: statusPtr(domain.StatusDone)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Title != "Pintar" || updated.Status != domain.StatusDone || *updated.ProjectID != 1 {
		t.Errorf("Unexpected task after update: %+v", updated)
	}
}

func TestUpdateTask_MoveUpdatesProjectAndStatusTogether(t *testing.T) {
	taskService, _ := newTaskFixture(t)
	publisher := &recordingPublisher{}
	taskService.SetEventPublisher(publisher)
	ctx := context.Background()

	existing, err := taskService.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	moved, err := taskService.UpdateTask(ctx, existing, UpdateTaskInput{
		ProjectID: testutil.Int32Ptr(2),
		Status:    statusPtr(domain.StatusInProgress),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *moved.ProjectID != 2 || moved.Status != domain.StatusInProgress {
		t.Errorf("Expected task in project 2 and 'em andamento', got %+v", moved)
	}
	if got := publisher.types(); len(got) != 1 || got[0] != "task.updated" {
		t.Errorf("Expected [task.updated], got %v", got)
	}
}

func TestUpdateTask_MoveToUnknownProjectChangesNothing(t *testing.T) {
	taskService, store := newTaskFixture(t)
	ctx := context.Background()

	existing, err := taskService.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = taskService.UpdateTask(ctx, existing, UpdateTaskInput{
		ProjectID: testutil.Int32Ptr(99),
		Status:    statusPtr(domain.StatusDone),
	})
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("Expected ErrProjectNotFound, got %v", err)
	}

	stored, err := store.Tasks.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *stored.ProjectID != 1 || stored.Status != domain.StatusTodo {
		t.Errorf("Failed move must leave the task untouched, got %+v", stored)
	}
}

func TestUpdateTask_NothingToUpdate(t *testing.T) {
	taskService, _ := newTaskFixture(t)
	existing, _ := taskService.GetTask(context.Background(), 1)

	if _, err := taskService.UpdateTask(context.Background(), existing, UpdateTaskInput{}); !errors.Is(err, domain.ErrNothingToUpdate) {
		t.Errorf("Expected ErrNothingToUpdate, got %v", err)
	}
}

package domain

import (
	"context"
	"time"
)

// Status is the kanban column shared by projects and tasks
type Status string

const (
	StatusTodo       Status = "a fazer"
	StatusInProgress Status = "em andamento"
	StatusDone       Status = "concluido"
)

// DefaultStatus is applied when a project or task is created without one
const DefaultStatus = StatusTodo

// Statuses lists the kanban columns in board order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Project struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	GetByID(ctx context.Context, id int32) (*Project, error)
	GetAll(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	Delete(ctx context.Context, id int32) error
}

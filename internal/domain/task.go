package domain

import (
	"context"
	"time"
)

type Task struct {
	ID        int32     `json:"id"`
	ProjectID *int32    `json:"project_id"`
	AuthorID  *int32    `json:"author_id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID implements Owned
func (t *Task) OwnerID() *int32 {
	return t.AuthorID
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	GetByID(ctx context.Context, id int32) (*Task, error)
	GetAll(ctx context.Context) ([]*Task, error)
	Update(ctx context.Context, task *Task) (*Task, error)
	// Move updates the task's project and status in one transaction,
	// failing with ErrProjectNotFound when the destination does not exist.
	Move(ctx context.Context, task *Task) (*Task, error)
	Delete(ctx context.Context, id int32) error
}

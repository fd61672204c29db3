package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

const taskColumns = `id, project_id, author_id, title, status, created_at`

// TaskRepository implements domain.TaskRepository using PostgreSQL
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, project_id, author_id, status) VALUES ($1, $2, $3, $4) RETURNING `+taskColumns,
		t.Title, t.ProjectID, t.AuthorID, string(t.Status),
	))
	if err != nil {
		return nil, translateTaskError(err)
	}
	return created, nil
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id int32) (*domain.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		return nil, translateTaskError(err)
	}
	return t, nil
}

// GetAll retrieves all tasks, newest first
func (r *TaskRepository) GetAll(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTask)
}

// Update writes title and status of an existing task
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	return updateTask(ctx, r.pool, t)
}

// Move reassigns a task to another project and writes its title and status,
// all inside one transaction that holds a share lock on the destination project
// so it cannot be deleted halfway through.
func (r *TaskRepository) Move(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if t.ProjectID == nil {
		return nil, domain.ErrProjectIDRequired
	}

	var moved *domain.Task
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var projectID int32
		err := tx.QueryRow(ctx, `SELECT id FROM projects WHERE id = $1 FOR SHARE`, *t.ProjectID).Scan(&projectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrProjectNotFound
			}
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE tasks SET project_id = $1 WHERE id = $2`, projectID, t.ID)
		if err != nil {
			return translateTaskError(err)
		}

		moved, err = updateTask(ctx, tx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func updateTask(ctx context.Context, q querier, t *domain.Task) (*domain.Task, error) {
	updated, err := scanTask(q.QueryRow(ctx,
		`UPDATE tasks SET title = $1, status = $2 WHERE id = $3 RETURNING `+taskColumns,
		t.Title, string(t.Status), t.ID,
	))
	if err != nil {
		return nil, translateTaskError(err)
	}
	return updated, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status string
	if err := row.Scan(&t.ID, &t.ProjectID, &t.AuthorID, &t.Title, &status, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.Status(status)
	return &t, nil
}

func translateTaskError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrTaskNotFound
	case isPgCheckViolation(err):
		return domain.ErrInvalidStatus
	case isPgForeignKeyViolation(err):
		return domain.ErrProjectNotFound
	}
	return err
}

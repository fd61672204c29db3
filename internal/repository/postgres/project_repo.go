package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

const projectColumns = `id, name, status, created_at`

// ProjectRepository implements domain.ProjectRepository using PostgreSQL
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	created, err := scanProject(r.pool.QueryRow(ctx,
		`INSERT INTO projects (name, status) VALUES ($1, $2) RETURNING `+projectColumns,
		p.Name, string(p.Status),
	))
	if err != nil {
		return nil, translateProjectError(err)
	}
	return created, nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int32) (*domain.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return nil, translateProjectError(err)
	}
	return p, nil
}

// GetAll retrieves all projects, newest first
func (r *ProjectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProject)
}

// Update writes name and status of an existing project
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	updated, err := scanProject(r.pool.QueryRow(ctx,
		`UPDATE projects SET name = $1, status = $2 WHERE id = $3 RETURNING `+projectColumns,
		p.Name, string(p.Status), p.ID,
	))
	if err != nil {
		return nil, translateProjectError(err)
	}
	return updated, nil
}

// Delete removes a project and, through the foreign key, its tasks
func (r *ProjectRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var status string
	if err := row.Scan(&p.ID, &p.Name, &status, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Status = domain.Status(status)
	return &p, nil
}

func translateProjectError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrProjectNotFound
	case isPgCheckViolation(err):
		return domain.ErrInvalidStatus
	}
	return err
}

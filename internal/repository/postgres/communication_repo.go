package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

const communicationColumns = `id, author_id, title, content, created_at`

// CommunicationRepository implements domain.CommunicationRepository using PostgreSQL
type CommunicationRepository struct {
	pool *pgxpool.Pool
}

// NewCommunicationRepository creates a new CommunicationRepository
func NewCommunicationRepository(pool *pgxpool.Pool) *CommunicationRepository {
	return &CommunicationRepository{pool: pool}
}

// Create creates a new communication post
func (r *CommunicationRepository) Create(ctx context.Context, c *domain.Communication) (*domain.Communication, error) {
	created, err := scanCommunication(r.pool.QueryRow(ctx,
		`INSERT INTO communications (author_id, title, content) VALUES ($1, $2, $3) RETURNING `+communicationColumns,
		c.AuthorID, c.Title, c.Content,
	))
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a communication by its ID
func (r *CommunicationRepository) GetByID(ctx context.Context, id int32) (*domain.Communication, error) {
	c, err := scanCommunication(r.pool.QueryRow(ctx,
		`SELECT `+communicationColumns+` FROM communications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommunicationNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetAll retrieves all communications, newest first
func (r *CommunicationRepository) GetAll(ctx context.Context) ([]*domain.Communication, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+communicationColumns+` FROM communications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCommunication)
}

// Update writes title and content of an existing communication
func (r *CommunicationRepository) Update(ctx context.Context, c *domain.Communication) (*domain.Communication, error) {
	updated, err := scanCommunication(r.pool.QueryRow(ctx,
		`UPDATE communications SET title = $1, content = $2 WHERE id = $3 RETURNING `+communicationColumns,
		c.Title, c.Content, c.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommunicationNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a communication
func (r *CommunicationRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM communications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommunicationNotFound
	}
	return nil
}

func scanCommunication(row pgx.Row) (*domain.Communication, error) {
	var c domain.Communication
	if err := row.Scan(&c.ID, &c.AuthorID, &c.Title, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

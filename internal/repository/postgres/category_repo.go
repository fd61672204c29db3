package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	created, err := scanCategory(r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, location) VALUES ($1, $2) RETURNING id, name, location`,
		category.Name, string(category.Location),
	))
	if err != nil {
		return nil, translateCategoryError(err)
	}
	return created, nil
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	category, err := scanCategory(r.pool.QueryRow(ctx,
		`SELECT id, name, location FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, translateCategoryError(err)
	}
	return category, nil
}

// GetAll retrieves all categories ordered by id
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, location FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCategory)
}

// Update writes name and location of an existing category
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	updated, err := scanCategory(r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $1, location = $2 WHERE id = $3 RETURNING id, name, location`,
		category.Name, string(category.Location), category.ID,
	))
	if err != nil {
		return nil, translateCategoryError(err)
	}
	return updated, nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var location string
	if err := row.Scan(&c.ID, &c.Name, &location); err != nil {
		return nil, err
	}
	c.Location = domain.Location(location)
	return &c, nil
}

func translateCategoryError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrCategoryNotFound
	case isPgUniqueViolation(err):
		return domain.ErrCategoryAlreadyExists
	case isPgCheckViolation(err):
		return domain.ErrInvalidLocation
	}
	return err
}

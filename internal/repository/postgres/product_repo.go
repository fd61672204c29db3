package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

const productColumns = `id, name, quantity, category, unit, min_stock`

// ProductRepository implements domain.ProductRepository using PostgreSQL
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`INSERT INTO products (name, quantity, category, unit, min_stock)
		 VALUES ($1, $2, $3, $4, $5) RETURNING `+productColumns,
		product.Name, product.Quantity, product.Category, product.Unit, product.MinStock,
	))
}

// GetByID retrieves a product by its ID
func (r *ProductRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// GetAll retrieves all products ordered by id
func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}

// Update writes every column of an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	updated, err := scanProduct(r.pool.QueryRow(ctx,
		`UPDATE products SET name = $1, quantity = $2, category = $3, unit = $4, min_stock = $5
		 WHERE id = $6 RETURNING `+productColumns,
		product.Name, product.Quantity, product.Category, product.Unit, product.MinStock, product.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Category, &p.Unit, &p.MinStock); err != nil {
		return nil, err
	}
	return &p, nil
}

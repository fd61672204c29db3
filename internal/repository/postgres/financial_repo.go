package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

const financialColumns = `id, author_id, description, amount, type, created_at`

// FinancialRepository implements domain.FinancialRepository using PostgreSQL
type FinancialRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialRepository creates a new FinancialRepository
func NewFinancialRepository(pool *pgxpool.Pool) *FinancialRepository {
	return &FinancialRepository{pool: pool}
}

// Create creates a new financial record
func (r *FinancialRepository) Create(ctx context.Context, f *domain.Financial) (*domain.Financial, error) {
	amount, err := decimalToPgNumeric(f.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	created, err := scanFinancial(r.pool.QueryRow(ctx,
		`INSERT INTO financials (author_id, description, amount, type) VALUES ($1, $2, $3, $4) RETURNING `+financialColumns,
		f.AuthorID, f.Description, amount, string(f.Type),
	))
	if err != nil {
		return nil, translateFinancialError(err)
	}
	return created, nil
}

// GetByID retrieves a financial record by its ID
func (r *FinancialRepository) GetByID(ctx context.Context, id int32) (*domain.Financial, error) {
	f, err := scanFinancial(r.pool.QueryRow(ctx,
		`SELECT `+financialColumns+` FROM financials WHERE id = $1`, id))
	if err != nil {
		return nil, translateFinancialError(err)
	}
	return f, nil
}

// GetAll retrieves all financial records, newest first
func (r *FinancialRepository) GetAll(ctx context.Context) ([]*domain.Financial, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+financialColumns+` FROM financials ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanFinancial)
}

// Update writes description, amount and type of an existing record
func (r *FinancialRepository) Update(ctx context.Context, f *domain.Financial) (*domain.Financial, error) {
	amount, err := decimalToPgNumeric(f.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	updated, err := scanFinancial(r.pool.QueryRow(ctx,
		`UPDATE financials SET description = $1, amount = $2, type = $3 WHERE id = $4 RETURNING `+financialColumns,
		f.Description, amount, string(f.Type), f.ID,
	))
	if err != nil {
		return nil, translateFinancialError(err)
	}
	return updated, nil
}

// Delete removes a financial record
func (r *FinancialRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM financials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFinancialNotFound
	}
	return nil
}

// Summary totals income and expense across every record
func (r *FinancialRepository) Summary(ctx context.Context) (*domain.FinancialSummary, error) {
	var income, expense pgtype.Numeric
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
			COUNT(*)
		FROM financials`).Scan(&income, &expense, &count)
	if err != nil {
		return nil, err
	}

	summary := &domain.FinancialSummary{
		Income:  pgNumericToDecimal(income),
		Expense: pgNumericToDecimal(expense),
		Count:   count,
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary, nil
}

func scanFinancial(row pgx.Row) (*domain.Financial, error) {
	var f domain.Financial
	var amount pgtype.Numeric
	var financialType string
	if err := row.Scan(&f.ID, &f.AuthorID, &f.Description, &amount, &financialType, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Amount = pgNumericToDecimal(amount)
	f.Type = domain.FinancialType(financialType)
	return &f, nil
}

func translateFinancialError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrFinancialNotFound
	case isPgCheckViolation(err):
		return domain.ErrInvalidFinancialType
	case isPgForeignKeyViolation(err):
		return domain.ErrUserNotFound
	}
	return err
}

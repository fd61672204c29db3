package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type FinancialType string

const (
	FinancialTypeIncome  FinancialType = "income"
	FinancialTypeExpense FinancialType = "expense"
)

// Valid reports whether t is income or expense
func (t FinancialType) Valid() bool {
	return t == FinancialTypeIncome || t == FinancialTypeExpense
}

type Financial struct {
	ID          int32           `json:"id"`
	AuthorID    *int32          `json:"author_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        FinancialType   `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OwnerID implements Owned
func (f *Financial) OwnerID() *int32 {
	return f.AuthorID
}

// FinancialSummary aggregates every financial record
type FinancialSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int64           `json:"count"`
}

// Summarize computes totals over a slice of records
func Summarize(financials []*Financial) FinancialSummary {
	summary := FinancialSummary{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, f := range financials {
		switch f.Type {
		case FinancialTypeIncome:
			summary.Income = summary.Income.Add(f.Amount)
		case FinancialTypeExpense:
			summary.Expense = summary.Expense.Add(f.Amount)
		}
		summary.Count++
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary
}

type FinancialRepository interface {
	Create(ctx context.Context, financial *Financial) (*Financial, error)
	GetByID(ctx context.Context, id int32) (*Financial, error)
	GetAll(ctx context.Context) ([]*Financial, error)
	Update(ctx context.Context, financial *Financial) (*Financial, error)
	Delete(ctx context.Context, id int32) error
	Summary(ctx context.Context) (*FinancialSummary, error)
}

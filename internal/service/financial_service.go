package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// maxAmount is the largest value a NUMERIC(14,2) column holds
var maxAmount = decimal.RequireFromString("999999999999.99")

// FinancialPayload is the WebSocket payload for financial events
type FinancialPayload struct {
	ID          int32     `json:"id"`
	AuthorID    *int32    `json:"author_id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

func toFinancialPayload(f *domain.Financial) FinancialPayload {
	return FinancialPayload{
		ID:          f.ID,
		AuthorID:    f.AuthorID,
		Description: f.Description,
		Amount:      f.Amount.StringFixed(2),
		Type:        string(f.Type),
		CreatedAt:   f.CreatedAt,
	}
}

// FinancialService handles income and expense records
type FinancialService struct {
	eventSource
	financialRepo domain.FinancialRepository
}

// NewFinancialService creates a new FinancialService
func NewFinancialService(financialRepo domain.FinancialRepository) *FinancialService {
	return &FinancialService{financialRepo: financialRepo}
}

// UpdateFinancialInput holds the optional fields of a financial update
type UpdateFinancialInput struct {
	Description *string
	Amount      *decimal.Decimal
	Type        *domain.FinancialType
}

// CreateFinancial records an income or expense authored by authorID
func (s *FinancialService) CreateFinancial(ctx context.Context, authorID int32, description string, amount decimal.Decimal, financialType domain.FinancialType) (*domain.Financial, error) {
	description, err := validateDescription(description)
	if err != nil {
		return nil, err
	}
	amount, err = validateAmount(amount)
	if err != nil {
		return nil, err
	}
	if !financialType.Valid() {
		return nil, domain.ErrInvalidFinancialType
	}

	created, err := s.financialRepo.Create(ctx, &domain.Financial{
		AuthorID:    &authorID,
		Description: description,
		Amount:      amount,
		Type:        financialType,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("financial_id", created.ID).
		Int32("author_id", authorID).
		Str("type", string(created.Type)).
		Str("amount", created.Amount.StringFixed(2)).
		Msg("Financial record created")
	s.publishEvent(websocket.Created(websocket.EntityTypeFinancial, toFinancialPayload(created)))
	return created, nil
}

// GetFinancials retrieves all financial records, newest first
func (s *FinancialService) GetFinancials(ctx context.Context) ([]*domain.Financial, error) {
	return s.financialRepo.GetAll(ctx)
}

// GetFinancial retrieves a single financial record
func (s *FinancialService) GetFinancial(ctx context.Context, id int32) (*domain.Financial, error) {
	return s.financialRepo.GetByID(ctx, id)
}

// GetSummary returns income, expense and balance totals over all records
func (s *FinancialService) GetSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	return s.financialRepo.Summary(ctx)
}

// UpdateFinancial merges the provided fields into an already loaded record
func (s *FinancialService) UpdateFinancial(ctx context.Context, existing *domain.Financial, input UpdateFinancialInput) (*domain.Financial, error) {
	if input.Description == nil && input.Amount == nil && input.Type == nil {
		return nil, domain.ErrNothingToUpdate
	}

	merged := *existing
	if input.Description != nil {
		description, err := validateDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		merged.Description = description
	}
	if input.Amount != nil {
		amount, err := validateAmount(*input.Amount)
		if err != nil {
			return nil, err
		}
		merged.Amount = amount
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, domain.ErrInvalidFinancialType
		}
		merged.Type = *input.Type
	}

	updated, err := s.financialRepo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Updated(websocket.EntityTypeFinancial, toFinancialPayload(updated)))
	return updated, nil
}

// DeleteFinancial removes a financial record
func (s *FinancialService) DeleteFinancial(ctx context.Context, id int32) error {
	if err := s.financialRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(websocket.Deleted(websocket.EntityTypeFinancial, id))
	return nil
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", domain.ErrDescriptionRequired
	}
	return description, nil
}

// validateAmount requires a positive value that fits NUMERIC(14,2); the sign lives in the type
func validateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() || amount.GreaterThan(maxAmount) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount, nil
}

package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// ProductService handles inventory business logic
type ProductService struct {
	eventSource
	productRepo domain.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo domain.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput holds product fields. On create only Name is required;
// on update every nil field keeps its stored value.
type ProductInput struct {
	Name     *string
	Quantity *int32
	Category *string
	Unit     *string
	MinStock *int32
}

func (in ProductInput) empty() bool {
	return in.Name == nil && in.Quantity == nil && in.Category == nil && in.Unit == nil && in.MinStock == nil
}

// apply validates the present fields and writes them onto p
func (in ProductInput) apply(p *domain.Product) error {
	if in.Name != nil {
		name, err := validateName(*in.Name)
		if err != nil {
			return err
		}
		p.Name = name
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return domain.ErrInvalidQuantity
		}
		p.Quantity = *in.Quantity
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return domain.ErrInvalidQuantity
		}
		p.MinStock = *in.MinStock
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Unit != nil {
		p.Unit = strings.TrimSpace(*in.Unit)
	}
	return nil
}

// CreateProduct creates an inventory item
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if input.Name == nil {
		return nil, domain.ErrNameRequired
	}

	product := &domain.Product{}
	if err := input.apply(product); err != nil {
		return nil, err
	}

	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	log.Info().Int32("product_id", created.ID).Str("name", created.Name).Msg("Product created")
	s.publishEvent(websocket.Created(websocket.EntityTypeProduct, created))
	return created, nil
}

// GetProducts retrieves all products
func (s *ProductService) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.GetAll(ctx)
}

// UpdateProduct merges the provided fields into the stored product
func (s *ProductService) UpdateProduct(ctx context.Context, id int32, input ProductInput) (*domain.Product, error) {
	if input.empty() {
		return nil, domain.ErrNothingToUpdate
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(product); err != nil {
		return nil, err
	}

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return nil, err
	}

	if updated.LowStock() {
		log.Warn().
			Int32("product_id", updated.ID).
			Int32("quantity", updated.Quantity).
			Int32("min_stock", updated.MinStock).
			Msg("Product below minimum stock")
	}
	s.publishEvent(websocket.Updated(websocket.EntityTypeProduct, updated))
	return updated, nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id int32) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(websocket.Deleted(websocket.EntityTypeProduct, id))
	return nil
}

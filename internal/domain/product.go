package domain

import "context"

type Product struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	MinStock int32  `json:"minStock"`
}

// LowStock reports whether the product is below its minimum stock level
func (p *Product) LowStock() bool {
	return p.Quantity < p.MinStock
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	GetByID(ctx context.Context, id int32) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	Delete(ctx context.Context, id int32) error
}

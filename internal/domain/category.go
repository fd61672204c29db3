package domain

import "context"

// Location is the screen a category belongs to
type Location string

const (
	LocationFinance       Location = "finance"
	LocationCommunication Location = "communication"
)

// DefaultLocation is applied when a category is created without one
const DefaultLocation = LocationFinance

// Valid reports whether l is a known location
func (l Location) Valid() bool {
	return l == LocationFinance || l == LocationCommunication
}

type Category struct {
	ID       int32    `json:"id"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, id int32) (*Category, error)
	GetAll(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	Delete(ctx context.Context, id int32) error
}

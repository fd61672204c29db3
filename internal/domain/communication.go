package domain

import (
	"context"
	"time"
)

type Communication struct {
	ID        int32     `json:"id"`
	AuthorID  *int32    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID implements Owned
func (c *Communication) OwnerID() *int32 {
	return c.AuthorID
}

type CommunicationRepository interface {
	Create(ctx context.Context, communication *Communication) (*Communication, error)
	GetByID(ctx context.Context, id int32) (*Communication, error)
	GetAll(ctx context.Context) ([]*Communication, error)
	Update(ctx context.Context, communication *Communication) (*Communication, error)
	Delete(ctx context.Context, id int32) error
}

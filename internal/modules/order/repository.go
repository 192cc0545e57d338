package order

import (
	"context"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Repository defines data access for orders. *jsonstore.Collection[Order] satisfies it.
type Repository interface {
	FindAll(ctx context.Context) ([]Order, error)
	FindByID(ctx context.Context, id string) (Order, bool, error)
	Filter(ctx context.Context, keep func(Order) bool) ([]Order, error)
	Create(ctx context.Context, o Order) (Order, error)
	Modify(ctx context.Context, id string, fn func(o *Order) error) (Order, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NewRepository returns a Repository over orders.json.
func NewRepository(db *jsonstore.DB) Repository {
	return jsonstore.NewCollection[Order](db, "orders")
}

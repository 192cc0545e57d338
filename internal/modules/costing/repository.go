package costing

import (
	"context"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Repository defines costing data storage.
type Repository interface {
	FindAll(ctx context.Context) ([]Costing, error)
	FindByID(ctx context.Context, id string) (Costing, bool, error)
	Create(ctx context.Context, c Costing) (Costing, error)
	Modify(ctx context.Context, id string, fn func(c *Costing) error) (Costing, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NewStore returns the costings.json collection.
func NewStore(db *jsonstore.DB) Repository {
	return jsonstore.NewCollection[Costing](db, "costings")
}

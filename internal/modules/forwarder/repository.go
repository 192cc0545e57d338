package forwarder

import (
	"context"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Repository defines forwarder data storage. *jsonstore.Collection[Forwarder] satisfies it.
type Repository interface {
	FindAll(ctx context.Context) ([]Forwarder, error)
	FindByID(ctx context.Context, id string) (Forwarder, bool, error)
	Create(ctx context.Context, f Forwarder) (Forwarder, error)
	Modify(ctx context.Context, id string, fn func(f *Forwarder) error) (Forwarder, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NewStore returns a Repository over forwarders.json.
func NewStore(db *jsonstore.DB) Repository {
	return jsonstore.NewCollection[Forwarder](db, "forwarders")
}

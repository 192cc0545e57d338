package inventory

import (
	"context"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// ItemRepository defines inventory data storage. *jsonstore.Collection[Item] satisfies it.
type ItemRepository interface {
	FindAll(ctx context.Context) ([]Item, error)
	FindByID(ctx context.Context, id string) (Item, bool, error)
	Filter(ctx context.Context, keep func(Item) bool) ([]Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Modify(ctx context.Context, id string, fn func(item *Item) error) (Item, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NewItemRepository returns an ItemRepository over inventory.json.
func NewItemRepository(db *jsonstore.DB) ItemRepository {
	return jsonstore.NewCollection[Item](db, "inventory")
}

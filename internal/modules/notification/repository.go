package notification

import (
	"context"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Repository defines notification data storage. *jsonstore.Collection[Notification] satisfies it.
type Repository interface {
	FindAll(ctx context.Context) ([]Notification, error)
	FindByID(ctx context.Context, id string) (Notification, bool, error)
	Filter(ctx context.Context, keep func(Notification) bool) ([]Notification, error)
	Create(ctx context.Context, n Notification) (Notification, error)
	Update(ctx context.Context, id string, patch jsonstore.Patch) (Notification, bool, error)
	ModifyWhere(ctx context.Context, match func(Notification) bool, fn func(n *Notification) error) (int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NewStore returns a Repository over notifications.json.
func NewStore(db *jsonstore.DB) Repository {
	return jsonstore.NewCollection[Notification](db, "notifications")
}

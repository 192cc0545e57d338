package report

import (
	"context"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Repository defines report data storage.
type Repository interface {
	FindAll(ctx context.Context) ([]Report, error)
	Filter(ctx context.Context, keep func(Report) bool) ([]Report, error)
	FindByID(ctx context.Context, id string) (Report, bool, error)
	Create(ctx context.Context, r Report) (Report, error)
	Modify(ctx context.Context, id string, fn func(r *Report) error) (Report, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NewStore returns the reports.json collection.
func NewStore(db *jsonstore.DB) Repository {
	return jsonstore.NewCollection[Report](db, "reports")
}

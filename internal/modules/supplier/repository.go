package supplier

import (
	"context"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Repository defines supplier data storage.
type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id string) (Supplier, bool, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Modify(ctx context.Context, id string, fn func(s *Supplier) error) (Supplier, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type store struct {
	suppliers *jsonstore.Collection[Supplier]
}

// NewStore returns a Repository over suppliers.json.
func NewStore(db *jsonstore.DB) Repository {
	return &store{suppliers: jsonstore.NewCollection[Supplier](db, "suppliers")}
}

func (s *store) List(ctx context.Context) ([]Supplier, error) { return s.suppliers.FindAll(ctx) }

func (s *store) Get(ctx context.Context, id string) (Supplier, bool, error) {
	return s.suppliers.FindByID(ctx, id)
}

func (s *store) Create(ctx context.Context, sup Supplier) (Supplier, error) {
	return s.suppliers.Create(ctx, sup)
}

func (s *store) Modify(ctx context.Context, id string, fn func(s *Supplier) error) (Supplier, bool, error) {
	return s.suppliers.Modify(ctx, id, fn)
}

func (s *store) Delete(ctx context.Context, id string) (bool, error) { return s.suppliers.Delete(ctx, id) }

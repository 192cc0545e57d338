package sale

import (
	"context"
	"time"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Repository defines sale data storage. Every sale it returns is at CurrentSchema.
type Repository interface {
	List(ctx context.Context) ([]Sale, error)
	Get(ctx context.Context, id string) (Sale, bool, error)
	Create(ctx context.Context, s Sale) (Sale, error)
	Modify(ctx context.Context, id string, fn func(s *Sale) error) (Sale, bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	// Migrate rewrites records stored under an older schema and reports how many changed.
	Migrate(ctx context.Context) (int, error)
}

type store struct {
	sales *jsonstore.Collection[record]
}

// NewStore returns a Repository over sales.json.
func NewStore(db *jsonstore.DB) Repository {
	return &store{sales: jsonstore.NewCollection[record](db, "sales")}
}

func (s *store) List(ctx context.Context) ([]Sale, error) {
	recs, err := s.sales.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Sale, len(recs))
	for i := range recs {
		out[i] = recs[i].upgrade()
	}
	return out, nil
}

func (s *store) Get(ctx context.Context, id string) (Sale, bool, error) {
	rec, ok, err := s.sales.FindByID(ctx, id)
	if err != nil || !ok {
		return Sale{}, ok, err
	}
	return rec.upgrade(), true, nil
}

func (s *store) Create(ctx context.Context, sale Sale) (Sale, error) {
	sale.SchemaVersion = CurrentSchema
	rec, err := s.sales.Create(ctx, record{Sale: sale})
	if err != nil {
		return Sale{}, err
	}
	return rec.Sale, nil
}

func (s *store) Modify(ctx context.Context, id string, fn func(s *Sale) error) (Sale, bool, error) {
	rec, ok, err := s.sales.Modify(ctx, id, func(r *record) error {
		r.Sale = r.upgrade()
		return fn(&r.Sale)
	})
	return rec.Sale, ok, err
}

func (s *store) Delete(ctx context.Context, id string) (bool, error) {
	return s.sales.Delete(ctx, id)
}

func (s *store) Migrate(ctx context.Context) (int, error) {
	return s.sales.ModifyWhere(ctx,
		func(r record) bool { return r.SchemaVersion < CurrentSchema },
		func(r *record) error {
			r.Sale = r.upgrade()
			return nil
		})
}

// upgrade returns the sale in the current schema. Legacy records become a completed
// cash sale of one unit priced at the recorded amount. The legacy keys stay in the file.
func (r record) upgrade() Sale {
	s := r.Sale
	if s.SchemaVersion >= CurrentSchema {
		return s
	}
	if s.ProductName == "" {
		s.ProductName = r.LegacyProduct
	}
	if s.Quantity <= 0 {
		s.Quantity = 1
	}
	if s.TotalPrice == 0 {
		s.TotalPrice = s.Amount
	}
	if s.UnitPrice == 0 {
		s.UnitPrice = s.TotalPrice / float64(s.Quantity)
	}
	if s.Amount == 0 {
		s.Amount = s.TotalPrice
	}
	if s.PaymentMethod == "" {
		s.PaymentMethod = PaymentCash
	}
	if s.Status == "" {
		s.Status = StatusCompleted
	}
	if s.SoldAt.IsZero() {
		s.SoldAt = legacyDate(r.LegacyDate, s.CreatedAt)
	}
	s.SchemaVersion = CurrentSchema
	return s
}

func legacyDate(v string, fallback time.Time) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

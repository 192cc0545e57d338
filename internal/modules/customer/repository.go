package customer

import (
	"context"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Repository defines customer data storage.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id string) (Customer, bool, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Modify(ctx context.Context, id string, fn func(c *Customer) error) (Customer, bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	AppendLoyalty(ctx context.Context, e LoyaltyEntry) (LoyaltyEntry, error)
	LoyaltyHistory(ctx context.Context, customerID string) ([]LoyaltyEntry, error)
}

const (
	fileName   = "customers"
	historyKey = "loyaltyPointsHistory"
)

type store struct {
	customers *jsonstore.Collection[Customer]
	history   *jsonstore.Collection[LoyaltyEntry]
}

// NewStore returns a Repository over customers.json. The loyalty history lives
// in the same file under its own key.
func NewStore(db *jsonstore.DB) Repository {
	return &store{
		customers: jsonstore.NewCollection[Customer](db, fileName),
		history:   jsonstore.NewNestedCollection[LoyaltyEntry](db, fileName, historyKey),
	}
}

func (s *store) List(ctx context.Context) ([]Customer, error) { return s.customers.FindAll(ctx) }

func (s *store) Get(ctx context.Context, id string) (Customer, bool, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *store) Create(ctx context.Context, c Customer) (Customer, error) {
	return s.customers.Create(ctx, c)
}

func (s *store) Modify(ctx context.Context, id string, fn func(c *Customer) error) (Customer, bool, error) {
	return s.customers.Modify(ctx, id, fn)
}

func (s *store) Delete(ctx context.Context, id string) (bool, error) {
	return s.customers.Delete(ctx, id)
}

func (s *store) AppendLoyalty(ctx context.Context, e LoyaltyEntry) (LoyaltyEntry, error) {
	return s.history.Create(ctx, e)
}

func (s *store) LoyaltyHistory(ctx context.Context, customerID string) ([]LoyaltyEntry, error) {
	return s.history.Filter(ctx, func(e LoyaltyEntry) bool { return e.CustomerID == customerID })
}

package sale

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/customer"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/inventory"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Stock is the part of inventory a sale moves.
type Stock interface {
	Get(ctx context.Context, id string) (inventory.Item, error)
	AdjustStock(ctx context.Context, id string, adj inventory.StockAdjustment) (inventory.Item, error)
}

// Customers keeps customer purchase totals in step with sales.
type Customers interface {
	Get(ctx context.Context, id string) (customer.Customer, error)
	RecordPurchase(ctx context.Context, id string, amount float64) error
	RecordRefund(ctx context.Context, id string, amount float64) error
}

// Service defines sale business logic.
type Service interface {
	// CreateSale records a completed sale. Stock is taken first; an out-of-stock
	// product rejects the sale without writing it.
	CreateSale(ctx context.Context, req CreateSaleRequest) (Sale, error)
	GetSale(ctx context.Context, id string) (Sale, error)
	ListSales(ctx context.Context, f ListFilter) ([]Sale, error)
	// RefundSale returns the goods to stock and reverses the customer totals.
	// Only completed sales can be refunded.
	RefundSale(ctx context.Context, id string, req RefundRequest) (Sale, error)
	DeleteSale(ctx context.Context, id string) error
	// Migrate upgrades stored legacy sales to the current schema.
	Migrate(ctx context.Context) (int, error)
}

type service struct {
	repo      Repository
	stock     Stock
	customers Customers
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewService creates a new sale service.
func NewService(repo Repository, stock Stock, customers Customers, log logrus.FieldLogger) Service {
	return &service{repo: repo, stock: stock, customers: customers, log: log, now: time.Now}
}

func notFound(id string) error {
	return fmt.Errorf("sale %s: %w", id, jsonstore.ErrNotFound)
}

func (s *service) CreateSale(ctx context.Context, req CreateSaleRequest) (Sale, error) {
	if err := validation.Struct(req); err != nil {
		return Sale{}, err
	}
	if req.CustomerID != "" {
		if _, err := s.customers.Get(ctx, req.CustomerID); err != nil {
			if errors.Is(err, jsonstore.ErrNotFound) {
				return Sale{}, validation.Newf("customerId", "exists", "customer %s does not exist", req.CustomerID)
			}
			return Sale{}, err
		}
	}

	sale := Sale{
		CustomerID:    req.CustomerID,
		ProductID:     req.ProductID,
		ProductName:   strings.TrimSpace(req.ProductName),
		Quantity:      req.Quantity,
		PaymentMethod: PaymentMethod(req.PaymentMethod),
		Reference:     req.Reference,
		Status:        StatusCompleted,
		SoldAt:        s.now().UTC(),
		Notes:         req.Notes,
	}
	if req.SoldAt != nil {
		sale.SoldAt = req.SoldAt.UTC()
	}
	if req.UnitPrice != nil {
		sale.UnitPrice = *req.UnitPrice
	}

	if req.ProductID != "" {
		item, err := s.stock.Get(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, jsonstore.ErrNotFound) {
				return Sale{}, validation.Newf("productId", "exists", "product %s does not exist", req.ProductID)
			}
			return Sale{}, err
		}
		if sale.ProductName == "" {
			sale.ProductName = item.Name
		}
		if req.UnitPrice == nil {
			sale.UnitPrice = item.Price
		}
		if _, err := s.stock.AdjustStock(ctx, req.ProductID, inventory.StockAdjustment{
			Delta:  -req.Quantity,
			Reason: "sale",
		}); err != nil {
			return Sale{}, err
		}
	}
	sale.TotalPrice = currency.Round2(sale.UnitPrice * float64(sale.Quantity))
	sale.Amount = sale.TotalPrice

	created, err := s.repo.Create(ctx, sale)
	if err != nil {
		if req.ProductID != "" {
			s.restock(ctx, req.ProductID, req.Quantity, "sale not saved")
		}
		return Sale{}, fmt.Errorf("failed to record sale: %w", err)
	}

	if created.CustomerID != "" {
		if err := s.customers.RecordPurchase(ctx, created.CustomerID, created.Amount); err != nil {
			s.log.WithError(err).WithField("sale", created.ID).Warn("customer totals not updated")
		}
	}
	s.log.WithFields(logrus.Fields{
		"id": created.ID, "product": created.ProductName, "amount": created.Amount, "method": created.PaymentMethod,
	}).Info("sale recorded")
	return created, nil
}

func (s *service) restock(ctx context.Context, productID string, qty int, reason string) {
	if _, err := s.stock.AdjustStock(ctx, productID, inventory.StockAdjustment{Delta: qty, Reason: reason}); err != nil {
		s.log.WithError(err).WithField("product", productID).Error("restock failed")
	}
}

func (s *service) GetSale(ctx context.Context, id string) (Sale, error) {
	sale, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Sale{}, err
	}
	if !ok {
		return Sale{}, notFound(id)
	}
	return sale, nil
}

func (s *service) ListSales(ctx context.Context, f ListFilter) ([]Sale, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Sale, 0, len(all))
	for _, sale := range all {
		if f.CustomerID != "" && sale.CustomerID != f.CustomerID {
			continue
		}
		if f.PaymentMethod != "" && sale.PaymentMethod != f.PaymentMethod {
			continue
		}
		if f.Status != "" && sale.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && sale.SoldAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && sale.SoldAt.After(f.To) {
			continue
		}
		out = append(out, sale)
	}
	// Newest first.
	slices.SortStableFunc(out, func(a, b Sale) int { return b.SoldAt.Compare(a.SoldAt) })
	return out, nil
}

func (s *service) RefundSale(ctx context.Context, id string, req RefundRequest) (Sale, error) {
	if err := validation.Struct(req); err != nil {
		return Sale{}, err
	}
	now := s.now().UTC()
	sale, ok, err := s.repo.Modify(ctx, id, func(sale *Sale) error {
		if sale.Status != StatusCompleted {
			return validation.Newf("status", "refundable",
				"only completed sales can be refunded, sale is %s", sale.Status)
		}
		sale.Status = StatusRefunded
		sale.RefundedAt = &now
		sale.RefundReason = strings.TrimSpace(req.Reason)
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	if !ok {
		return Sale{}, notFound(id)
	}

	if sale.ProductID != "" {
		s.restock(ctx, sale.ProductID, sale.Quantity, "refund")
	}
	if sale.CustomerID != "" {
		if err := s.customers.RecordRefund(ctx, sale.CustomerID, sale.Amount); err != nil {
			s.log.WithError(err).WithField("sale", id).Warn("customer totals not updated")
		}
	}
	s.log.WithFields(logrus.Fields{"id": id, "amount": sale.Amount}).Info("sale refunded")
	return sale, nil
}

func (s *service) DeleteSale(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func (s *service) Migrate(ctx context.Context) (int, error) {
	n, err := s.repo.Migrate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to migrate sales: %w", err)
	}
	if n > 0 {
		s.log.WithField("count", n).Info("legacy sales migrated")
	}
	return n, nil
}

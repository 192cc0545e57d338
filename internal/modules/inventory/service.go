package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/notification"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Notifier posts dashboard notifications.
type Notifier interface {
	Notify(ctx context.Context, t notification.Type, title, message, link string) error
}

// Service defines inventory business logic.
type Service interface {
	List(ctx context.Context, f ListFilter) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Create(ctx context.Context, req CreateItemRequest) (Item, error)
	Update(ctx context.Context, id string, req UpdateItemRequest) (Item, error)
	Delete(ctx context.Context, id string) error

	// AdjustStock adds adj.Delta to the quantity. A result below zero is rejected.
	// Crossing the reorder level posts a low-stock notification.
	AdjustStock(ctx context.Context, id string, adj StockAdjustment) (Item, error)
	// LowStock lists items at or below their reorder level.
	LowStock(ctx context.Context) ([]Item, error)
}

type service struct {
	repo         ItemRepository
	notifier     Notifier
	defaultLevel func() int
	log          logrus.FieldLogger
}

// NewService creates a new inventory service. defaultLevel supplies the reorder level
// of items that do not set their own.
func NewService(repo ItemRepository, notifier Notifier, defaultLevel func() int, log logrus.FieldLogger) Service {
	return &service{repo: repo, notifier: notifier, defaultLevel: defaultLevel, log: log}
}

func notFound(id string) error {
	return fmt.Errorf("inventory item %s: %w", id, jsonstore.ErrNotFound)
}

func (s *service) reorderLevel(item Item) int {
	if item.ReorderLevel > 0 {
		return item.ReorderLevel
	}
	return s.defaultLevel()
}

func (s *service) List(ctx context.Context, f ListFilter) ([]Item, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	return s.repo.Filter(ctx, func(item Item) bool {
		if f.Category != "" && !strings.EqualFold(item.Category, f.Category) {
			return false
		}
		if f.SupplierID != "" && item.SupplierID != f.SupplierID {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.SKU), search) {
			return false
		}
		return true
	})
}

func (s *service) Get(ctx context.Context, id string) (Item, error) {
	item, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if !ok {
		return Item{}, notFound(id)
	}
	return item, nil
}

func (s *service) checkSKU(ctx context.Context, sku, exceptID string) error {
	if sku == "" {
		return nil
	}
	clash, err := s.repo.Filter(ctx, func(item Item) bool {
		return item.ID != exceptID && strings.EqualFold(item.SKU, sku)
	})
	if err != nil {
		return err
	}
	if len(clash) > 0 {
		return fmt.Errorf("sku %s is already used by %s: %w", sku, clash[0].Name, jsonstore.ErrDuplicate)
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateItemRequest) (Item, error) {
	if err := validation.Struct(req); err != nil {
		return Item{}, err
	}
	sku := strings.TrimSpace(req.SKU)
	if err := s.checkSKU(ctx, sku, ""); err != nil {
		return Item{}, err
	}
	item, err := s.repo.Create(ctx, Item{
		Name:         strings.TrimSpace(req.Name),
		SKU:          sku,
		Category:     req.Category,
		Description:  req.Description,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Price:        req.Price,
		Cost:         req.Cost,
		ReorderLevel: req.ReorderLevel,
		SupplierID:   req.SupplierID,
	})
	if err != nil {
		return Item{}, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateItemRequest) (Item, error) {
	if err := validation.Struct(req); err != nil {
		return Item{}, err
	}
	if req.SKU != nil {
		if err := s.checkSKU(ctx, strings.TrimSpace(*req.SKU), id); err != nil {
			return Item{}, err
		}
	}
	item, ok, err := s.repo.Modify(ctx, id, func(item *Item) error {
		if req.Name != nil {
			item.Name = strings.TrimSpace(*req.Name)
		}
		if req.SKU != nil {
			item.SKU = strings.TrimSpace(*req.SKU)
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Unit != nil {
			item.Unit = *req.Unit
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Cost != nil {
			item.Cost = *req.Cost
		}
		if req.ReorderLevel != nil {
			item.ReorderLevel = *req.ReorderLevel
		}
		if req.SupplierID != nil {
			item.SupplierID = *req.SupplierID
		}
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	if !ok {
		return Item{}, notFound(id)
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func (s *service) AdjustStock(ctx context.Context, id string, adj StockAdjustment) (Item, error) {
	if err := validation.Struct(adj); err != nil {
		return Item{}, err
	}
	var before int
	item, ok, err := s.repo.Modify(ctx, id, func(item *Item) error {
		before = item.Quantity
		after := before + adj.Delta
		if after < 0 {
			return validation.Newf("delta", "stock",
				"insufficient stock for %s: %d available, %d requested", item.Name, before, -adj.Delta)
		}
		item.Quantity = after
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	if !ok {
		return Item{}, notFound(id)
	}

	s.log.WithFields(logrus.Fields{
		"id": id, "delta": adj.Delta, "quantity": item.Quantity, "reason": adj.Reason,
	}).Info("stock adjusted")

	level := s.reorderLevel(item)
	if before > level && item.Quantity <= level {
		msg := fmt.Sprintf("%s is down to %d %s (reorder level %d).", item.Name, item.Quantity, item.Unit, level)
		if err := s.notifier.Notify(ctx, notification.TypeLowStock, "Low stock: "+item.Name, msg, "/inventory/"+item.ID); err != nil {
			s.log.WithError(err).WithField("id", id).Warn("low stock notification failed")
		}
	}
	return item, nil
}

func (s *service) LowStock(ctx context.Context) ([]Item, error) {
	return s.repo.Filter(ctx, func(item Item) bool {
		return item.Quantity <= s.reorderLevel(item)
	})
}

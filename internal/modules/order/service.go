package order

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/inventory"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/notification"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Restocker adds received quantities to inventory.
type Restocker interface {
	AdjustStock(ctx context.Context, id string, adj inventory.StockAdjustment) (inventory.Item, error)
}

// Notifier posts dashboard notifications.
type Notifier interface {
	Notify(ctx context.Context, t notification.Type, title, message, link string) error
}

// Service defines the purchase order business logic.
type Service interface {
	// PlaceOrder validates the lines, computes totals and stores a pending order.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (Order, error)

	// GetOrder retrieves an order by id.
	GetOrder(ctx context.Context, id string) (Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (Order, error)

	// ListOrders returns orders, newest first.
	ListOrders(ctx context.Context, f ListFilter) ([]Order, error)

	// UpdateOrder edits an order that is not yet delivered or cancelled.
	UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (Order, error)

	// UpdateStatus advances an order to a new lifecycle status. Delivery restocks inventory.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (Order, error)

	// DeleteOrder removes an order.
	DeleteOrder(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	restocker Restocker
	notifier  Notifier
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewService creates a new order service.
func NewService(repo Repository, restocker Restocker, notifier Notifier, log logrus.FieldLogger) Service {
	return &service{repo: repo, restocker: restocker, notifier: notifier, log: log, now: time.Now}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func notFound(id string) error {
	return fmt.Errorf("order %s: %w", id, jsonstore.ErrNotFound)
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (Order, error) {
	if err := validation.Struct(req); err != nil {
		return Order{}, err
	}
	items, total := buildItems(req.Items)
	o, err := s.repo.Create(ctx, Order{
		OrderNumber:  generateOrderNumber(s.now()),
		SupplierID:   req.SupplierID,
		ForwarderID:  req.ForwarderID,
		Items:        items,
		TotalAmount:  total,
		Status:       StatusPending,
		ExpectedDate: req.ExpectedDate,
		Notes:        req.Notes,
	})
	if err != nil {
		return Order{}, fmt.Errorf("failed to persist order: %w", err)
	}
	s.log.WithFields(logrus.Fields{"id": o.ID, "number": o.OrderNumber, "total": o.TotalAmount}).Info("purchase order placed")
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (Order, error) {
	o, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, notFound(id)
	}
	return o, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (Order, error) {
	found, err := s.repo.Filter(ctx, func(o Order) bool { return strings.EqualFold(o.OrderNumber, orderNumber) })
	if err != nil {
		return Order{}, err
	}
	if len(found) == 0 {
		return Order{}, notFound(orderNumber)
	}
	return found[0], nil
}

func (s *service) ListOrders(ctx context.Context, f ListFilter) ([]Order, error) {
	orders, err := s.repo.Filter(ctx, func(o Order) bool {
		return (f.Status == "" || o.Status == f.Status) && (f.SupplierID == "" || o.SupplierID == f.SupplierID)
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(orders)
	return orders, nil
}

func (s *service) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (Order, error) {
	if err := validation.Struct(req); err != nil {
		return Order{}, err
	}
	o, ok, err := s.repo.Modify(ctx, id, func(o *Order) error {
		if o.Status == StatusDelivered || o.Status == StatusCancelled {
			return validation.Newf("status", "editable", "a %s order cannot be edited", o.Status)
		}
		if req.Items != nil {
			if o.Status != StatusPending {
				return validation.Newf("items", "editable", "items of a %s order cannot be changed", o.Status)
			}
			o.Items, o.TotalAmount = buildItems(*req.Items)
		}
		if req.ForwarderID != nil {
			o.ForwarderID = *req.ForwarderID
		}
		if req.TrackingNumber != nil {
			o.TrackingNumber = *req.TrackingNumber
		}
		if req.ExpectedDate != nil {
			o.ExpectedDate = req.ExpectedDate
		}
		if req.Notes != nil {
			o.Notes = *req.Notes
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, notFound(id)
	}
	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (Order, error) {
	if err := validation.Struct(req); err != nil {
		return Order{}, err
	}
	newStatus := OrderStatus(strings.ToLower(req.Status))
	o, ok, err := s.repo.Modify(ctx, id, func(o *Order) error {
		if !slices.Contains(validTransitions[o.Status], newStatus) {
			return validation.Newf("status", "transition", "cannot transition order from %s to %s", o.Status, newStatus)
		}
		o.Status = newStatus
		if newStatus == StatusDelivered {
			now := s.now().UTC()
			o.DeliveredAt = &now
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, notFound(id)
	}

	if newStatus == StatusDelivered {
		s.restock(ctx, o)
	}
	title := fmt.Sprintf("Order %s %s", o.OrderNumber, o.Status)
	msg := fmt.Sprintf("Purchase order %s (%d lines, total %.2f) is now %s.", o.OrderNumber, len(o.Items), o.TotalAmount, o.Status)
	if err := s.notifier.Notify(ctx, notification.TypeOrder, title, msg, "/orders/"+o.ID); err != nil {
		s.log.WithError(err).WithField("id", o.ID).Warn("order notification failed")
	}
	return o, nil
}

// restock adds every linked line to inventory. Failures are logged; the delivery stands.
func (s *service) restock(ctx context.Context, o Order) {
	for _, it := range o.Items {
		if it.ProductID == "" {
			continue
		}
		_, err := s.restocker.AdjustStock(ctx, it.ProductID, inventory.StockAdjustment{
			Delta:  it.Quantity,
			Reason: "received " + o.OrderNumber,
		})
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order": o.OrderNumber, "product": it.ProductID, "quantity": it.Quantity,
			}).Warn("restock failed")
		}
	}
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// buildItems computes line totals and the order total.
func buildItems(reqs []ItemRequest) ([]OrderItem, float64) {
	items := make([]OrderItem, 0, len(reqs))
	var total float64
	for _, r := range reqs {
		line := currency.Round2(r.Price * float64(r.Quantity))
		total += line
		items = append(items, OrderItem{
			ProductID: r.ProductID,
			Name:      strings.TrimSpace(r.Name),
			Quantity:  r.Quantity,
			Price:     r.Price,
			Total:     line,
		})
	}
	return items, currency.Round2(total)
}

// generateOrderNumber creates a human-readable order number: PO-YYYYMMDD-XXXX
func generateOrderNumber(now time.Time) string {
	date := now.UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("PO-%s-%s", date, suffix)
}

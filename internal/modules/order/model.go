package order

import (
	"time"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// OrderStatus represents the lifecycle state of a purchase order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Order is a purchase order placed with a supplier. Amounts are in the business base currency.
type Order struct {
	jsonstore.Meta
	OrderNumber    string      `json:"orderNumber"`
	SupplierID     string      `json:"supplierId"`
	ForwarderID    string      `json:"forwarderId,omitempty"`
	Items          []OrderItem `json:"items"`
	TotalAmount    float64     `json:"totalAmount"`
	Status         OrderStatus `json:"status"`
	TrackingNumber string      `json:"trackingNumber,omitempty"`
	ExpectedDate   *time.Time  `json:"expectedDate,omitempty"`
	DeliveredAt    *time.Time  `json:"deliveredAt,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

// OrderItem is a single line of a purchase order. ProductID links it to an inventory item.
type OrderItem struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// ItemRequest describes one line of a new or edited order. Totals are computed.
type ItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// PlaceOrderRequest is the payload for creating a purchase order.
type PlaceOrderRequest struct {
	SupplierID   string        `json:"supplierId" validate:"required"`
	ForwarderID  string        `json:"forwarderId"`
	Items        []ItemRequest `json:"items" validate:"required,min=1,dive"`
	ExpectedDate *time.Time    `json:"expectedDate"`
	Notes        string        `json:"notes"`
}

// UpdateOrderRequest edits an order. Items may only change while the order is pending.
type UpdateOrderRequest struct {
	ForwarderID    *string        `json:"forwarderId"`
	Items          *[]ItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	TrackingNumber *string        `json:"trackingNumber"`
	ExpectedDate   *time.Time     `json:"expectedDate"`
	Notes          *string        `json:"notes"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Status     OrderStatus
	SupplierID string
}

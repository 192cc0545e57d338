package customer

import (
	"time"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Segment groups customers for marketing and reporting.
type Segment string

const (
	SegmentNew      Segment = "new"
	SegmentRegular  Segment = "regular"
	SegmentVIP      Segment = "vip"
	SegmentInactive Segment = "inactive"
)

// MaxLoyaltyAdjustment bounds a single manual points adjustment in either direction.
const MaxLoyaltyAdjustment = 1000

// Customer is a buyer of the business. Counters are maintained by the service.
type Customer struct {
	jsonstore.Meta
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	Segment        Segment    `json:"segment"`
	TotalOrders    int        `json:"totalOrders"`
	TotalSpent     float64    `json:"totalSpent"`
	LoyaltyPoints  int        `json:"loyaltyPoints"`
	LastPurchaseAt *time.Time `json:"lastPurchaseAt,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// LoyaltyEntry records one points adjustment. Entries are never modified after creation.
type LoyaltyEntry struct {
	jsonstore.Meta
	CustomerID    string `json:"customerId"`
	Points        int    `json:"points"`
	Reason        string `json:"reason"`
	BalanceBefore int    `json:"balanceBefore"`
	BalanceAfter  int    `json:"balanceAfter"`
}

// CreateRequest is the payload for registering a customer.
type CreateRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"omitempty,email"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Segment Segment `json:"segment" validate:"omitempty,oneof=new regular vip inactive"`
	Notes   string  `json:"notes"`
}

// UpdateRequest changes the fields that are set. Counters are not editable.
type UpdateRequest struct {
	Name    *string  `json:"name" validate:"omitempty,min=1"`
	Email   *string  `json:"email" validate:"omitempty,email"`
	Phone   *string  `json:"phone"`
	Address *string  `json:"address"`
	Segment *Segment `json:"segment" validate:"omitempty,oneof=new regular vip inactive"`
	Notes   *string  `json:"notes"`
}

// AdjustLoyaltyRequest adds or removes points. Zero is rejected.
type AdjustLoyaltyRequest struct {
	Points int    `json:"points" validate:"required,min=-1000,max=1000"`
	Reason string `json:"reason" validate:"required"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Segment Segment
	Search  string
}

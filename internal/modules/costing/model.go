package costing

import (
	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
)

// Costing is a landed-cost calculation for a batch of imported goods.
// PurchasePrice is per unit; the other costs cover the whole batch.
type Costing struct {
	jsonstore.Meta
	ProductName   string        `json:"productName"`
	SupplierID    string        `json:"supplierId,omitempty"`
	ForwarderID   string        `json:"forwarderId,omitempty"`
	Quantity      int           `json:"quantity"`
	PurchasePrice float64       `json:"purchasePrice"`
	ShippingCost  float64       `json:"shippingCost"`
	CustomsDuty   float64       `json:"customsDuty"`
	OtherCosts    float64       `json:"otherCosts"`
	MarkupPercent float64       `json:"markupPercent"`
	TotalCost     float64       `json:"totalCost"`
	UnitCost      float64       `json:"unitCost"`
	SellingPrice  float64       `json:"sellingPrice"`
	Profit        float64       `json:"profitPerUnit"`
	Currency      currency.Code `json:"currency"`
	Notes         string        `json:"notes,omitempty"`
}

// Inputs are the figures a costing is computed from.
type Inputs struct {
	Quantity      int      `json:"quantity" validate:"gt=0"`
	PurchasePrice *float64 `json:"purchasePrice" validate:"required,gte=0"`
	ShippingCost  float64  `json:"shippingCost" validate:"gte=0"`
	CustomsDuty   float64  `json:"customsDuty" validate:"gte=0"`
	OtherCosts    float64  `json:"otherCosts" validate:"gte=0"`
	MarkupPercent float64  `json:"markupPercent" validate:"gte=0,lte=1000"`
}

// CreateRequest is the payload for saving a costing. Currency defaults to the business currency.
type CreateRequest struct {
	ProductName   string   `json:"productName" validate:"required"`
	SupplierID    string   `json:"supplierId"`
	ForwarderID   string   `json:"forwarderId"`
	Quantity      int      `json:"quantity" validate:"gt=0"`
	PurchasePrice *float64 `json:"purchasePrice" validate:"required,gte=0"`
	ShippingCost  float64  `json:"shippingCost" validate:"gte=0"`
	CustomsDuty   float64  `json:"customsDuty" validate:"gte=0"`
	OtherCosts    float64  `json:"otherCosts" validate:"gte=0"`
	MarkupPercent float64  `json:"markupPercent" validate:"gte=0,lte=1000"`
	Currency      string   `json:"currency" validate:"omitempty,currency"`
	Notes         string   `json:"notes"`
}

// UpdateRequest changes the fields that are set and recomputes the results.
type UpdateRequest struct {
	ProductName   *string  `json:"productName" validate:"omitempty,min=1"`
	SupplierID    *string  `json:"supplierId"`
	ForwarderID   *string  `json:"forwarderId"`
	Quantity      *int     `json:"quantity" validate:"omitempty,gt=0"`
	PurchasePrice *float64 `json:"purchasePrice" validate:"omitempty,gte=0"`
	ShippingCost  *float64 `json:"shippingCost" validate:"omitempty,gte=0"`
	CustomsDuty   *float64 `json:"customsDuty" validate:"omitempty,gte=0"`
	OtherCosts    *float64 `json:"otherCosts" validate:"omitempty,gte=0"`
	MarkupPercent *float64 `json:"markupPercent" validate:"omitempty,gte=0,lte=1000"`
	Notes         *string  `json:"notes"`
}

// Result holds the computed figures, rounded to cents.
type Result struct {
	TotalCost    float64 `json:"totalCost"`
	UnitCost     float64 `json:"unitCost"`
	SellingPrice float64 `json:"sellingPrice"`
	Profit       float64 `json:"profitPerUnit"`
}

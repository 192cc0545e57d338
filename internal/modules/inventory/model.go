package inventory

import "github.com/georgemunganga/bizdesk-backend/internal/jsonstore"

// Item is a stocked product. Price and Cost are in the business base currency.
type Item struct {
	jsonstore.Meta
	Name         string  `json:"name"`
	SKU          string  `json:"sku,omitempty"`
	Category     string  `json:"category,omitempty"`
	Description  string  `json:"description,omitempty"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	Price        float64 `json:"price"`
	Cost         float64 `json:"cost,omitempty"`
	ReorderLevel int     `json:"reorderLevel"`
	SupplierID   string  `json:"supplierId,omitempty"`
}

// CreateItemRequest holds data for adding an item to inventory.
type CreateItemRequest struct {
	Name         string  `json:"name" validate:"required"`
	SKU          string  `json:"sku"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price" validate:"gte=0"`
	Cost         float64 `json:"cost" validate:"gte=0"`
	ReorderLevel int     `json:"reorderLevel" validate:"gte=0"`
	SupplierID   string  `json:"supplierId"`
}

// UpdateItemRequest changes the fields that are set. Quantity changes go through AdjustStock.
type UpdateItemRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1"`
	SKU          *string  `json:"sku"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	Unit         *string  `json:"unit"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Cost         *float64 `json:"cost" validate:"omitempty,gte=0"`
	ReorderLevel *int     `json:"reorderLevel" validate:"omitempty,gte=0"`
	SupplierID   *string  `json:"supplierId"`
}

// StockAdjustment moves the quantity of an item by Delta.
type StockAdjustment struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Category   string
	SupplierID string
	Search     string
}

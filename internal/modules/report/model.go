package report

import (
	"time"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Type names the focus of a report.
type Type string

const (
	TypeSales     Type = "sales"
	TypeInventory Type = "inventory"
	TypeFinancial Type = "financial"
)

// Report is a saved snapshot of business figures over a period. Amounts are in the
// base currency at the time of writing and follow it on currency changes.
type Report struct {
	jsonstore.Meta
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Data        Data      `json:"data"`
	Notes       string    `json:"notes,omitempty"`
}

// Data holds the computed figures.
type Data struct {
	Revenue        float64 `json:"revenue"`
	Expenses       float64 `json:"expenses"`
	Profit         float64 `json:"profit"`
	SalesCount     int     `json:"salesCount"`
	RefundCount    int     `json:"refundCount"`
	OrderCount     int     `json:"orderCount"`
	InventoryValue float64 `json:"inventoryValue"`
	ItemCount      int     `json:"itemCount"`
	LowStockCount  int     `json:"lowStockCount"`
}

// GenerateRequest asks for a report over [PeriodStart, PeriodEnd].
type GenerateRequest struct {
	Type        Type      `json:"type" validate:"required,oneof=sales inventory financial"`
	Title       string    `json:"title"`
	PeriodStart time.Time `json:"periodStart" validate:"required"`
	PeriodEnd   time.Time `json:"periodEnd" validate:"required,gtefield=PeriodStart"`
	Notes       string    `json:"notes"`
}

// UpdateRequest edits the descriptive fields of a saved report. Figures are regenerated, not edited.
type UpdateRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1"`
	Notes *string `json:"notes"`
}

// ListFilter narrows List.
type ListFilter struct {
	Type Type
}

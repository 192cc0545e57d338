package sale

import (
	"time"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// CurrentSchema is the version every sale is migrated to when loaded.
const CurrentSchema = 2

// PaymentMethod represents how a sale was paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentMobileMoney  PaymentMethod = "mobile_money"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Status represents the state of a sale.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
)

// Sale records goods sold at the counter. Amount is what the customer paid, in the base currency.
type Sale struct {
	jsonstore.Meta
	SchemaVersion int           `json:"schemaVersion"`
	CustomerID    string        `json:"customerId,omitempty"`
	ProductID     string        `json:"productId,omitempty"`
	ProductName   string        `json:"productName"`
	Quantity      int           `json:"quantity"`
	UnitPrice     float64       `json:"unitPrice"`
	TotalPrice    float64       `json:"totalPrice"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Reference     string        `json:"reference,omitempty"`
	Status        Status        `json:"status"`
	SoldAt        time.Time     `json:"soldAt"`
	RefundedAt    *time.Time    `json:"refundedAt,omitempty"`
	RefundReason  string        `json:"refundReason,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// record is a sale as stored. Sales written before schema version 2 carried only an amount,
// a free-text product and a date.
type record struct {
	Sale
	LegacyProduct string `json:"product,omitempty"`
	LegacyDate    string `json:"date,omitempty"`
}

// CreateSaleRequest is the payload for recording a sale. With a ProductID, the name and
// unit price default to the inventory item's and stock is decremented.
type CreateSaleRequest struct {
	CustomerID    string     `json:"customerId"`
	ProductID     string     `json:"productId"`
	ProductName   string     `json:"productName" validate:"required_without=ProductID"`
	Quantity      int        `json:"quantity" validate:"gt=0"`
	UnitPrice     *float64   `json:"unitPrice" validate:"required_without=ProductID,omitempty,gte=0"`
	PaymentMethod string     `json:"paymentMethod" validate:"required,oneof=cash card mobile_money bank_transfer"`
	Reference     string     `json:"reference"`
	SoldAt        *time.Time `json:"soldAt"`
	Notes         string     `json:"notes"`
}

// RefundRequest is the payload for refunding a sale.
type RefundRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ListFilter narrows List. Zero fields match everything.
type ListFilter struct {
	CustomerID    string
	PaymentMethod PaymentMethod
	Status        Status
	From, To      time.Time
}

package notification

import "github.com/georgemunganga/bizdesk-backend/internal/jsonstore"

// Type classifies a notification.
type Type string

const (
	TypeLowStock Type = "low_stock"
	TypeOrder    Type = "order"
	TypeSettings Type = "settings"
	TypeSystem   Type = "system"
)

// Notification is a message shown in the dashboard bell.
type Notification struct {
	jsonstore.Meta
	Type    Type   `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
	Link    string `json:"link,omitempty"`
}

// CreateRequest is the payload for posting a notification by hand.
type CreateRequest struct {
	Type    Type   `json:"type" validate:"required,oneof=low_stock order settings system"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	Link    string `json:"link"`
}

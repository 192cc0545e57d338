package supplier

import "github.com/georgemunganga/bizdesk-backend/internal/jsonstore"

// Status marks whether a supplier is currently used for purchase orders.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Supplier is a business the shop buys stock from.
type Supplier struct {
	jsonstore.Meta
	Name          string   `json:"name"`
	ContactPerson string   `json:"contactPerson,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Address       string   `json:"address,omitempty"`
	Country       string   `json:"country,omitempty"`
	Products      []string `json:"products"`
	Status        Status   `json:"status"`
	Rating        float64  `json:"rating"`
	Notes         string   `json:"notes,omitempty"`
}

// CreateRequest is the payload for adding a supplier.
type CreateRequest struct {
	Name          string   `json:"name" validate:"required"`
	ContactPerson string   `json:"contactPerson"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	Country       string   `json:"country"`
	Products      []string `json:"products" validate:"dive,required"`
	Status        Status   `json:"status" validate:"omitempty,oneof=active inactive"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	Notes         string   `json:"notes"`
}

// UpdateRequest changes the fields that are set.
type UpdateRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=1"`
	ContactPerson *string   `json:"contactPerson"`
	Email         *string   `json:"email" validate:"omitempty,email"`
	Phone         *string   `json:"phone"`
	Address       *string   `json:"address"`
	Country       *string   `json:"country"`
	Products      *[]string `json:"products" validate:"omitempty,dive,required"`
	Status        *Status   `json:"status" validate:"omitempty,oneof=active inactive"`
	Rating        *float64  `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Notes         *string   `json:"notes"`
}

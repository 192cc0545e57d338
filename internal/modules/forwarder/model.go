package forwarder

import "github.com/georgemunganga/bizdesk-backend/internal/jsonstore"

// Status marks whether a forwarder takes new shipments.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Forwarder is a freight forwarder that moves purchase orders from suppliers.
type Forwarder struct {
	jsonstore.Meta
	Name          string   `json:"name"`
	ContactPerson string   `json:"contactPerson,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Country       string   `json:"country,omitempty"`
	Services      []string `json:"services"`
	RatePerKg     float64  `json:"ratePerKg"`
	TransitDays   int      `json:"transitDays"`
	Status        Status   `json:"status"`
}

// Quote is the estimated cost of shipping a weight with a forwarder.
type Quote struct {
	ForwarderID string  `json:"forwarderId"`
	WeightKg    float64 `json:"weightKg"`
	Cost        float64 `json:"cost"`
	TransitDays int     `json:"transitDays"`
}

// CreateRequest is the payload for adding a forwarder.
type CreateRequest struct {
	Name          string   `json:"name" validate:"required"`
	ContactPerson string   `json:"contactPerson"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Phone         string   `json:"phone"`
	Country       string   `json:"country"`
	Services      []string `json:"services" validate:"dive,oneof=air sea road rail"`
	RatePerKg     float64  `json:"ratePerKg" validate:"gte=0"`
	TransitDays   int      `json:"transitDays" validate:"gte=0"`
	Status        Status   `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateRequest changes the fields that are set.
type UpdateRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=1"`
	ContactPerson *string   `json:"contactPerson"`
	Email         *string   `json:"email" validate:"omitempty,email"`
	Phone         *string   `json:"phone"`
	Country       *string   `json:"country"`
	Services      *[]string `json:"services" validate:"omitempty,dive,oneof=air sea road rail"`
	RatePerKg     *float64  `json:"ratePerKg" validate:"omitempty,gte=0"`
	TransitDays   *int      `json:"transitDays" validate:"omitempty,gte=0"`
	Status        *Status   `json:"status" validate:"omitempty,oneof=active inactive"`
}

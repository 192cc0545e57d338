// Package settings holds the business-wide preferences. They are loaded once at startup,
// kept in memory and saved on every update; subscribers learn about changes through a Broker.
package settings

import (
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
)

// Notifications toggles which events produce notifications.
type Notifications struct {
	Email    bool `json:"email"`
	LowStock bool `json:"lowStock"`
	Orders   bool `json:"orders"`
}

// Settings is the single business configuration object stored in settings.json.
type Settings struct {
	BusinessName      string        `json:"businessName"`
	Currency          currency.Code `json:"currency"`
	Language          string        `json:"language"`
	Timezone          string        `json:"timezone"`
	DateFormat        string        `json:"dateFormat"`
	Theme             string        `json:"theme"`
	TaxRate           float64       `json:"taxRate"`
	LowStockThreshold int           `json:"lowStockThreshold"`
	Notifications     Notifications `json:"notifications"`
}

// Defaults returns the settings of a fresh installation using base as its currency.
func Defaults(base currency.Code) Settings {
	return Settings{
		BusinessName:      "My Business",
		Currency:          base,
		Language:          "en",
		Timezone:          "Africa/Douala",
		DateFormat:        "DD/MM/YYYY",
		Theme:             "light",
		TaxRate:           19.25,
		LowStockThreshold: 10,
		Notifications: Notifications{
			Email:    false,
			LowStock: true,
			Orders:   true,
		},
	}
}

// NotificationsPatch changes the toggles that are set.
type NotificationsPatch struct {
	Email    *bool `json:"email"`
	LowStock *bool `json:"lowStock"`
	Orders   *bool `json:"orders"`
}

// UpdateRequest changes the fields that are set.
type UpdateRequest struct {
	BusinessName      *string             `json:"businessName" validate:"omitempty,min=1,max=120"`
	Currency          *string             `json:"currency" validate:"omitempty,currency"`
	Language          *string             `json:"language" validate:"omitempty,oneof=en fr"`
	Timezone          *string             `json:"timezone" validate:"omitempty,timezone"`
	DateFormat        *string             `json:"dateFormat" validate:"omitempty,oneof=DD/MM/YYYY MM/DD/YYYY YYYY-MM-DD"`
	Theme             *string             `json:"theme" validate:"omitempty,oneof=light dark system"`
	TaxRate           *float64            `json:"taxRate" validate:"omitempty,gte=0,lte=100"`
	LowStockThreshold *int                `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Notifications     *NotificationsPatch `json:"notifications"`
}

// apply returns s with every set field of req applied.
func (req UpdateRequest) apply(s Settings) Settings {
	if req.BusinessName != nil {
		s.BusinessName = *req.BusinessName
	}
	if req.Currency != nil {
		s.Currency = currency.Code(*req.Currency)
	}
	if req.Language != nil {
		s.Language = *req.Language
	}
	if req.Timezone != nil {
		s.Timezone = *req.Timezone
	}
	if req.DateFormat != nil {
		s.DateFormat = *req.DateFormat
	}
	if req.Theme != nil {
		s.Theme = *req.Theme
	}
	if req.TaxRate != nil {
		s.TaxRate = *req.TaxRate
	}
	if req.LowStockThreshold != nil {
		s.LowStockThreshold = *req.LowStockThreshold
	}
	if n := req.Notifications; n != nil {
		if n.Email != nil {
			s.Notifications.Email = *n.Email
		}
		if n.LowStock != nil {
			s.Notifications.LowStock = *n.LowStock
		}
		if n.Orders != nil {
			s.Notifications.Orders = *n.Orders
		}
	}
	return s
}

// ConvertCurrencyRequest asks for stored amounts to be rewritten from one currency to another.
type ConvertCurrencyRequest struct {
	FromCurrency string `json:"fromCurrency" validate:"required,currency"`
	ToCurrency   string `json:"toCurrency" validate:"required,currency"`
}

// Change is published after settings are saved.
type Change struct {
	Previous Settings `json:"previous"`
	Current  Settings `json:"current"`
}

// CurrencyChanged reports whether the base currency differs between Previous and Current.
func (c Change) CurrencyChanged() bool { return c.Previous.Currency != c.Current.Currency }

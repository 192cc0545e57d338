// Package currency converts amounts between the supported currencies and rewrites
// stored monetary fields when the business base currency changes.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Code is an ISO 4217 currency code.
type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	XAF Code = "XAF"
	GBP Code = "GBP"
)

// Reference is the currency every rate is expressed against.
const Reference = USD

// rates holds units of each currency per one unit of Reference. Static, not market data.
var rates = map[Code]float64{
	USD: 1,
	EUR: 0.92,
	XAF: 655.96,
	GBP: 0.79,
}

func init() {
	validation.RegisterRule("currency", func(s string) bool {
		return IsSupported(Code(s))
	})
}

// UnknownCurrencyError is returned for a code outside the supported set.
type UnknownCurrencyError struct {
	Code Code
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency %q (supported: %s)", string(e.Code), strings.Join(codeStrings(), ", "))
}

// IsSupported reports whether c has a rate.
func IsSupported(c Code) bool {
	_, ok := rates[c]
	return ok
}

// Parse normalises s to a supported Code.
func Parse(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !IsSupported(c) {
		return "", &UnknownCurrencyError{Code: c}
	}
	return c, nil
}

// Rate returns the units of c per one unit of Reference.
func Rate(c Code) (float64, error) {
	r, ok := rates[c]
	if !ok {
		return 0, &UnknownCurrencyError{Code: c}
	}
	return r, nil
}

// Rates returns a copy of the rate table.
func Rates() map[Code]float64 {
	out := make(map[Code]float64, len(rates))
	for c, r := range rates {
		out[c] = r
	}
	return out
}

// Supported lists the supported codes in alphabetical order.
func Supported() []Code {
	out := make([]Code, 0, len(rates))
	for c := range rates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func codeStrings() []string {
	codes := Supported()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

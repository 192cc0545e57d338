package currency

import (
	"github.com/shopspring/decimal"
)

// Convert converts amount from one currency to another through the reference currency,
// rounded half-up to 2 decimal places. Equal codes return amount untouched, whatever it is.
func Convert(amount float64, from, to Code) (float64, error) {
	if from == to {
		return amount, nil
	}
	v, err := convert(amount, from, to)
	if err != nil {
		return 0, err
	}
	f, _ := v.Round(2).Float64()
	return f, nil
}

// ConvertForDisplay is Convert with XAF results rounded to whole francs.
func ConvertForDisplay(amount float64, from, to Code) (float64, error) {
	converted, err := Convert(amount, from, to)
	if err != nil {
		return 0, err
	}
	if to == XAF {
		f, _ := decimal.NewFromFloat(converted).Round(0).Float64()
		return f, nil
	}
	return converted, nil
}

func convert(amount float64, from, to Code) (decimal.Decimal, error) {
	rateFrom, err := Rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	rateTo, err := Rate(to)
	if err != nil {
		return decimal.Zero, err
	}
	inReference := decimal.NewFromFloat(amount).Div(decimal.NewFromFloat(rateFrom))
	return inReference.Mul(decimal.NewFromFloat(rateTo)), nil
}

// Round2 rounds a money amount half-up to 2 decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

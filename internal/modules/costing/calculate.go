package costing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Calculate computes the landed cost of in.
//
//	totalCost    = purchasePrice*quantity + shipping + customs + other
//	unitCost     = totalCost / quantity
//	sellingPrice = unitCost * (1 + markup/100)
//
// Intermediate values keep full precision; only the results are rounded.
func Calculate(in Inputs) Result {
	if in.Quantity <= 0 {
		return Result{}
	}
	var price float64
	if in.PurchasePrice != nil {
		price = *in.PurchasePrice
	}
	qty := decimal.NewFromInt(int64(in.Quantity))
	total := decimal.NewFromFloat(price).Mul(qty).
		Add(decimal.NewFromFloat(in.ShippingCost)).
		Add(decimal.NewFromFloat(in.CustomsDuty)).
		Add(decimal.NewFromFloat(in.OtherCosts))
	unit := total.DivRound(qty, 16)
	selling := unit.Mul(hundred.Add(decimal.NewFromFloat(in.MarkupPercent))).DivRound(hundred, 16)

	return Result{
		TotalCost:    total.Round(2).InexactFloat64(),
		UnitCost:     unit.Round(2).InexactFloat64(),
		SellingPrice: selling.Round(2).InexactFloat64(),
		Profit:       selling.Sub(unit).Round(2).InexactFloat64(),
	}
}

func (c Costing) inputs() Inputs {
	price := c.PurchasePrice
	return Inputs{
		Quantity:      c.Quantity,
		PurchasePrice: &price,
		ShippingCost:  c.ShippingCost,
		CustomsDuty:   c.CustomsDuty,
		OtherCosts:    c.OtherCosts,
		MarkupPercent: c.MarkupPercent,
	}
}

func (c *Costing) apply(r Result) {
	c.TotalCost = r.TotalCost
	c.UnitCost = r.UnitCost
	c.SellingPrice = r.SellingPrice
	c.Profit = r.Profit
}

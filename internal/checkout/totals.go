package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/ecomstore/backend/pkg/config"
)

// Totals is the priced breakdown of a cart or checkout request.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Shipping    decimal.Decimal `json:"shipping"`
	Tax         decimal.Decimal `json:"tax"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	GrossAmount int64           `json:"grossAmount"`
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals prices a set of line items under the configured checkout
// rules. Shipping is waived at or above the free-shipping threshold, tax
// applies to the subtotal, and the discount kicks in strictly above its
// threshold. The gross amount is the rounded total, floored at 1 so the
// gateway never sees a zero charge.
func ComputeTotals(cfg config.CheckoutConfig, items []ItemInput) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := decimal.NewFromInt(int64(cfg.FlatShippingCost))
	if subtotal.GreaterThanOrEqual(decimal.NewFromInt(int64(cfg.FreeShippingThreshold))) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(decimal.NewFromInt(int64(cfg.TaxRatePercent))).Div(hundred)

	discount := decimal.Zero
	if subtotal.GreaterThan(decimal.NewFromInt(int64(cfg.DiscountThreshold))) {
		discount = subtotal.Mul(decimal.NewFromInt(int64(cfg.DiscountRatePercent))).Div(hundred)
	}

	total := subtotal.Add(shipping).Add(tax).Sub(discount)

	gross := total.Round(0).IntPart()
	if gross < 1 {
		gross = 1
	}

	return Totals{
		Subtotal:    subtotal,
		Shipping:    shipping,
		Tax:         tax.Round(2),
		Discount:    discount.Round(2),
		Total:       total.Round(2),
		GrossAmount: gross,
	}
}

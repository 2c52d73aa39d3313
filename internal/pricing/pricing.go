// Package pricing derives cart totals. Amounts are kept exact until Rounded
// is called at the display or persistence boundary.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/grocery/internal/config"
	"github.com/Alturino/grocery/internal/coupon"
)

type Line struct {
	ProductID int64           `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
}

type Config struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: decimal.NewFromInt(1000),
		FlatShippingFee:       decimal.NewFromInt(49),
		TaxRate:               decimal.RequireFromString("0.05"),
	}
}

func ConfigFrom(p config.Pricing) Config {
	cfg := DefaultConfig()
	if !p.FreeShippingThreshold.IsZero() {
		cfg.FreeShippingThreshold = p.FreeShippingThreshold
	}
	if !p.FlatShippingFee.IsZero() {
		cfg.FlatShippingFee = p.FlatShippingFee
	}
	if !p.TaxRate.IsZero() {
		cfg.TaxRate = p.TaxRate
	}
	return cfg
}

type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Shipping   decimal.Decimal `json:"shipping"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grandTotal"`

	itemCount int64
	threshold decimal.Decimal
}

func ComputeTotals(lines []Line, c *coupon.Coupon, cfg Config) Totals {
	subtotal := decimal.Zero
	var itemCount int64
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt32(l.Quantity)))
		itemCount += int64(l.Quantity)
	}

	shipping := cfg.FlatShippingFee
	switch {
	case len(lines) == 0:
		shipping = decimal.Zero
	case subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold):
		shipping = decimal.Zero
	case c != nil && c.FreeShipping:
		shipping = decimal.Zero
	}

	discount := decimal.Zero
	if c != nil {
		discount = subtotal.Mul(c.DiscountRate)
	}

	tax := subtotal.Sub(discount).Mul(cfg.TaxRate)

	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal.Sub(discount).Add(shipping).Add(tax),
		itemCount:  itemCount,
		threshold:  cfg.FreeShippingThreshold,
	}
}

func (t Totals) Rounded() Totals {
	t.Subtotal = t.Subtotal.Round(2)
	t.Discount = t.Discount.Round(2)
	t.Shipping = t.Shipping.Round(2)
	t.Tax = t.Tax.Round(2)
	t.GrandTotal = t.GrandTotal.Round(2)
	return t
}

func (t Totals) ItemCount() int64 {
	return t.itemCount
}

func (t Totals) CanCheckout() bool {
	return t.itemCount > 0
}

// AmountToFreeShipping is how much more subtotal qualifies for free shipping,
// zero once the threshold is met.
func (t Totals) AmountToFreeShipping() decimal.Decimal {
	remaining := t.threshold.Sub(t.Subtotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Package coupon holds the static discount codes the storefront accepts.
package coupon

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Alturino/grocery/internal/errors"
)

type Coupon struct {
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	FreeShipping bool            `json:"freeShipping"`
}

type Registry struct {
	coupons map[string]Coupon
}

func NewRegistry(coupons ...Coupon) Registry {
	r := Registry{coupons: make(map[string]Coupon, len(coupons))}
	for _, c := range coupons {
		r.coupons[strings.ToUpper(c.Code)] = c
	}
	return r
}

var Default = NewRegistry(
	Coupon{Code: "SAVE10", Description: "10% off", DiscountRate: decimal.RequireFromString("0.10")},
	Coupon{Code: "SAVE15", Description: "15% off", DiscountRate: decimal.RequireFromString("0.15")},
	Coupon{Code: "FREESHIP", Description: "Free shipping", DiscountRate: decimal.Zero, FreeShipping: true},
)

// Lookup matches code case-insensitively after trimming surrounding spaces.
func (r Registry) Lookup(code string) (Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	c, ok := r.coupons[normalized]
	if !ok || normalized == "" {
		return Coupon{}, fmt.Errorf("coupon=%q with error=%w", code, errors.ErrInvalidCoupon)
	}
	return c, nil
}

// Resolve is Lookup that treats an empty code as no coupon.
func (r Registry) Resolve(code string) (*Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}
	c, err := r.Lookup(code)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

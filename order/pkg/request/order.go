package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentCashOnDelivery = "COD"
	PaymentCard           = "Card"
	PaymentUPI            = "UPI"
)

func IsPaymentMethod(method string) bool {
	switch method {
	case PaymentCashOnDelivery, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

// CreateOrder is the checkout submission. Lines come from the user's
// persisted cart, Total and DiscountAmount are what the client displayed.
type CreateOrder struct {
	UserID         uuid.UUID       `json:"userId"         validate:"required"`
	AddressID      uuid.UUID       `json:"addressId"      validate:"required"`
	PaymentMethod  string          `json:"paymentMethod"  validate:"required,oneof=COD Card UPI"`
	CouponCode     string          `json:"couponCode"     validate:"max=50"`
	Total          decimal.Decimal `json:"total"          validate:"gte=0"`
	DiscountAmount decimal.Decimal `json:"discountAmount" validate:"gte=0"`
}

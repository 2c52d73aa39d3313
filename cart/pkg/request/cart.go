package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartItem merges into an existing line for the same product. A zero
// Quantity means one.
type AddCartItem struct {
	UserID    uuid.UUID       `json:"userId"    validate:"required"`
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Title     string          `json:"title"     validate:"required"`
	Price     decimal.Decimal `json:"price"     validate:"gte=0,money"`
	Image     string          `json:"image"`
	Quantity  int32           `json:"quantity"  validate:"gte=0"`
}

type UpdateCartItem struct {
	UserID    uuid.UUID `json:"userId"    validate:"required"`
	ProductID int64     `json:"productId" validate:"required,gt=0"`
	Quantity  int32     `json:"quantity"  validate:"gte=0"`
}

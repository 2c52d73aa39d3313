package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddWishlistItem struct {
	UserID    uuid.UUID       `json:"userId"    validate:"required"`
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Title     string          `json:"title"     validate:"required,max=255"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"     validate:"gte=0"`
}

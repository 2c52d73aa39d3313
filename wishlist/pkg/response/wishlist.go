package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WishlistItem struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	ProductID int64           `json:"productId"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}

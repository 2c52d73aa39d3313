package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/grocery/internal/pricing"
)

type CartItem struct {
	UserID    uuid.UUID       `json:"userId"`
	ProductID int64           `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int32           `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (c CartItem) Line() pricing.Line {
	return pricing.Line{ProductID: c.ProductID, Price: c.Price, Quantity: c.Quantity}
}

type Cart struct {
	UserID uuid.UUID      `json:"userId"`
	Items  []CartItem     `json:"items"`
	Totals pricing.Totals `json:"totals"`
}

func Lines(items []CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.Line())
	}
	return lines
}

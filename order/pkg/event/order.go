package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TypeOrderPlaced = "order.placed"

type OrderPlaced struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	OrderID   uuid.UUID       `json:"orderId"`
	UserID    uuid.UUID       `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	PlacedAt  time.Time       `json:"placedAt"`
}

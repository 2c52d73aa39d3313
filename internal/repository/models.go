package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Address struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"user_id"`
	Label      string             `json:"label"`
	FullName   string             `json:"full_name"`
	Phone      string             `json:"phone"`
	Street     string             `json:"street"`
	City       string             `json:"city"`
	State      string             `json:"state"`
	PostalCode string             `json:"postal_code"`
	Country    string             `json:"country"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

type CartItem struct {
	UserID    uuid.UUID          `json:"user_id"`
	ProductID int64              `json:"product_id"`
	Title     string             `json:"title"`
	Price     pgtype.Numeric     `json:"price"`
	Image     string             `json:"image"`
	Quantity  int32              `json:"quantity"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type HelpRequest struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Message   string             `json:"message"`
	Status    string             `json:"status"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Order struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"user_id"`
	AddressID      uuid.UUID          `json:"address_id"`
	PaymentMethod  string             `json:"payment_method"`
	CouponCode     pgtype.Text        `json:"coupon_code"`
	Subtotal       pgtype.Numeric     `json:"subtotal"`
	DiscountAmount pgtype.Numeric     `json:"discount_amount"`
	Shipping       pgtype.Numeric     `json:"shipping"`
	Tax            pgtype.Numeric     `json:"tax"`
	Total          pgtype.Numeric     `json:"total"`
	Status         string             `json:"status"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type OrderItem struct {
	ID        uuid.UUID          `json:"id"`
	OrderID   uuid.UUID          `json:"order_id"`
	LineNo    int32              `json:"line_no"`
	ProductID int64              `json:"product_id"`
	Title     string             `json:"title"`
	Price     pgtype.Numeric     `json:"price"`
	Quantity  int32              `json:"quantity"`
	Image     string             `json:"image"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type User struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Password  string             `json:"password"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type WishlistItem struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	ProductID int64              `json:"product_id"`
	Title     string             `json:"title"`
	Image     string             `json:"image"`
	Price     pgtype.Numeric     `json:"price"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

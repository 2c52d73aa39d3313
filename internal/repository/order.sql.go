package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `-- name: InsertOrder :one
insert into orders (
  id, user_id, address_id, payment_method, coupon_code,
  subtotal, discount_amount, shipping, tax, total, status
)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
returning id, user_id, address_id, payment_method, coupon_code, subtotal, discount_amount, shipping, tax, total, status, created_at, updated_at
`

type InsertOrderParams struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	AddressID      uuid.UUID      `json:"address_id"`
	PaymentMethod  string         `json:"payment_method"`
	CouponCode     pgtype.Text    `json:"coupon_code"`
	Subtotal       pgtype.Numeric `json:"subtotal"`
	DiscountAmount pgtype.Numeric `json:"discount_amount"`
	Shipping       pgtype.Numeric `json:"shipping"`
	Tax            pgtype.Numeric `json:"tax"`
	Total          pgtype.Numeric `json:"total"`
	Status         string         `json:"status"`
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, insertOrder,
		arg.ID,
		arg.UserID,
		arg.AddressID,
		arg.PaymentMethod,
		arg.CouponCode,
		arg.Subtotal,
		arg.DiscountAmount,
		arg.Shipping,
		arg.Tax,
		arg.Total,
		arg.Status,
	)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AddressID,
		&i.PaymentMethod,
		&i.CouponCode,
		&i.Subtotal,
		&i.DiscountAmount,
		&i.Shipping,
		&i.Tax,
		&i.Total,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertOrderItem = `-- name: InsertOrderItem :one
insert into order_items (id, order_id, line_no, product_id, title, price, quantity, image)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id, order_id, line_no, product_id, title, price, quantity, image, created_at
`

type InsertOrderItemParams struct {
	ID        uuid.UUID      `json:"id"`
	OrderID   uuid.UUID      `json:"order_id"`
	LineNo    int32          `json:"line_no"`
	ProductID int64          `json:"product_id"`
	Title     string         `json:"title"`
	Price     pgtype.Numeric `json:"price"`
	Quantity  int32          `json:"quantity"`
	Image     string         `json:"image"`
}

func (q *Queries) InsertOrderItem(ctx context.Context, arg InsertOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, insertOrderItem,
		arg.ID,
		arg.OrderID,
		arg.LineNo,
		arg.ProductID,
		arg.Title,
		arg.Price,
		arg.Quantity,
		arg.Image,
	)
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.LineNo,
		&i.ProductID,
		&i.Title,
		&i.Price,
		&i.Quantity,
		&i.Image,
		&i.CreatedAt,
	)
	return i, err
}

const findOrdersByUserId = `-- name: FindOrdersByUserId :many
select
  o.id, o.user_id, o.address_id, o.payment_method, o.coupon_code,
  o.subtotal, o.discount_amount, o.shipping, o.tax, o.total, o.status,
  o.created_at, o.updated_at,
  coalesce(
    json_agg(
      json_build_object(
        'id', oi.id,
        'orderId', oi.order_id,
        'lineNo', oi.line_no,
        'productId', oi.product_id,
        'title', oi.title,
        'price', oi.price,
        'quantity', oi.quantity,
        'image', oi.image
      ) order by oi.line_no
    ) filter (where oi.id is not null),
    '[]'
  )::json as order_items
from orders o
left join order_items oi on oi.order_id = o.id
where o.user_id = $1
group by o.id
order by o.created_at desc, o.id
`

type FindOrdersByUserIdRow struct {
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
	OrderItems     []byte             `json:"order_items"`
}

func (q *Queries) FindOrdersByUserId(ctx context.Context, userID uuid.UUID) ([]FindOrdersByUserIdRow, error) {
	rows, err := q.db.Query(ctx, findOrdersByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindOrdersByUserIdRow{}
	for rows.Next() {
		var i FindOrdersByUserIdRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.AddressID,
			&i.PaymentMethod,
			&i.CouponCode,
			&i.Subtotal,
			&i.DiscountAmount,
			&i.Shipping,
			&i.Tax,
			&i.Total,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.OrderItems,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countOrdersByUserId = `-- name: CountOrdersByUserId :one
select count(*) from orders where user_id = $1
`

func (q *Queries) CountOrdersByUserId(ctx context.Context, userID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countOrdersByUserId, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findCartItemsByUserId = `-- name: FindCartItemsByUserId :many
select user_id, product_id, title, price, image, quantity, created_at, updated_at
from cart_items
where user_id = $1
order by created_at, product_id
`

func (q *Queries) FindCartItemsByUserId(ctx context.Context, userID uuid.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(ctx, findCartItemsByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCartItems(rows)
}

const findCartItemsByUserIdForUpdate = `-- name: FindCartItemsByUserIdForUpdate :many
select user_id, product_id, title, price, image, quantity, created_at, updated_at
from cart_items
where user_id = $1
order by created_at, product_id
for update
`

func (q *Queries) FindCartItemsByUserIdForUpdate(ctx context.Context, userID uuid.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(ctx, findCartItemsByUserIdForUpdate, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCartItems(rows)
}

type cartRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanCartItems(rows cartRows) ([]CartItem, error) {
	items := []CartItem{}
	for rows.Next() {
		var i CartItem
		if err := rows.Scan(
			&i.UserID,
			&i.ProductID,
			&i.Title,
			&i.Price,
			&i.Image,
			&i.Quantity,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const upsertCartItem = `-- name: UpsertCartItem :one
insert into cart_items (user_id, product_id, title, price, image, quantity)
values ($1, $2, $3, $4, $5, $6)
on conflict (user_id, product_id)
do update set quantity = cart_items.quantity + excluded.quantity, updated_at = now()
returning user_id, product_id, title, price, image, quantity, created_at, updated_at
`

type UpsertCartItemParams struct {
	UserID    uuid.UUID      `json:"user_id"`
	ProductID int64          `json:"product_id"`
	Title     string         `json:"title"`
	Price     pgtype.Numeric `json:"price"`
	Image     string         `json:"image"`
	Quantity  int32          `json:"quantity"`
}

func (q *Queries) UpsertCartItem(ctx context.Context, arg UpsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(ctx, upsertCartItem,
		arg.UserID,
		arg.ProductID,
		arg.Title,
		arg.Price,
		arg.Image,
		arg.Quantity,
	)
	var i CartItem
	err := row.Scan(
		&i.UserID,
		&i.ProductID,
		&i.Title,
		&i.Price,
		&i.Image,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateCartItemQuantity = `-- name: UpdateCartItemQuantity :one
update cart_items
set quantity = $3, updated_at = now()
where user_id = $1 and product_id = $2
returning user_id, product_id, title, price, image, quantity, created_at, updated_at
`

type UpdateCartItemQuantityParams struct {
	UserID    uuid.UUID `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

func (q *Queries) UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error) {
	row := q.db.QueryRow(ctx, updateCartItemQuantity, arg.UserID, arg.ProductID, arg.Quantity)
	var i CartItem
	err := row.Scan(
		&i.UserID,
		&i.ProductID,
		&i.Title,
		&i.Price,
		&i.Image,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteCartItem = `-- name: DeleteCartItem :execrows
delete from cart_items
where user_id = $1 and product_id = $2
`

type DeleteCartItemParams struct {
	UserID    uuid.UUID `json:"user_id"`
	ProductID int64     `json:"product_id"`
}

func (q *Queries) DeleteCartItem(ctx context.Context, arg DeleteCartItemParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCartItem, arg.UserID, arg.ProductID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteCartItemsByUserId = `-- name: DeleteCartItemsByUserId :execrows
delete from cart_items
where user_id = $1
`

func (q *Queries) DeleteCartItemsByUserId(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCartItemsByUserId, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

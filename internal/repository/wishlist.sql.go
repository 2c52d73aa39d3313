package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findWishlistByUserId = `-- name: FindWishlistByUserId :many
select id, user_id, product_id, title, image, price, created_at
from wishlist_items
where user_id = $1
order by created_at desc
`

func (q *Queries) FindWishlistByUserId(ctx context.Context, userID uuid.UUID) ([]WishlistItem, error) {
	rows, err := q.db.Query(ctx, findWishlistByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []WishlistItem{}
	for rows.Next() {
		var i WishlistItem
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.ProductID,
			&i.Title,
			&i.Image,
			&i.Price,
			&i.CreatedAt,
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

const insertWishlistItem = `-- name: InsertWishlistItem :one
insert into wishlist_items (id, user_id, product_id, title, image, price)
values ($1, $2, $3, $4, $5, $6)
on conflict (user_id, product_id) do nothing
returning id, user_id, product_id, title, image, price, created_at
`

type InsertWishlistItemParams struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	ProductID int64          `json:"product_id"`
	Title     string         `json:"title"`
	Image     string         `json:"image"`
	Price     pgtype.Numeric `json:"price"`
}

// InsertWishlistItem returns pgx.ErrNoRows when the product is already
// wishlisted.
func (q *Queries) InsertWishlistItem(ctx context.Context, arg InsertWishlistItemParams) (WishlistItem, error) {
	row := q.db.QueryRow(ctx, insertWishlistItem,
		arg.ID,
		arg.UserID,
		arg.ProductID,
		arg.Title,
		arg.Image,
		arg.Price,
	)
	var i WishlistItem
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ProductID,
		&i.Title,
		&i.Image,
		&i.Price,
		&i.CreatedAt,
	)
	return i, err
}

const deleteWishlistItem = `-- name: DeleteWishlistItem :execrows
delete from wishlist_items
where user_id = $1 and product_id = $2
`

type DeleteWishlistItemParams struct {
	UserID    uuid.UUID `json:"user_id"`
	ProductID int64     `json:"product_id"`
}

func (q *Queries) DeleteWishlistItem(ctx context.Context, arg DeleteWishlistItemParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteWishlistItem, arg.UserID, arg.ProductID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteWishlistByUserId = `-- name: DeleteWishlistByUserId :execrows
delete from wishlist_items
where user_id = $1
`

func (q *Queries) DeleteWishlistByUserId(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteWishlistByUserId, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

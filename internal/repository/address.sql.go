package repository

import (
	"context"

	"github.com/google/uuid"
)

const addressColumns = `id, user_id, label, full_name, phone, street, city, state, postal_code, country, created_at, updated_at`

func scanAddress(row interface{ Scan(...interface{}) error }) (Address, error) {
	var i Address
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Label,
		&i.FullName,
		&i.Phone,
		&i.Street,
		&i.City,
		&i.State,
		&i.PostalCode,
		&i.Country,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findAddressesByUserId = `-- name: FindAddressesByUserId :many
select ` + addressColumns + `
from addresses
where user_id = $1
order by created_at desc
`

func (q *Queries) FindAddressesByUserId(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	rows, err := q.db.Query(ctx, findAddressesByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Address{}
	for rows.Next() {
		i, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findAddressByIdAndUserId = `-- name: FindAddressByIdAndUserId :one
select ` + addressColumns + `
from addresses
where id = $1 and user_id = $2
`

type FindAddressByIdAndUserIdParams struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) FindAddressByIdAndUserId(ctx context.Context, arg FindAddressByIdAndUserIdParams) (Address, error) {
	return scanAddress(q.db.QueryRow(ctx, findAddressByIdAndUserId, arg.ID, arg.UserID))
}

const insertAddress = `-- name: InsertAddress :one
insert into addresses (id, user_id, label, full_name, phone, street, city, state, postal_code, country)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
returning ` + addressColumns + `
`

type InsertAddressParams struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Label      string    `json:"label"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
}

func (q *Queries) InsertAddress(ctx context.Context, arg InsertAddressParams) (Address, error) {
	return scanAddress(q.db.QueryRow(ctx, insertAddress,
		arg.ID,
		arg.UserID,
		arg.Label,
		arg.FullName,
		arg.Phone,
		arg.Street,
		arg.City,
		arg.State,
		arg.PostalCode,
		arg.Country,
	))
}

const updateAddress = `-- name: UpdateAddress :one
update addresses
set label = $3, full_name = $4, phone = $5, street = $6, city = $7, state = $8,
    postal_code = $9, country = $10, updated_at = now()
where id = $1 and user_id = $2
returning ` + addressColumns + `
`

type UpdateAddressParams struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Label      string    `json:"label"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
}

func (q *Queries) UpdateAddress(ctx context.Context, arg UpdateAddressParams) (Address, error) {
	return scanAddress(q.db.QueryRow(ctx, updateAddress,
		arg.ID,
		arg.UserID,
		arg.Label,
		arg.FullName,
		arg.Phone,
		arg.Street,
		arg.City,
		arg.State,
		arg.PostalCode,
		arg.Country,
	))
}

const deleteAddress = `-- name: DeleteAddress :execrows
delete from addresses
where id = $1 and user_id = $2
`

type DeleteAddressParams struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) DeleteAddress(ctx context.Context, arg DeleteAddressParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAddress, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
)

const findHelpRequestsByUserId = `-- name: FindHelpRequestsByUserId :many
select id, user_id, name, email, message, status, created_at
from help_requests
where user_id = $1
order by created_at desc
`

func (q *Queries) FindHelpRequestsByUserId(ctx context.Context, userID uuid.UUID) ([]HelpRequest, error) {
	rows, err := q.db.Query(ctx, findHelpRequestsByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []HelpRequest{}
	for rows.Next() {
		var i HelpRequest
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Name,
			&i.Email,
			&i.Message,
			&i.Status,
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

const insertHelpRequest = `-- name: InsertHelpRequest :one
insert into help_requests (id, user_id, name, email, message)
values ($1, $2, $3, $4, $5)
returning id, user_id, name, email, message, status, created_at
`

type InsertHelpRequestParams struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
}

func (q *Queries) InsertHelpRequest(ctx context.Context, arg InsertHelpRequestParams) (HelpRequest, error) {
	row := q.db.QueryRow(ctx, insertHelpRequest, arg.ID, arg.UserID, arg.Name, arg.Email, arg.Message)
	var i HelpRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Email,
		&i.Message,
		&i.Status,
		&i.CreatedAt,
	)
	return i, err
}

const deleteHelpRequest = `-- name: DeleteHelpRequest :execrows
delete from help_requests
where id = $1 and user_id = $2
`

type DeleteHelpRequestParams struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) DeleteHelpRequest(ctx context.Context, arg DeleteHelpRequestParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteHelpRequest, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

package repository

import (
	"context"
	"quest/src/models"

	"github.com/google/uuid"
)

const findUserByUsernameSql = `
SELECT id, username, password, is_admin, created_at, updated_at
FROM users
WHERE username = $1
`

func FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return rowToStruct[models.User](ctx, db, findUserByUsernameSql, username)
}

func InsertUser(ctx context.Context, username string, password string, isAdmin bool) (id uuid.UUID, err error) {
	const sql = `
	INSERT INTO users (username, password, is_admin)
	VALUES ($1, $2, $3)
	RETURNING id
	`

	err = db.QueryRow(ctx, sql, username, password, isAdmin).Scan(&id)
	return
}

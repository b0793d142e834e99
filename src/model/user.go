package model

import (
	"context"
	"time"

	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/models"
)

func CreateUser(ctx context.Context, db database.DBTX, name string) (*models.User, error) {
	now := time.Now().UTC()
	res, err := db.ExecContext(ctx, `INSERT INTO users (name, created_at, updated_at) VALUES (?, ?, ?)`, name, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// GetUserByID returns sql.ErrNoRows when the user does not exist.
func GetUserByID(ctx context.Context, db database.DBTX, id int64) (*models.User, error) {
	var u models.User
	err := db.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

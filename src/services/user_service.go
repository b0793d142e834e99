package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
)

type userServiceImpl struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) UserService {
	return &userServiceImpl{db: db}
}

func (s *userServiceImpl) CreateUser(ctx context.Context, name string) (*models.User, error) {
	cleaned, err := validation.CleanName(name, "user name", validation.MaxNameLength)
	if err != nil {
		return nil, err
	}
	u, err := model.CreateUser(ctx, s.db, cleaned)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	logger.FromContext(ctx).Info("User created", "userID", u.ID)
	return u, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	u, err := model.GetUserByID(ctx, s.db, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	return u, nil
}

// notFound turns sql.ErrNoRows into ErrNotFound and passes other errors through.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("loading %s %d: %w", what, id, err)
}

func ensureUser(ctx context.Context, db *sql.DB, userID int64) error {
	if _, err := model.GetUserByID(ctx, db, userID); err != nil {
		return notFound(err, "user", userID)
	}
	return nil
}

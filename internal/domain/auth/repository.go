package auth

import (
	"context"

	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type Repository interface {
	// -------- Users --------
	FindUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	FindUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	CreateUser(
		ctx context.Context,
		user *models.User,
	) error

	UpdateUser(
		ctx context.Context,
		user *models.User,
	) error

	HasOAuth(
		ctx context.Context,
		userID uint,
	) (bool, error)

	// -------- Tokens --------

	// ReplaceToken deletes every token of tok.UserID and inserts tok in
	// one transaction.
	ReplaceToken(
		ctx context.Context,
		tok *models.Token,
	) error

	FindToken(
		ctx context.Context,
		id string,
	) (*models.Token, error)

	DeleteToken(
		ctx context.Context,
		id string,
	) error
}

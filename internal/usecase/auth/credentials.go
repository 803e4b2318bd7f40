// Package auth holds the sign-in pipeline: credential verification,
// verification tokens and session claims.
package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/auth"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

var (
	ErrInvalidCredentials = httperr.ErrBusiness("invalid_credentials")
	ErrEmailNotVerified   = httperr.ErrBusiness("email_not_verified")
	ErrInvalidToken       = httperr.ErrBusiness("invalid_token")
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

type VerifyCredentials struct {
	repo domain.Repository
}

func NewVerifyCredentials(repo domain.Repository) *VerifyCredentials {
	return &VerifyCredentials{repo: repo}
}

// Execute returns the user owning email when password matches. Every
// failing factor yields ErrInvalidCredentials.
func (uc *VerifyCredentials) Execute(
	ctx context.Context,
	email string,
	password string,
) (*models.User, error) {

	user, err := uc.repo.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

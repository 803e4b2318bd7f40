package auth

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/auth"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/mail"
)

type ForgotPassword struct {
	repo    domain.Repository
	issuer  *TokenIssuer
	sender  mail.Sender
	baseURL string
}

func NewForgotPassword(repo domain.Repository, issuer *TokenIssuer, sender mail.Sender, baseURL string) *ForgotPassword {
	return &ForgotPassword{repo: repo, issuer: issuer, sender: sender, baseURL: baseURL}
}

// Execute mails a reset link. Unknown addresses succeed silently.
func (uc *ForgotPassword) Execute(ctx context.Context, email string) error {
	user, err := uc.repo.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	tok, err := uc.issuer.Issue(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	msg, err := mail.ResetPassword(user.Email, user.Name, uc.baseURL+"/new-password?token="+tok.ID)
	if err != nil {
		return err
	}
	return mail.Deliver(ctx, uc.sender, msg)
}

type NewPassword struct {
	repo   domain.Repository
	issuer *TokenIssuer
}

func NewNewPassword(repo domain.Repository, issuer *TokenIssuer) *NewPassword {
	return &NewPassword{repo: repo, issuer: issuer}
}

// Execute sets the password of the token owner. Following the mailed link
// also proves ownership of the address.
func (uc *NewPassword) Execute(ctx context.Context, tokenID, password string) error {
	tok, err := uc.issuer.Consume(ctx, tokenID)
	if err != nil {
		return err
	}

	user, err := uc.repo.FindUserByID(ctx, tok.UserID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return ErrInvalidToken
		}
		return err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = &hashed
	if user.EmailVerified == nil {
		now := time.Now()
		user.EmailVerified = &now
	}
	return uc.repo.UpdateUser(ctx, user)
}

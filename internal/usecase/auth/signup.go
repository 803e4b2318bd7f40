package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/auth"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/mail"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

// ======================================================
// VERIFICATION MAIL
// ======================================================

type SendVerification struct {
	issuer  *TokenIssuer
	sender  mail.Sender
	baseURL string
}

func NewSendVerification(issuer *TokenIssuer, sender mail.Sender, baseURL string) *SendVerification {
	return &SendVerification{issuer: issuer, sender: sender, baseURL: baseURL}
}

func (uc *SendVerification) Execute(ctx context.Context, user *models.User) error {
	tok, err := uc.issuer.Issue(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	msg, err := mail.VerifyEmail(user.Email, user.Name, uc.baseURL+"/verify?token="+tok.ID)
	if err != nil {
		return err
	}
	return mail.Deliver(ctx, uc.sender, msg)
}

// ======================================================
// SIGN UP
// ======================================================

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type Signup struct {
	repo        domain.Repository
	mailer      *SendVerification
	emailDomain func(string) bool
}

// NewSignup builds the sign-up use case. emailDomain, when set, must accept
// the address domain.
func NewSignup(repo domain.Repository, mailer *SendVerification, emailDomain func(string) bool) *Signup {
	return &Signup{repo: repo, mailer: mailer, emailDomain: emailDomain}
}

func (uc *Signup) Execute(ctx context.Context, in SignupInput) (*models.User, error) {
	email := NormalizeEmail(in.Email)

	if uc.emailDomain != nil && !uc.emailDomain(email) {
		return nil, httperr.ErrBusiness("invalid_email_domain")
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: &hashed,
	}
	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := uc.mailer.Execute(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// ======================================================
// VERIFY EMAIL
// ======================================================

type VerifyEmail struct {
	repo   domain.Repository
	issuer *TokenIssuer
}

func NewVerifyEmail(repo domain.Repository, issuer *TokenIssuer) *VerifyEmail {
	return &VerifyEmail{repo: repo, issuer: issuer}
}

func (uc *VerifyEmail) Execute(ctx context.Context, tokenID string) (*models.User, error) {
	tok, err := uc.issuer.Consume(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	user, err := uc.repo.FindUserByID(ctx, tok.UserID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.EmailVerified == nil {
		now := time.Now()
		user.EmailVerified = &now
		if err := uc.repo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

package auth

import (
	"context"
	"log"

	"github.com/BruksfildServices01/clinic-admin/internal/session"
)

type Login struct {
	verify *VerifyCredentials
	claims *ClaimsBuilder
	mailer *SendVerification
}

func NewLogin(verify *VerifyCredentials, claims *ClaimsBuilder, mailer *SendVerification) *Login {
	return &Login{verify: verify, claims: claims, mailer: mailer}
}

// Execute verifies the credentials and builds the session claims. An
// unverified account gets a fresh verification email instead.
func (uc *Login) Execute(ctx context.Context, email, password string) (*session.Claims, error) {
	user, err := uc.verify.Execute(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if user.EmailVerified == nil {
		if err := uc.mailer.Execute(ctx, user); err != nil {
			log.Printf("login: verification mail for user %d: %v", user.ID, err)
		}
		return nil, ErrEmailNotVerified
	}

	return uc.claims.Build(ctx, user, ProviderCredentials)
}

package auth

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/auth"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/oauth"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
)

var ErrOAuthRejected = httperr.ErrBusiness("oauth_rejected")

type OAuthSignIn struct {
	provider oauth.Provider
	repo     domain.Repository
	claims   *ClaimsBuilder
}

func NewOAuthSignIn(provider oauth.Provider, repo domain.Repository, claims *ClaimsBuilder) *OAuthSignIn {
	return &OAuthSignIn{provider: provider, repo: repo, claims: claims}
}

func (uc *OAuthSignIn) AuthCodeURL(state string) string {
	return uc.provider.AuthCodeURL(state)
}

// Execute finds or creates the user behind the provider identity and
// builds its claims through the non-credential path.
func (uc *OAuthSignIn) Execute(ctx context.Context, code string) (*session.Claims, error) {
	id, err := uc.provider.Identity(ctx, code)
	if err != nil {
		return nil, err
	}
	if id.Email == "" || !id.EmailVerified {
		return nil, ErrOAuthRejected
	}

	email := NormalizeEmail(id.Email)
	now := time.Now()

	user, err := uc.repo.FindUserByEmail(ctx, email)
	switch {
	case httperr.IsNotFound(err):
		user = &models.User{
			Email:         email,
			Name:          id.Name,
			HasOAuth:      true,
			EmailVerified: &now,
		}
		if err := uc.repo.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create oauth user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	default:
		changed := false
		if !user.HasOAuth {
			user.HasOAuth = true
			changed = true
		}
		if user.EmailVerified == nil {
			user.EmailVerified = &now
			changed = true
		}
		if changed {
			if err := uc.repo.UpdateUser(ctx, user); err != nil {
				return nil, fmt.Errorf("link oauth user: %w", err)
			}
		}
	}

	return uc.claims.Build(ctx, user, ProviderGoogle)
}

package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/auth"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

// TokenIssuer keeps at most one live verification token per user.
type TokenIssuer struct {
	repo domain.Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenIssuer(repo domain.Repository, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{repo: repo, ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// Issue replaces any token of userID with a fresh one.
func (i *TokenIssuer) Issue(ctx context.Context, userID uint) (*models.Token, error) {
	tok := &models.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: i.now().Add(i.ttl),
	}
	if err := i.repo.ReplaceToken(ctx, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// Consume deletes the token and returns it when it was still live.
func (i *TokenIssuer) Consume(ctx context.Context, id string) (*models.Token, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidToken
	}

	tok, err := i.repo.FindToken(ctx, id)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if err := i.repo.DeleteToken(ctx, id); err != nil {
		return nil, err
	}

	if tok.IsExpired(i.now()) {
		return nil, ErrInvalidToken
	}
	return tok, nil
}

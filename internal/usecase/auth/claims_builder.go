package auth

import (
	"context"
	"fmt"

	authdomain "github.com/BruksfildServices01/clinic-admin/internal/domain/auth"
	rbacdomain "github.com/BruksfildServices01/clinic-admin/internal/domain/rbac"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
)

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

type ClaimsBuilder struct {
	users authdomain.Repository
	rbac  rbacdomain.Repository
}

func NewClaimsBuilder(users authdomain.Repository, rbac rbacdomain.Repository) *ClaimsBuilder {
	return &ClaimsBuilder{users: users, rbac: rbac}
}

// Build loads roles and the permissions they grant and denormalizes them
// with the profile fields of user. Registered claims are left to the
// session manager.
func (b *ClaimsBuilder) Build(
	ctx context.Context,
	user *models.User,
	provider string,
) (*session.Claims, error) {

	if user == nil || user.ID == 0 {
		return nil, ErrInvalidCredentials
	}

	hasOAuth := user.HasOAuth
	if provider != ProviderCredentials {
		v, err := b.users.HasOAuth(ctx, user.ID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("read has_oauth: %w", err)
		}
		hasOAuth = v
	}

	roles, err := b.rbac.RolesForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	roleIDs := make([]uint, 0, len(roles))
	roleClaims := make([]session.RoleClaim, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
		roleClaims = append(roleClaims, session.RoleClaim{ID: r.ID, Name: r.Name})
	}

	permClaims := []session.PermissionClaim{}
	if len(roleIDs) > 0 {
		perms, err := b.rbac.PermissionsForRoles(ctx, roleIDs)
		if err != nil {
			return nil, fmt.Errorf("load permissions: %w", err)
		}
		for _, p := range perms {
			permClaims = append(permClaims, session.PermissionClaim{ID: p.ID, Name: p.Name})
		}
	}

	return &session.Claims{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Roles:       roleClaims,
		Permissions: permClaims,
		City:        user.City,
		Phone:       user.Phone,
		Image:       user.Image,
		Cover:       user.Cover,
		HasOAuth:    hasOAuth,
	}, nil
}

// Refresh rebuilds the claims of userID from storage.
func (b *ClaimsBuilder) Refresh(ctx context.Context, userID uint) (*session.Claims, error) {
	user, err := b.users.FindUserByID(ctx, userID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return b.Build(ctx, user, ProviderCredentials)
}

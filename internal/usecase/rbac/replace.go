// Package rbac reassigns roles and permissions and tells the caller when
// the acting session has to be re-issued.
package rbac

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-admin/internal/audit"
	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/rbac"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
	"github.com/BruksfildServices01/clinic-admin/internal/usecase/auth"
)

// ======================================================
// USER ROLES
// ======================================================

type ReplaceUserRoles struct {
	repo   domain.Repository
	claims *auth.ClaimsBuilder
	audit  *audit.Dispatcher
}

func NewReplaceUserRoles(
	repo domain.Repository,
	claims *auth.ClaimsBuilder,
	audit *audit.Dispatcher,
) *ReplaceUserRoles {
	return &ReplaceUserRoles{repo: repo, claims: claims, audit: audit}
}

// Execute replaces the roles of userID. It returns refreshed claims when the
// actor edited its own roles, nil otherwise.
func (uc *ReplaceUserRoles) Execute(
	ctx context.Context,
	actor *session.Claims,
	userID uint,
	roleIDs []uint,
) (*session.Claims, error) {

	if err := uc.repo.ReplaceUserRoles(ctx, userID, roleIDs); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "user_roles_replaced",
		Entity:   "user",
		EntityID: &userID,
		Metadata: map[string]any{"role_ids": roleIDs},
	})

	if actor.UserID != userID {
		return nil, nil
	}

	fresh, err := uc.claims.Refresh(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh claims: %w", err)
	}
	return fresh, nil
}

// ======================================================
// ROLE PERMISSIONS
// ======================================================

type ReplaceRolePermissions struct {
	repo   domain.Repository
	claims *auth.ClaimsBuilder
	audit  *audit.Dispatcher
}

func NewReplaceRolePermissions(
	repo domain.Repository,
	claims *auth.ClaimsBuilder,
	audit *audit.Dispatcher,
) *ReplaceRolePermissions {
	return &ReplaceRolePermissions{repo: repo, claims: claims, audit: audit}
}

// Execute replaces the permissions of roleID. It returns refreshed claims
// when the actor currently holds roleID, nil otherwise.
func (uc *ReplaceRolePermissions) Execute(
	ctx context.Context,
	actor *session.Claims,
	roleID uint,
	permissionIDs []uint,
) (*session.Claims, error) {

	if err := uc.repo.ReplaceRolePermissions(ctx, roleID, permissionIDs); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "role_permissions_replaced",
		Entity:   "role",
		EntityID: &roleID,
		Metadata: map[string]any{"permission_ids": permissionIDs},
	})

	roles, err := uc.repo.RolesForUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("load actor roles: %w", err)
	}

	affected := false
	for _, r := range roles {
		if r.ID == roleID {
			affected = true
			break
		}
	}
	if !affected {
		return nil, nil
	}

	fresh, err := uc.claims.Refresh(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh claims: %w", err)
	}
	return fresh, nil
}

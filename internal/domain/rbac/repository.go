package rbac

import (
	"context"

	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type Repository interface {
	// -------- Set replace --------

	// ReplaceUserRoles deletes every UserRole of userID and recreates one
	// per distinct role id, in one transaction.
	ReplaceUserRoles(
		ctx context.Context,
		userID uint,
		roleIDs []uint,
	) error

	// ReplaceRolePermissions is the RolePermission counterpart.
	ReplaceRolePermissions(
		ctx context.Context,
		roleID uint,
		permissionIDs []uint,
	) error

	// -------- Claims --------
	RolesForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Role, error)

	PermissionsForRoles(
		ctx context.Context,
		roleIDs []uint,
	) ([]models.Permission, error)

	// -------- Roles --------
	ListRoles(ctx context.Context) ([]models.Role, error)
	GetRole(ctx context.Context, id uint) (*models.Role, error)
	CreateRole(ctx context.Context, role *models.Role) error
	UpdateRole(ctx context.Context, role *models.Role) error
	DeleteRole(ctx context.Context, id uint) error

	// -------- Permissions --------
	ListPermissions(ctx context.Context) ([]models.Permission, error)
	GetPermission(ctx context.Context, id uint) (*models.Permission, error)
	CreatePermission(ctx context.Context, p *models.Permission) error
	UpdatePermission(ctx context.Context, p *models.Permission) error
	DeletePermission(ctx context.Context, id uint) error
}

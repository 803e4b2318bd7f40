package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/rbac"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type RBACGormRepository struct {
	db *gorm.DB
}

func NewRBACGormRepository(db *gorm.DB) *RBACGormRepository {
	return &RBACGormRepository{db: db}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func assertExists(tx *gorm.DB, model any, id uint, code string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return httperr.ErrBusiness(code)
	}
	return nil
}

func assertAllExist(tx *gorm.DB, model any, ids []uint, code string) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return httperr.ErrBusiness(code)
	}
	return nil
}

// --------------------------------------------------
// Set replace
// --------------------------------------------------

func (r *RBACGormRepository) ReplaceUserRoles(
	ctx context.Context,
	userID uint,
	roleIDs []uint,
) error {

	ids := uniqueIDs(roleIDs)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertExists(tx, &models.User{}, userID, "user_not_found"); err != nil {
			return err
		}
		if err := assertAllExist(tx, &models.Role{}, ids, "role_not_found"); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		rows := make([]models.UserRole, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.UserRole{UserID: userID, RoleID: id})
		}
		return tx.Create(&rows).Error
	})
}

func (r *RBACGormRepository) ReplaceRolePermissions(
	ctx context.Context,
	roleID uint,
	permissionIDs []uint,
) error {

	ids := uniqueIDs(permissionIDs)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertExists(tx, &models.Role{}, roleID, "role_not_found"); err != nil {
			return err
		}
		if err := assertAllExist(tx, &models.Permission{}, ids, "permission_not_found"); err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		rows := make([]models.RolePermission, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.RolePermission{RoleID: roleID, PermissionID: id})
		}
		return tx.Create(&rows).Error
	})
}

// --------------------------------------------------
// Claims
// --------------------------------------------------

func (r *RBACGormRepository) RolesForUser(
	ctx context.Context,
	userID uint,
) ([]models.Role, error) {

	var roles []models.Role
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.id ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RBACGormRepository) PermissionsForRoles(
	ctx context.Context,
	roleIDs []uint,
) ([]models.Permission, error) {

	if len(roleIDs) == 0 {
		return []models.Permission{}, nil
	}

	granted := r.db.
		Model(&models.RolePermission{}).
		Select("permission_id").
		Where("role_id IN ?", roleIDs)

	var perms []models.Permission
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", granted).
		Order("id ASC").
		Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// --------------------------------------------------
// Roles
// --------------------------------------------------

func (r *RBACGormRepository) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RBACGormRepository) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RBACGormRepository) CreateRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *RBACGormRepository) UpdateRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *RBACGormRepository) DeleteRole(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertExists(tx, &models.Role{}, id, "role_not_found"); err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, id).Error
	})
}

// --------------------------------------------------
// Permissions
// --------------------------------------------------

func (r *RBACGormRepository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	err := r.db.WithContext(ctx).Order("name ASC").Find(&perms).Error
	return perms, err
}

func (r *RBACGormRepository) GetPermission(ctx context.Context, id uint) (*models.Permission, error) {
	var p models.Permission
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RBACGormRepository) CreatePermission(ctx context.Context, p *models.Permission) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *RBACGormRepository) UpdatePermission(ctx context.Context, p *models.Permission) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *RBACGormRepository) DeletePermission(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertExists(tx, &models.Permission{}, id, "permission_not_found"); err != nil {
			return err
		}
		if err := tx.Where("permission_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Permission{}, id).Error
	})
}

// Compile-time check
var _ domain.Repository = (*RBACGormRepository)(nil)

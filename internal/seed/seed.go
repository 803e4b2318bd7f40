// Package seed bootstraps an empty database with an administrator.
package seed

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/authz"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/usecase/auth"
)

const AdminRole = "admin"

type Admin struct {
	Email    string
	Password string
	Name     string
}

type Result struct {
	User       models.User
	Role       models.Role
	Permission models.Permission
}

// Run creates the admin role, the dashboard permission and the admin user,
// then links them. Nothing is looked up first: on a seeded database the
// unique keys reject the inserts and the whole run rolls back.
func Run(ctx context.Context, db *gorm.DB, admin Admin) (*Result, error) {
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res := &Result{
		Role:       models.Role{Name: AdminRole, Description: "Full access"},
		Permission: models.Permission{Name: authz.PermViewDashboard, Description: "Open the dashboard"},
		User: models.User{
			Email:         auth.NormalizeEmail(admin.Email),
			Name:          admin.Name,
			PasswordHash:  &hash,
			EmailVerified: &now,
		},
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&res.Role).Error; err != nil {
			return fmt.Errorf("create role: %w", err)
		}
		if err := tx.Create(&res.Permission).Error; err != nil {
			return fmt.Errorf("create permission: %w", err)
		}
		if err := tx.Create(&res.User).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.Create(&models.UserRole{UserID: res.User.ID, RoleID: res.Role.ID}).Error; err != nil {
			return fmt.Errorf("link user role: %w", err)
		}
		if err := tx.Create(&models.RolePermission{RoleID: res.Role.ID, PermissionID: res.Permission.ID}).Error; err != nil {
			return fmt.Errorf("link role permission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

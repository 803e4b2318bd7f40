package models

import "time"

type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRole and RolePermission are replaced wholesale, never diffed.
type UserRole struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_user_role;not null" json:"user_id"`
	RoleID uint `gorm:"uniqueIndex:idx_user_role;not null" json:"role_id"`

	CreatedAt time.Time `json:"created_at"`
}

type RolePermission struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RoleID       uint `gorm:"uniqueIndex:idx_role_permission;not null" json:"role_id"`
	PermissionID uint `gorm:"uniqueIndex:idx_role_permission;not null" json:"permission_id"`

	CreatedAt time.Time `json:"created_at"`
}

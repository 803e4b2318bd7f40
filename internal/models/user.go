package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email        string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash *string `gorm:"size:255" json:"-"`

	Name  string `gorm:"size:100" json:"name"`
	City  string `gorm:"size:100" json:"city"`
	Phone string `gorm:"size:20" json:"phone"`
	Bio   string `gorm:"type:text" json:"bio"`
	Image string `gorm:"size:255" json:"image"`
	Cover string `gorm:"size:255" json:"cover"`

	HasOAuth      bool       `gorm:"default:false" json:"has_oauth"`
	EmailVerified *time.Time `json:"email_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

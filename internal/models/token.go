package models

import "time"

// Token is the single live verification token of a user. Its ID is the
// opaque value embedded in mailed links.
type Token struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

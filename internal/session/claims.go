package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type RoleClaim struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PermissionClaim struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Claims is the denormalized view of a user carried by the session cookie.
// Roles and permissions reflect the last login or the last explicit push.
type Claims struct {
	jwt.RegisteredClaims
	UserID      uint              `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Roles       []RoleClaim       `json:"roles"`
	Permissions []PermissionClaim `json:"permissions"`
	City        string            `json:"city"`
	Phone       string            `json:"phone"`
	Image       string            `json:"image"`
	Cover       string            `json:"cover"`
	HasOAuth    bool              `json:"hasOAuth"`
}

func (c *Claims) HasPermission(name string) bool {
	for _, p := range c.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (c *Claims) HasRole(id uint) bool {
	for _, r := range c.Roles {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (c *Claims) PermissionNames() []string {
	out := make([]string, 0, len(c.Permissions))
	for _, p := range c.Permissions {
		out = append(out, p.Name)
	}
	return out
}

// IsExpired compares the server-issued expiry with now. A token without
// expiry is treated as expired.
func (c *Claims) IsExpired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

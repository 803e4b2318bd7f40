package models

import (
	"time"

	"gorm.io/datatypes"
)

type Membership struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string                      `gorm:"size:255" json:"description"`
	Perks       datatypes.JSONSlice[string] `json:"perks"`

	Fees []MembershipFee `json:"fees,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MembershipFee struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	MembershipID uint    `gorm:"uniqueIndex:idx_membership_renewal;not null" json:"membership_id"`
	RenewalType  string  `gorm:"size:10;uniqueIndex:idx_membership_renewal;not null" json:"renewal_type"`
	Amount       float64 `json:"amount"`
	Currency     string  `gorm:"size:3;default:'USD'" json:"currency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MembershipSubscription struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	MembershipID uint          `json:"membership_id"`
	Membership   Membership    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"membership"`
	FeeID        uint          `json:"fee_id"`
	Fee          MembershipFee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"fee"`

	Status    string     `gorm:"size:20;default:'pending'" json:"status"`
	ExpiresAt *time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Transaction struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	SubscriptionID uint    `gorm:"index;not null" json:"subscription_id"`
	FeeID          uint    `json:"fee_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `gorm:"size:3" json:"currency"`

	Provider    string  `gorm:"size:20;default:'manual'" json:"provider"`
	ProviderRef *string `gorm:"size:100;uniqueIndex" json:"provider_ref"`

	PaidAt    time.Time `json:"paid_at"`
	ExpiresAt time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

type Manufacturer struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Country string `gorm:"size:100" json:"country"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Salt struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Brand struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"size:150;uniqueIndex:idx_brand_manufacturer;not null" json:"name"`
	ManufacturerID uint         `gorm:"uniqueIndex:idx_brand_manufacturer;not null" json:"manufacturer_id"`
	Manufacturer   Manufacturer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"manufacturer"`
	Form           string       `gorm:"size:50" json:"form"`
	Strength       string       `gorm:"size:50" json:"strength"`
	Price          float64      `json:"price"`

	Salts []Salt `gorm:"many2many:brand_salts" json:"salts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Code struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	System      string `gorm:"size:20" json:"system"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

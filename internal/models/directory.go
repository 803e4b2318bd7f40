package models

import "time"

type Hospital struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	Phone   string `gorm:"size:20" json:"phone"`
	Email   string `gorm:"size:100" json:"email"`
	Image   string `gorm:"size:255" json:"image"`

	Departments []Department `json:"departments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Department struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	HospitalID  uint   `gorm:"uniqueIndex:idx_hospital_department;not null" json:"hospital_id"`
	Name        string `gorm:"size:100;uniqueIndex:idx_hospital_department;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DoctorProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	HospitalID   *uint       `json:"hospital_id"`
	Hospital     *Hospital   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"hospital,omitempty"`
	DepartmentID *uint       `json:"department_id"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"department,omitempty"`

	Specialization  string  `gorm:"size:100" json:"specialization"`
	Qualification   string  `gorm:"size:150" json:"qualification"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

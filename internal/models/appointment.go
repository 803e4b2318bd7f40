package models

import (
	"time"

	"gorm.io/datatypes"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint `gorm:"index;not null" json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient"`

	DoctorID uint `gorm:"index;not null" json:"doctor_id"`
	Doctor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor"`

	HospitalID   *uint `json:"hospital_id"`
	DepartmentID *uint `json:"department_id"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes   string                      `gorm:"type:text" json:"notes"`
	Reports datatypes.JSONSlice[string] `json:"reports"`

	ReminderSentAt *time.Time `json:"reminder_sent_at"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	PatientID   uint      `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	DoctorID    uint      `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name"`
	Notes       string    `json:"notes"`
	Reports     []string  `json:"reports"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	reports := []string(ap.Reports)
	if reports == nil {
		reports = []string{}
	}
	return AppointmentListDTO{
		ID:          ap.ID,
		StartTime:   ap.StartTime,
		EndTime:     ap.EndTime,
		Status:      ap.Status,
		PatientID:   ap.PatientID,
		PatientName: ap.Patient.Name,
		DoctorID:    ap.DoctorID,
		DoctorName:  ap.Doctor.Name,
		Notes:       ap.Notes,
		Reports:     reports,
	}
}

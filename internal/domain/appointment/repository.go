package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type ListFilter struct {
	PatientID uint
	DoctorID  uint
	Status    string
	From      time.Time
	To        time.Time
}

type Repository interface {
	// -------- Transaction --------
	WithTx(
		ctx context.Context,
		fn func(repo Repository) error,
	) error

	// -------- Doctor --------
	GetDoctor(
		ctx context.Context,
		doctorID uint,
	) (*models.DoctorProfile, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		doctorID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListBookedForPeriod(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Listing --------
	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	// -------- Reminders --------
	ListDueReminders(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	MarkReminderSent(
		ctx context.Context,
		appointmentID uint,
		at time.Time,
	) error
}

package appointment

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/audit"
	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/mail"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type UpdateAppointmentInput struct {
	ActorID uint
	// AsAdmin skips the patient/doctor ownership check.
	AsAdmin bool

	AppointmentID uint

	Status  *string
	Notes   *string
	Reports *[]string
}

type UpdateAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	sender mail.Sender
	now    func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	sender mail.Sender,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:   repo,
		audit:  audit,
		sender: sender,
		now:    time.Now,
	}
}

// Execute applies a status change and clinical edits. Patients may only
// cancel their own appointments; doctors edit their own; admins any.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	var (
		ap            *models.Appointment
		statusChanged bool
	)

	err := uc.repo.WithTx(ctx, func(repo domain.Repository) error {
		var err error
		ap, err = repo.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("appointment_not_found")
			}
			return err
		}

		isDoctor := in.AsAdmin || ap.DoctorID == in.ActorID
		isPatient := ap.PatientID == in.ActorID
		if !isDoctor && !isPatient {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if !isDoctor {
			if in.Notes != nil || in.Reports != nil {
				return httperr.ErrBusiness("forbidden")
			}
			if in.Status != nil && domain.Status(*in.Status) != domain.StatusCancelled {
				return httperr.ErrBusiness("forbidden")
			}
		}

		if in.Status != nil && *in.Status != ap.Status {
			to := domain.Status(*in.Status)
			if !to.Valid() {
				return httperr.ErrBusiness("invalid_state")
			}
			if err := domain.Transition(ap, to, uc.now()); err != nil {
				return err
			}
			statusChanged = true
		}

		if in.Notes != nil {
			ap.Notes = *in.Notes
		}
		if in.Reports != nil {
			ap.Reports = *in.Reports
		}

		return repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		uc.audit.Dispatch(audit.Event{
			UserID:   &in.ActorID,
			Action:   "appointment_" + ap.Status,
			Entity:   "appointment",
			EntityID: &ap.ID,
		})
		uc.notify(ctx, ap)
	}

	return ap, nil
}

func (uc *UpdateAppointment) notify(ctx context.Context, ap *models.Appointment) {
	if uc.sender == nil || ap.Patient.Email == "" {
		return
	}
	msg, err := mail.AppointmentStatus(ap.Patient.Email, mail.AppointmentData{
		PatientName: ap.Patient.Name,
		DoctorName:  ap.Doctor.Name,
		Start:       ap.StartTime,
		Status:      ap.Status,
	})
	if err == nil {
		err = mail.Deliver(ctx, uc.sender, msg)
	}
	if err != nil {
		log.Printf("appointment %d: status mail: %v", ap.ID, err)
	}
}

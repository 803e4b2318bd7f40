package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/audit"
	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

const MinAdvance = time.Hour

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PatientID uint
	DoctorID  uint

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
	now   func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		loc:   loc,
		now:   time.Now,
	}
}

func (uc *CreateAppointment) WithClock(now func() time.Time) *CreateAppointment {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if start.Before(uc.now().Add(MinAdvance)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	if in.PatientID == in.DoctorID {
		return nil, httperr.ErrBusiness("invalid_patient")
	}

	var ap *models.Appointment

	err = uc.repo.WithTx(ctx, func(repo domain.Repository) error {
		doc, err := repo.GetDoctor(ctx, in.DoctorID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("doctor_not_found")
			}
			return err
		}

		wh, err := repo.GetWorkingHours(ctx, in.DoctorID, int(start.Weekday()))
		if err != nil && !httperr.IsNotFound(err) {
			return err
		}

		slot := 30
		if wh != nil && wh.SlotMin > 0 {
			slot = wh.SlotMin
		}
		end := start.Add(time.Duration(slot) * time.Minute)

		if !domain.WithinWorkingHours(wh, start, end) {
			return httperr.ErrBusiness("outside_working_hours")
		}

		if err := repo.AssertNoTimeConflict(ctx, in.DoctorID, start, end); err != nil {
			return err
		}

		ap = &models.Appointment{
			PatientID:    in.PatientID,
			DoctorID:     in.DoctorID,
			HospitalID:   doc.HospitalID,
			DepartmentID: doc.DepartmentID,
			StartTime:    start,
			EndTime:      end,
			Status:       string(domain.InitialStatus()),
			Notes:        in.Notes,
		}

		if err := repo.CreateAppointment(ctx, ap); err != nil {
			if httperr.IsExclusionConflict(err) {
				return httperr.ErrBusiness("time_conflict")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.PatientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	if _, err := uc.repo.GetDoctor(ctx, in.DoctorID); err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("doctor_not_found")
		}
		return nil, err
	}

	wh, err := uc.repo.GetWorkingHours(ctx, in.DoctorID, int(in.Date.Weekday()))
	if err != nil {
		if httperr.IsNotFound(err) {
			return []domain.TimeSlot{}, nil
		}
		return nil, err
	}

	dayStart := domain.ClockOn(in.Date, "00:00")
	booked, err := uc.repo.ListBookedForPeriod(ctx, in.DoctorID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return domain.Slots(wh, in.Date, booked), nil
}

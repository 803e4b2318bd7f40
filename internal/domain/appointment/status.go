package appointment

import "github.com/BruksfildServices01/clinic-admin/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

// CanTransition allows pending → confirmed|cancelled and confirmed → cancelled.
func CanTransition(from, to Status) error {
	switch {
	case from == StatusPending && (to == StatusConfirmed || to == StatusCancelled):
		return nil
	case from == StatusConfirmed && to == StatusCancelled:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

func InitialStatus() Status {
	return StatusPending
}

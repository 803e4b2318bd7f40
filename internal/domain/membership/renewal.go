package membership

import (
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
)

const (
	RenewalMonthly = "monthly"
	RenewalYearly  = "yearly"
)

const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusExpired = "expired"
)

func ValidRenewal(r string) bool {
	return r == RenewalMonthly || r == RenewalYearly
}

// NextExpiry extends from the later of now and the current expiry by one
// renewal period.
func NextExpiry(now time.Time, current *time.Time, renewal string) (time.Time, error) {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}

	switch renewal {
	case RenewalMonthly:
		return base.AddDate(0, 1, 0), nil
	case RenewalYearly:
		return base.AddDate(1, 0, 0), nil
	}
	return time.Time{}, httperr.ErrBusiness("invalid_renewal")
}

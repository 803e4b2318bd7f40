package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

// ClockOn places an "HH:MM" wall clock on the calendar day of day.
func ClockOn(day time.Time, hm string) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	)
}

// WithinWorkingHours checks [start, end) against the shift of wh,
// excluding the break.
func WithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}
	if int(start.Weekday()) != wh.Weekday {
		return false
	}

	workStart := ClockOn(start, wh.StartTime)
	workEnd := ClockOn(start, wh.EndTime)

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if wh.BreakStart != "" && wh.BreakEnd != "" {
		if Overlaps(start, end, ClockOn(start, wh.BreakStart), ClockOn(start, wh.BreakEnd)) {
			return false
		}
	}

	return true
}

package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type AvailabilityInput struct {
	DoctorID uint
	Date     time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slots walks the shift of wh in steps of its slot length and returns the
// slots free of the break and of booked. booked must be ordered by start.
func Slots(wh *models.WorkingHours, day time.Time, booked []models.Appointment) []TimeSlot {
	slots := []TimeSlot{}
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return slots
	}

	slotMin := wh.SlotMin
	if slotMin <= 0 {
		slotMin = 30
	}
	step := time.Duration(slotMin) * time.Minute

	dayStart := ClockOn(day, wh.StartTime)
	dayEnd := ClockOn(day, wh.EndTime)

	hasBreak := wh.BreakStart != "" && wh.BreakEnd != ""
	var breakStart, breakEnd time.Time
	if hasBreak {
		breakStart = ClockOn(day, wh.BreakStart)
		breakEnd = ClockOn(day, wh.BreakEnd)
	}

	idx := 0
	for cur := dayStart; !cur.Add(step).After(dayEnd); cur = cur.Add(step) {
		slotStart := cur
		slotEnd := cur.Add(step)

		if hasBreak && Overlaps(slotStart, slotEnd, breakStart, breakEnd) {
			continue
		}

		for idx < len(booked) && !booked[idx].EndTime.After(slotStart) {
			idx++
		}

		conflict := false
		for j := idx; j < len(booked) && booked[j].StartTime.Before(slotEnd); j++ {
			if Overlaps(slotStart, slotEnd, booked[j].StartTime, booked[j].EndTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots
}

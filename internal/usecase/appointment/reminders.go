package appointment

import (
	"context"
	"log"
	"time"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-admin/internal/mail"
)

// SendReminders mails patients of confirmed appointments starting within
// the window, once per appointment.
type SendReminders struct {
	repo   domain.Repository
	sender mail.Sender
	window time.Duration
}

func NewSendReminders(repo domain.Repository, sender mail.Sender, window time.Duration) *SendReminders {
	return &SendReminders{repo: repo, sender: sender, window: window}
}

func (uc *SendReminders) Execute(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.repo.ListDueReminders(ctx, now, now.Add(uc.window))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, ap := range due {
		if ap.Patient.Email == "" {
			continue
		}
		msg, err := mail.AppointmentReminder(ap.Patient.Email, mail.AppointmentData{
			PatientName: ap.Patient.Name,
			DoctorName:  ap.Doctor.Name,
			Start:       ap.StartTime,
			Status:      ap.Status,
		})
		if err == nil {
			err = mail.Deliver(ctx, uc.sender, msg)
		}
		if err != nil {
			log.Printf("appointment %d: reminder: %v", ap.ID, err)
			continue
		}
		if err := uc.repo.MarkReminderSent(ctx, ap.ID, now); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

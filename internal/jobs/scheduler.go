// Package jobs runs the periodic background work of the API process.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/BruksfildServices01/clinic-admin/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-admin/internal/usecase/membership"
)

type Jobs struct {
	Reminders *appointment.SendReminders
	Expire    *membership.ExpireSubscriptions
}

// RunReminders sends due appointment reminders once.
func (j *Jobs) RunReminders(ctx context.Context) {
	n, err := j.Reminders.Execute(ctx, time.Now())
	if err != nil {
		log.Printf("reminder job: %v", err)
		return
	}
	if n > 0 {
		log.Printf("reminder job: %d reminders sent", n)
	}
}

// RunExpiry marks lapsed subscriptions once.
func (j *Jobs) RunExpiry(ctx context.Context) {
	n, err := j.Expire.Execute(ctx, time.Now())
	if err != nil {
		log.Printf("membership expiry job: %v", err)
		return
	}
	if n > 0 {
		log.Printf("membership expiry job: %d subscriptions expired", n)
	}
}

// Start schedules every job and returns the running scheduler.
func (j *Jobs) Start(ctx context.Context, loc *time.Location) *gocron.Scheduler {
	scheduler := gocron.NewScheduler(loc)

	if _, err := scheduler.Every(15).Minutes().Do(j.RunReminders, ctx); err != nil {
		log.Printf("schedule reminder job: %v", err)
	}
	if _, err := scheduler.Every(1).Hour().Do(j.RunExpiry, ctx); err != nil {
		log.Printf("schedule membership expiry job: %v", err)
	}

	scheduler.StartAsync()
	log.Println("background jobs started")

	return scheduler
}

package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/testutil"
)

// Sunday; the doctor works on Mondays.
var now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	repo    *repository.AppointmentGormRepository
	create  *CreateAppointment
	update  *UpdateAppointment
	outbox  *testutil.Outbox
	patient *models.User
	doctor  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	repo := repository.NewAppointmentGormRepository(db)
	outbox := &testutil.Outbox{}

	patient := testutil.CreateUser(t, db, "patient@clinic.test")
	doctor := testutil.CreateUser(t, db, "doctor@clinic.test")
	require.NoError(t, db.Create(&models.DoctorProfile{UserID: doctor.ID, Specialization: "cardiology"}).Error)
	require.NoError(t, db.Create(&models.WorkingHours{
		DoctorID:   doctor.ID,
		Weekday:    int(time.Monday),
		StartTime:  "09:00",
		EndTime:    "12:00",
		BreakStart: "10:00",
		BreakEnd:   "10:30",
		SlotMin:    30,
		Active:     true,
	}).Error)

	update := NewUpdateAppointment(repo, nil, outbox)
	update.now = func() time.Time { return now }

	return &fixture{
		db:      db,
		repo:    repo,
		create:  NewCreateAppointment(repo, nil, time.UTC).WithClock(func() time.Time { return now }),
		update:  update,
		outbox:  outbox,
		patient: patient,
		doctor:  doctor,
	}
}

func (f *fixture) book(t *testing.T, hm string) *models.Appointment {
	t.Helper()
	ap, err := f.create.Execute(context.Background(), CreateAppointmentInput{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      "2026-03-02",
		Time:      hm,
	})
	require.NoError(t, err)
	return ap
}

func strPtr(s string) *string { return &s }

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)

	ap := f.book(t, "09:00")
	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, 30*time.Minute, ap.EndTime.Sub(ap.StartTime))
}

func TestCreateAppointment_Rejections(t *testing.T) {
	f := newFixture(t)
	f.book(t, "09:00")

	tests := []struct {
		name string
		in   CreateAppointmentInput
		code string
	}{
		{"conflict", CreateAppointmentInput{Date: "2026-03-02", Time: "09:00"}, "time_conflict"},
		{"break", CreateAppointmentInput{Date: "2026-03-02", Time: "10:00"}, "outside_working_hours"},
		{"day off", CreateAppointmentInput{Date: "2026-03-03", Time: "09:00"}, "outside_working_hours"},
		{"past", CreateAppointmentInput{Date: "2026-03-01", Time: "08:30"}, "too_soon"},
		{"bad date", CreateAppointmentInput{Date: "02/03/2026", Time: "09:00"}, "invalid_date_or_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.PatientID = f.patient.ID
			tt.in.DoctorID = f.doctor.ID
			_, err := f.create.Execute(context.Background(), tt.in)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}

	_, err := f.create.Execute(context.Background(), CreateAppointmentInput{
		PatientID: f.patient.ID,
		DoctorID:  f.patient.ID + 100,
		Date:      "2026-03-02",
		Time:      "11:00",
	})
	assert.True(t, httperr.IsBusiness(err, "doctor_not_found"))
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, "09:00")

	_, err := f.update.Execute(context.Background(), UpdateAppointmentInput{
		ActorID:       f.patient.ID,
		AppointmentID: ap.ID,
		Status:        strPtr("cancelled"),
	})
	require.NoError(t, err)

	f.book(t, "09:00")
}

func TestUpdateAppointment_Transitions(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, "09:00")
	ctx := context.Background()

	got, err := f.update.Execute(ctx, UpdateAppointmentInput{
		ActorID:       f.doctor.ID,
		AppointmentID: ap.ID,
		Status:        strPtr("confirmed"),
		Notes:         strPtr("fasting required"),
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, "fasting required", got.Notes)
	assert.NotNil(t, got.ConfirmedAt)

	last, ok := f.outbox.Last()
	require.True(t, ok)
	assert.Equal(t, "patient@clinic.test", last.To)
	assert.Equal(t, "Your appointment is confirmed", last.Subject)

	_, err = f.update.Execute(ctx, UpdateAppointmentInput{
		ActorID:       f.doctor.ID,
		AppointmentID: ap.ID,
		Status:        strPtr("pending"),
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestUpdateAppointment_Access(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, "09:00")
	ctx := context.Background()
	stranger := testutil.CreateUser(t, f.db, "stranger@clinic.test")

	_, err := f.update.Execute(ctx, UpdateAppointmentInput{
		ActorID:       stranger.ID,
		AppointmentID: ap.ID,
		Status:        strPtr("cancelled"),
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = f.update.Execute(ctx, UpdateAppointmentInput{
		ActorID:       f.patient.ID,
		AppointmentID: ap.ID,
		Status:        strPtr("confirmed"),
	})
	assert.True(t, httperr.IsBusiness(err, "forbidden"))

	_, err = f.update.Execute(ctx, UpdateAppointmentInput{
		ActorID:       stranger.ID,
		AsAdmin:       true,
		AppointmentID: ap.ID,
		Reports:       &[]string{"report.pdf"},
	})
	require.NoError(t, err)

	_, err = f.update.Execute(ctx, UpdateAppointmentInput{
		ActorID:       f.doctor.ID,
		AppointmentID: 999,
		Status:        strPtr("confirmed"),
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	assert.Equal(t, httperr.MsgBadRequest, httperr.Message(err))
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	f.book(t, "09:30")

	slots, err := NewGetAvailability(f.repo).Execute(context.Background(), domain.AvailabilityInput{
		DoctorID: f.doctor.ID,
		Date:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []string{"09:00", "10:30", "11:00", "11:30"}, starts)
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	f.book(t, "09:00")
	f.book(t, "11:00")

	list := NewListAppointments(f.repo)
	from, to := DayRange(time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC), time.UTC)

	out, err := list.Execute(context.Background(), domain.ListFilter{DoctorID: f.doctor.ID, From: from, To: to})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "patient", out[0].PatientName)
	assert.Equal(t, []string{}, out[0].Reports)

	out, err = list.Execute(context.Background(), domain.ListFilter{PatientID: f.doctor.ID})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSendReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "09:00")
	f.book(t, "11:00")

	_, err := f.update.Execute(ctx, UpdateAppointmentInput{
		ActorID:       f.doctor.ID,
		AppointmentID: ap.ID,
		Status:        strPtr("confirmed"),
	})
	require.NoError(t, err)
	mailsBefore := f.outbox.Count()

	reminders := NewSendReminders(f.repo, f.outbox, 48*time.Hour)

	sent, err := reminders.Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, mailsBefore+1, f.outbox.Count())

	sent, err = reminders.Execute(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

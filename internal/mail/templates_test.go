package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmail_EscapesLink(t *testing.T) {
	msg, err := VerifyEmail("ana@clinic.test", "Ana", "http://localhost/verify?token=abc")
	require.NoError(t, err)

	assert.Equal(t, "ana@clinic.test", msg.To)
	assert.Equal(t, "Confirm your email", msg.Subject)
	assert.Contains(t, msg.HTML, "Welcome, Ana!")
	assert.Contains(t, msg.HTML, `href="http://localhost/verify?token=abc"`)
}

func TestAppointmentStatus(t *testing.T) {
	msg, err := AppointmentStatus("ana@clinic.test", AppointmentData{
		PatientName: "Ana",
		DoctorName:  "Dr. Lee",
		Start:       time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Status:      "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "Your appointment is confirmed", msg.Subject)
	assert.Contains(t, msg.HTML, "02 Mar 2026 09:30")
	assert.Contains(t, msg.HTML, "<strong>confirmed</strong>")
}

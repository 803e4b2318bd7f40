package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-admin/internal/dto"
)

func TestAppointments(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rows := []dto.AppointmentListDTO{{
		ID:          5,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		Status:      "confirmed",
		PatientName: "Ana",
		DoctorName:  "Dr. Lee",
		Reports:     []string{"a.pdf", "b.pdf"},
	}}

	var buf bytes.Buffer
	require.NoError(t, Appointments(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, "Status", f.GetCellValue(AppointmentsSheet, "E1"))
	assert.Equal(t, "2026-03-02", f.GetCellValue(AppointmentsSheet, "B2"))
	assert.Equal(t, "09:30", f.GetCellValue(AppointmentsSheet, "D2"))
	assert.Equal(t, "Ana", f.GetCellValue(AppointmentsSheet, "F2"))
	assert.Equal(t, "a.pdf, b.pdf", f.GetCellValue(AppointmentsSheet, "I2"))
}

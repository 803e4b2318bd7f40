// Package export renders listings as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/BruksfildServices01/clinic-admin/internal/dto"
)

const AppointmentsSheet = "Appointments"

var appointmentHeaders = []string{"ID", "Date", "Start", "End", "Status", "Patient", "Doctor", "Notes", "Reports"}

func cell(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}

// Appointments writes rows as an xlsx workbook with one sheet.
func Appointments(w io.Writer, rows []dto.AppointmentListDTO) error {
	file := excelize.NewFile()
	file.NewSheet(AppointmentsSheet)
	file.DeleteSheet("Sheet1")

	for i, h := range appointmentHeaders {
		file.SetCellValue(AppointmentsSheet, cell(i, 1), h)
	}

	for i, ap := range rows {
		r := i + 2
		file.SetCellValue(AppointmentsSheet, cell(0, r), ap.ID)
		file.SetCellValue(AppointmentsSheet, cell(1, r), ap.StartTime.Format("2006-01-02"))
		file.SetCellValue(AppointmentsSheet, cell(2, r), ap.StartTime.Format("15:04"))
		file.SetCellValue(AppointmentsSheet, cell(3, r), ap.EndTime.Format("15:04"))
		file.SetCellValue(AppointmentsSheet, cell(4, r), ap.Status)
		file.SetCellValue(AppointmentsSheet, cell(5, r), ap.PatientName)
		file.SetCellValue(AppointmentsSheet, cell(6, r), ap.DoctorName)
		file.SetCellValue(AppointmentsSheet, cell(7, r), ap.Notes)
		file.SetCellValue(AppointmentsSheet, cell(8, r), strings.Join(ap.Reports, ", "))
	}

	return file.Write(w)
}

package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-admin/internal/export"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/clinic-admin/internal/usecase/appointment"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create *ucAppointment.CreateAppointment
	update *ucAppointment.UpdateAppointment
	list   *ucAppointment.ListAppointments
	loc    *time.Location
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	list *ucAppointment.ListAppointments,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		create: create,
		update: update,
		list:   list,
		loc:    loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID uint   `json:"doctor_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required,hhmm"`
	Notes    string `json:"notes" binding:"max=2000"`
}

type UpdateAppointmentRequest struct {
	Status  *string   `json:"status,omitempty" binding:"omitempty,oneof=pending confirmed cancelled"`
	Notes   *string   `json:"notes,omitempty" binding:"omitempty,max=2000"`
	Reports *[]string `json:"reports,omitempty"`
}

// ======================================================
// HELPERS
// ======================================================

// filterFromQuery reads status and a period from the query string. The
// period is ?date=YYYY-MM-DD, ?year=&month=, or ?from=&to= (to inclusive).
func (h *AppointmentHandler) filterFromQuery(c *gin.Context) (domain.ListFilter, bool) {
	f := domain.ListFilter{Status: c.Query("status")}

	switch {
	case c.Query("date") != "":
		date, err := parseDateIn(h.loc, c.Query("date"))
		if err != nil {
			return f, false
		}
		f.From, f.To = ucAppointment.DayRange(date, h.loc)

	case c.Query("month") != "":
		year, errY := strconv.Atoi(c.Query("year"))
		month, errM := strconv.Atoi(c.Query("month"))
		if errY != nil || errM != nil || month < 1 || month > 12 {
			return f, false
		}
		f.From, f.To = ucAppointment.MonthRange(year, month, h.loc)

	default:
		if s := c.Query("from"); s != "" {
			from, err := parseDateIn(h.loc, s)
			if err != nil {
				return f, false
			}
			f.From = from
		}
		if s := c.Query("to"); s != "" {
			to, err := parseDateIn(h.loc, s)
			if err != nil {
				return f, false
			}
			f.To = to.AddDate(0, 0, 1)
		}
	}

	return f, true
}

// ======================================================
// CREATE (caller is the patient)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		PatientID: claims.UserID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		httpresp.Error(c, "create appointment", err)
		return
	}

	httpresp.Success(c, http.StatusCreated, "appointment created", ap)
}

// ======================================================
// LIST
// ======================================================

// ListMine lists the caller's appointments as a patient.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	f, ok := h.filterFromQuery(c)
	if !ok {
		httpresp.InvalidInputs(c)
		return
	}
	f.PatientID = claims.UserID

	h.respondList(c, f)
}

// ListAsDoctor lists the appointments booked with the caller.
func (h *AppointmentHandler) ListAsDoctor(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	f, ok := h.filterFromQuery(c)
	if !ok {
		httpresp.InvalidInputs(c)
		return
	}
	f.DoctorID = claims.UserID

	h.respondList(c, f)
}

// ListAll is the admin listing with optional patient and doctor filters.
func (h *AppointmentHandler) ListAll(c *gin.Context) {
	f, ok := h.adminFilter(c)
	if !ok {
		httpresp.InvalidInputs(c)
		return
	}
	h.respondList(c, f)
}

func (h *AppointmentHandler) adminFilter(c *gin.Context) (domain.ListFilter, bool) {
	f, ok := h.filterFromQuery(c)
	if !ok {
		return f, false
	}
	if id := queryID(c, "patient_id"); id != nil {
		f.PatientID = *id
	}
	if id := queryID(c, "doctor_id"); id != nil {
		f.DoctorID = *id
	}
	return f, true
}

func (h *AppointmentHandler) respondList(c *gin.Context, f domain.ListFilter) {
	out, err := h.list.Execute(c.Request.Context(), f)
	if err != nil {
		httpresp.Error(c, "list appointments", err)
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// EXPORT
// ======================================================

func (h *AppointmentHandler) Export(c *gin.Context) {
	f, ok := h.adminFilter(c)
	if !ok {
		httpresp.InvalidInputs(c)
		return
	}

	rows, err := h.list.Execute(c.Request.Context(), f)
	if err != nil {
		httpresp.Error(c, "export appointments", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Appointments(&buf, rows); err != nil {
		httpresp.Error(c, "export appointments", err)
		return
	}

	name := fmt.Sprintf("appointments-%s.xlsx", time.Now().In(h.loc).Format("20060102-1504"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ======================================================
// UPDATE (status / notes / reports)
// ======================================================

// Update serves the caller's own appointments, as patient or doctor.
func (h *AppointmentHandler) Update(c *gin.Context) {
	h.applyUpdate(c, false)
}

// AdminUpdate serves any appointment.
func (h *AppointmentHandler) AdminUpdate(c *gin.Context) {
	h.applyUpdate(c, true)
}

func (h *AppointmentHandler) applyUpdate(c *gin.Context, asAdmin bool) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		ActorID:       claims.UserID,
		AsAdmin:       asAdmin,
		AppointmentID: id,
		Status:        req.Status,
		Notes:         req.Notes,
		Reports:       req.Reports,
	})
	if err != nil {
		httpresp.Error(c, "update appointment", err)
		return
	}

	httpresp.Success(c, http.StatusOK, "appointment updated", ap)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time" binding:"required_if=Active true,hhmm"`
	EndTime    string `json:"end_time" binding:"required_if=Active true,hhmm"`
	BreakStart string `json:"break_start" binding:"hhmm"`
	BreakEnd   string `json:"break_end" binding:"hhmm"`
	SlotMin    int    `json:"slot_min" binding:"omitempty,min=5,max=240"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,max=7,dive"`
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (h *DoctorHandler) GetWorkingHours(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.listWorkingHours(c, userID)
}

func (h *DoctorHandler) UpdateWorkingHours(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.replaceWorkingHours(c, userID)
}

// GetMyWorkingHours and UpdateMyWorkingHours act on the caller's own
// doctor profile.
func (h *DoctorHandler) GetMyWorkingHours(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}
	h.listWorkingHours(c, claims.UserID)
}

func (h *DoctorHandler) UpdateMyWorkingHours(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}
	h.replaceWorkingHours(c, claims.UserID)
}

func (h *DoctorHandler) listWorkingHours(c *gin.Context, doctorID uint) {
	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httpresp.Error(c, "get working hours", err)
		return
	}
	httpresp.List(c, hours)
}

func (h *DoctorHandler) replaceWorkingHours(c *gin.Context, doctorID uint) {
	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	seen := make(map[int]bool, len(req.Days))
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httpresp.InvalidInputs(c)
			return
		}
		seen[d.Weekday] = true

		slot := d.SlotMin
		if slot == 0 {
			slot = 30
		}
		toCreate = append(toCreate, models.WorkingHours{
			DoctorID:   doctorID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
			SlotMin:    slot,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", doctorID).First(&models.DoctorProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httpresp.Error(c, "save working hours", err)
		return
	}

	httpresp.Success(c, http.StatusOK, "working hours updated", toCreate)
}

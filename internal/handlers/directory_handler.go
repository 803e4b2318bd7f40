package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/cache"
	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-admin/internal/usecase/appointment"
)

const (
	cacheKeyDoctors     = "directory:doctors"
	cacheKeyHospitals   = "directory:hospitals"
	cacheKeyMemberships = "directory:memberships"

	directoryTTL = 10 * time.Minute
)

// ======================================================
// REQUESTS
// ======================================================

type HospitalRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	Address string `json:"address" binding:"max=255"`
	City    string `json:"city" binding:"max=100"`
	Phone   string `json:"phone" binding:"max=20"`
	Email   string `json:"email" binding:"omitempty,email"`
	Image   string `json:"image" binding:"max=255"`
}

type DepartmentRequest struct {
	HospitalID  uint   `json:"hospital_id" binding:"required"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
}

// NewHospitalResource serves /api/hospitals.
func NewHospitalResource(db *gorm.DB, c cache.Cache) *Resource[models.Hospital, HospitalRequest] {
	r := NewResource(db, "hospital", func(req *HospitalRequest, m *models.Hospital) {
		m.Name = strings.TrimSpace(req.Name)
		m.Address = req.Address
		m.City = req.City
		m.Phone = req.Phone
		m.Email = req.Email
		m.Image = req.Image
	})
	r.Order = "name ASC"
	r.Search = []string{"name", "city"}
	r.Changed = invalidate(c, cacheKeyHospitals, cacheKeyDoctors)
	return r
}

// NewDepartmentResource serves /api/departments.
func NewDepartmentResource(db *gorm.DB, c cache.Cache) *Resource[models.Department, DepartmentRequest] {
	r := NewResource(db, "department", func(req *DepartmentRequest, m *models.Department) {
		m.HospitalID = req.HospitalID
		m.Name = strings.TrimSpace(req.Name)
		m.Description = req.Description
	})
	r.Order = "hospital_id ASC, name ASC"
	r.Search = []string{"name"}
	r.Filter = func(c *gin.Context, q *gorm.DB) *gorm.DB {
		if id := queryID(c, "hospital_id"); id != nil {
			q = q.Where("hospital_id = ?", *id)
		}
		return q
	}
	r.Changed = invalidate(c, cacheKeyHospitals, cacheKeyDoctors)
	return r
}

func invalidate(c cache.Cache, keys ...string) func(ctx context.Context) {
	return func(ctx context.Context) {
		if err := c.Delete(ctx, keys...); err != nil {
			log.Printf("cache invalidate %v: %v", keys, err)
		}
	}
}

// ======================================================
// DOCTORS
// ======================================================

type DoctorRequest struct {
	// UserID is required on create and ignored on update.
	UserID          uint    `json:"user_id"`
	HospitalID      *uint   `json:"hospital_id"`
	DepartmentID    *uint   `json:"department_id"`
	Specialization  string  `json:"specialization" binding:"max=100"`
	Qualification   string  `json:"qualification" binding:"max=150"`
	ExperienceYears int     `json:"experience_years" binding:"min=0"`
	ConsultationFee float64 `json:"consultation_fee" binding:"min=0"`
}

// DoctorHandler manages doctor profiles keyed by their user id, their
// weekly working hours and the cached public directory.
type DoctorHandler struct {
	db           *gorm.DB
	cache        cache.Cache
	availability *ucAppointment.GetAvailability
	loc          *time.Location
}

func NewDoctorHandler(
	db *gorm.DB,
	c cache.Cache,
	availability *ucAppointment.GetAvailability,
	loc *time.Location,
) *DoctorHandler {
	return &DoctorHandler{db: db, cache: c, availability: availability, loc: loc}
}

func (h *DoctorHandler) doctors(ctx context.Context) *gorm.DB {
	return h.db.WithContext(ctx).
		Preload("User").
		Preload("Hospital").
		Preload("Department")
}

func (h *DoctorHandler) List(c *gin.Context) {
	q := h.doctors(c.Request.Context())
	if id := queryID(c, "hospital_id"); id != nil {
		q = q.Where("hospital_id = ?", *id)
	}
	if id := queryID(c, "department_id"); id != nil {
		q = q.Where("department_id = ?", *id)
	}

	var docs []models.DoctorProfile
	if err := q.Order("id ASC").Find(&docs).Error; err != nil {
		httpresp.Error(c, "list doctors", err)
		return
	}
	httpresp.List(c, docs)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var doc models.DoctorProfile
	if err := h.doctors(c.Request.Context()).Where("user_id = ?", userID).First(&doc).Error; err != nil {
		httpresp.Error(c, "get doctor", err)
		return
	}
	httpresp.OK(c, doc)
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var req DoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		httpresp.InvalidInputs(c)
		return
	}

	doc := models.DoctorProfile{}
	applyDoctor(&req, &doc)

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.User{}, req.UserID).Error; err != nil {
			return err
		}
		return tx.Omit("User", "Hospital", "Department").Create(&doc).Error
	})
	if err != nil {
		httpresp.Error(c, "create doctor", err)
		return
	}

	h.invalidate(c.Request.Context())
	httpresp.Success(c, http.StatusCreated, "doctor created", doc)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req DoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	var doc models.DoctorProfile
	if err := h.db.WithContext(c.Request.Context()).Where("user_id = ?", userID).First(&doc).Error; err != nil {
		httpresp.Error(c, "get doctor", err)
		return
	}

	req.UserID = userID
	applyDoctor(&req, &doc)

	if err := h.db.WithContext(c.Request.Context()).Omit("User", "Hospital", "Department").Save(&doc).Error; err != nil {
		httpresp.Error(c, "update doctor", err)
		return
	}

	h.invalidate(c.Request.Context())
	httpresp.Success(c, http.StatusOK, "doctor updated", doc)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.DoctorProfile{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("doctor_id = ?", userID).Delete(&models.WorkingHours{}).Error
	})
	if err != nil {
		httpresp.Error(c, "delete doctor", err)
		return
	}

	h.invalidate(c.Request.Context())
	httpresp.Success(c, http.StatusOK, "doctor deleted", nil)
}

func applyDoctor(req *DoctorRequest, doc *models.DoctorProfile) {
	doc.UserID = req.UserID
	doc.HospitalID = req.HospitalID
	doc.DepartmentID = req.DepartmentID
	doc.Specialization = req.Specialization
	doc.Qualification = req.Qualification
	doc.ExperienceYears = req.ExperienceYears
	doc.ConsultationFee = req.ConsultationFee
}

func (h *DoctorHandler) invalidate(ctx context.Context) {
	invalidate(h.cache, cacheKeyDoctors)(ctx)
}

// --------------------------------------------------
// Directory (any signed-in user)
// --------------------------------------------------

// Directory lists doctors from the cache, filtered in memory.
func (h *DoctorHandler) Directory(c *gin.Context) {
	docs, err := cache.Remember(c.Request.Context(), h.cache, cacheKeyDoctors, directoryTTL, func() ([]models.DoctorProfile, error) {
		var docs []models.DoctorProfile
		err := h.doctors(c.Request.Context()).Order("id ASC").Find(&docs).Error
		return docs, err
	})
	if err != nil {
		httpresp.Error(c, "doctor directory", err)
		return
	}

	hospitalID := queryID(c, "hospital_id")
	departmentID := queryID(c, "department_id")
	needle := strings.ToLower(strings.TrimSpace(c.Query("specialization")))

	out := make([]models.DoctorProfile, 0, len(docs))
	for _, d := range docs {
		if hospitalID != nil && (d.HospitalID == nil || *d.HospitalID != *hospitalID) {
			continue
		}
		if departmentID != nil && (d.DepartmentID == nil || *d.DepartmentID != *departmentID) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(d.Specialization), needle) {
			continue
		}
		out = append(out, d)
	}
	httpresp.List(c, out)
}

func (h *DoctorHandler) Availability(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	date, err := parseDateIn(h.loc, c.Query("date"))
	if err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		DoctorID: userID,
		Date:     date,
	})
	if err != nil {
		httpresp.Error(c, "availability", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id": userID,
		"date":      date.Format(dateLayout),
		"slots":     slots,
	})
}

// DirectoryHandler serves the cached hospital and membership listings.
type DirectoryHandler struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewDirectoryHandler(db *gorm.DB, c cache.Cache) *DirectoryHandler {
	return &DirectoryHandler{db: db, cache: c}
}

// Hospitals lists hospitals with their departments.
func (h *DirectoryHandler) Hospitals(c *gin.Context) {
	hospitals, err := cache.Remember(c.Request.Context(), h.cache, cacheKeyHospitals, directoryTTL, func() ([]models.Hospital, error) {
		var out []models.Hospital
		err := h.db.WithContext(c.Request.Context()).
			Preload("Departments", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
			Order("name ASC").
			Find(&out).Error
		return out, err
	})
	if err != nil {
		httpresp.Error(c, "hospital directory", err)
		return
	}
	httpresp.List(c, hospitals)
}

// Memberships lists plans with their fees.
func (h *DirectoryHandler) Memberships(c *gin.Context) {
	plans, err := cache.Remember(c.Request.Context(), h.cache, cacheKeyMemberships, directoryTTL, func() ([]models.Membership, error) {
		var out []models.Membership
		err := h.db.WithContext(c.Request.Context()).
			Preload("Fees").
			Order("name ASC").
			Find(&out).Error
		return out, err
	})
	if err != nil {
		httpresp.Error(c, "membership directory", err)
		return
	}
	httpresp.List(c, plans)
}

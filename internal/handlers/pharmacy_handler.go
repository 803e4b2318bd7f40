package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

// --------- Requests ---------

type ManufacturerRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	Country string `json:"country" binding:"max=100"`
}

type SaltRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description"`
}

type CodeRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	System      string `json:"system" binding:"max=20"`
	Description string `json:"description" binding:"max=255"`
}

type BrandRequest struct {
	Name           string  `json:"name" binding:"required,max=150"`
	ManufacturerID uint    `json:"manufacturer_id" binding:"required"`
	Form           string  `json:"form" binding:"max=50"`
	Strength       string  `json:"strength" binding:"max=50"`
	Price          float64 `json:"price" binding:"min=0"`
	SaltIDs        []uint  `json:"salt_ids" binding:"dive,min=1"`
}

// --------- Resources ---------

func NewManufacturerResource(db *gorm.DB) *Resource[models.Manufacturer, ManufacturerRequest] {
	r := NewResource(db, "manufacturer", func(req *ManufacturerRequest, m *models.Manufacturer) {
		m.Name = strings.TrimSpace(req.Name)
		m.Country = req.Country
	})
	r.Order = "name ASC"
	r.Search = []string{"name", "country"}
	return r
}

func NewSaltResource(db *gorm.DB) *Resource[models.Salt, SaltRequest] {
	r := NewResource(db, "salt", func(req *SaltRequest, m *models.Salt) {
		m.Name = strings.TrimSpace(req.Name)
		m.Description = req.Description
	})
	r.Order = "name ASC"
	r.Search = []string{"name"}
	return r
}

func NewCodeResource(db *gorm.DB) *Resource[models.Code, CodeRequest] {
	r := NewResource(db, "code", func(req *CodeRequest, m *models.Code) {
		m.Code = strings.ToUpper(strings.TrimSpace(req.Code))
		m.System = req.System
		m.Description = req.Description
	})
	r.Order = "code ASC"
	r.Search = []string{"code", "description"}
	r.Filter = func(c *gin.Context, q *gorm.DB) *gorm.DB {
		if system := c.Query("system"); system != "" {
			q = q.Where("system = ?", system)
		}
		return q
	}
	return r
}

// ======================================================
// BRANDS
// ======================================================

// BrandHandler reuses the resource listing and keeps the brand_salts links
// in step on writes.
type BrandHandler struct {
	*Resource[models.Brand, BrandRequest]
	db *gorm.DB
}

func NewBrandHandler(db *gorm.DB) *BrandHandler {
	r := NewResource(db, "brand", applyBrand)
	r.Order = "name ASC"
	r.Preload = []string{"Manufacturer", "Salts"}
	r.Search = []string{"name"}
	r.Filter = func(c *gin.Context, q *gorm.DB) *gorm.DB {
		if id := queryID(c, "manufacturer_id"); id != nil {
			q = q.Where("manufacturer_id = ?", *id)
		}
		if id := queryID(c, "salt_id"); id != nil {
			q = q.Where("id IN (?)", db.Table("brand_salts").Select("brand_id").Where("salt_id = ?", *id))
		}
		return q
	}
	return &BrandHandler{Resource: r, db: db}
}

func applyBrand(req *BrandRequest, m *models.Brand) {
	m.Name = strings.TrimSpace(req.Name)
	m.ManufacturerID = req.ManufacturerID
	m.Form = req.Form
	m.Strength = req.Strength
	m.Price = req.Price
}

func (h *BrandHandler) Create(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	var brand models.Brand
	applyBrand(&req, &brand)

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Manufacturer", "Salts").Create(&brand).Error; err != nil {
			return err
		}
		return replaceBrandSalts(tx, &brand, req.SaltIDs)
	})
	if err != nil {
		httpresp.Error(c, "create brand", err)
		return
	}

	httpresp.Success(c, http.StatusCreated, "brand created", brand)
}

func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	var brand models.Brand
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&brand, id).Error; err != nil {
			return err
		}
		applyBrand(&req, &brand)
		if err := tx.Omit("Manufacturer", "Salts").Save(&brand).Error; err != nil {
			return err
		}
		return replaceBrandSalts(tx, &brand, req.SaltIDs)
	})
	if err != nil {
		httpresp.Error(c, "update brand", err)
		return
	}

	httpresp.Success(c, http.StatusOK, "brand updated", brand)
}

func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var brand models.Brand
		if err := tx.First(&brand, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&brand).Association("Salts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&brand).Error
	})
	if err != nil {
		httpresp.Error(c, "delete brand", err)
		return
	}

	httpresp.Success(c, http.StatusOK, "brand deleted", nil)
}

func (h *BrandHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// replaceBrandSalts sets the exact salt list of brand. Unknown salt ids
// roll the write back.
func replaceBrandSalts(tx *gorm.DB, brand *models.Brand, saltIDs []uint) error {
	salts := []models.Salt{}
	if len(saltIDs) > 0 {
		if err := tx.Where("id IN ?", saltIDs).Find(&salts).Error; err != nil {
			return err
		}
		if len(salts) != len(uniqueUints(saltIDs)) {
			return httperr.ErrBusiness("salt_not_found")
		}
	}
	assoc := tx.Model(brand).Association("Salts")
	if len(salts) == 0 {
		if err := assoc.Clear(); err != nil {
			return err
		}
	} else if err := assoc.Replace(salts); err != nil {
		return err
	}
	brand.Salts = salts
	return nil
}

func uniqueUints(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

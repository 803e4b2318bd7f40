package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
)

// Resource serves list/get/create/update/delete for a plain reference
// table. M is the gorm model, R the request body bound on writes.
type Resource[M any, R any] struct {
	db     *gorm.DB
	entity string

	// Order is the listing order; "id ASC" when empty.
	Order   string
	Preload []string
	// Search lists the columns matched by the ?query= filter.
	Search []string
	// Filter narrows listings from query parameters.
	Filter func(c *gin.Context, q *gorm.DB) *gorm.DB
	// Apply copies a bound request onto the model.
	Apply func(req *R, m *M)
	// Changed runs after every successful write.
	Changed func(ctx context.Context)
}

func NewResource[M any, R any](db *gorm.DB, entity string, apply func(req *R, m *M)) *Resource[M, R] {
	return &Resource[M, R]{db: db, entity: entity, Apply: apply}
}

func (h *Resource[M, R]) query(ctx context.Context) *gorm.DB {
	q := h.db.WithContext(ctx)
	for _, p := range h.Preload {
		q = q.Preload(p)
	}
	return q
}

func (h *Resource[M, R]) changed(ctx context.Context) {
	if h.Changed != nil {
		h.Changed(ctx)
	}
}

func (h *Resource[M, R]) List(c *gin.Context) {
	q := h.query(c.Request.Context())

	if term := strings.ToLower(strings.TrimSpace(c.Query("query"))); term != "" && len(h.Search) > 0 {
		like := "%" + term + "%"
		conds := make([]string, 0, len(h.Search))
		args := make([]any, 0, len(h.Search))
		for _, col := range h.Search {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}
	if h.Filter != nil {
		q = h.Filter(c, q)
	}

	order := h.Order
	if order == "" {
		order = "id ASC"
	}

	var items []M
	if err := q.Order(order).Find(&items).Error; err != nil {
		httpresp.Error(c, "list "+h.entity, err)
		return
	}
	httpresp.List(c, items)
}

func (h *Resource[M, R]) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var item M
	if err := h.query(c.Request.Context()).First(&item, id).Error; err != nil {
		httpresp.Error(c, "get "+h.entity, err)
		return
	}
	httpresp.OK(c, item)
}

func (h *Resource[M, R]) Create(c *gin.Context) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	var item M
	h.Apply(&req, &item)

	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&item).Error; err != nil {
		httpresp.Error(c, "create "+h.entity, err)
		return
	}

	h.changed(c.Request.Context())
	httpresp.Success(c, http.StatusCreated, h.entity+" created", item)
}

func (h *Resource[M, R]) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	var item M
	if err := h.db.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		httpresp.Error(c, "get "+h.entity, err)
		return
	}

	h.Apply(&req, &item)

	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Save(&item).Error; err != nil {
		httpresp.Error(c, "update "+h.entity, err)
		return
	}

	h.changed(c.Request.Context())
	httpresp.Success(c, http.StatusOK, h.entity+" updated", item)
}

func (h *Resource[M, R]) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(new(M), id)
	if res.Error != nil {
		httpresp.Error(c, "delete "+h.entity, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httpresp.Error(c, "delete "+h.entity, gorm.ErrRecordNotFound)
		return
	}

	h.changed(c.Request.Context())
	httpresp.Success(c, http.StatusOK, h.entity+" deleted", nil)
}

// Register mounts the five routes on g.
func (h *Resource[M, R]) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

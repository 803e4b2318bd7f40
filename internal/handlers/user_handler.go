package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	ucAuth "github.com/BruksfildServices01/clinic-admin/internal/usecase/auth"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"max=20"`
	City     string `json:"city" binding:"max=100"`
	Verified bool   `json:"verified"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	City     *string `json:"city,omitempty" binding:"omitempty,max=100"`
	Bio      *string `json:"bio,omitempty"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
	Verified *bool   `json:"verified,omitempty"`
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	p := pagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httpresp.Error(c, "count users", err)
		return
	}

	var users []models.User
	if err := q.
		Order("id ASC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&users).Error; err != nil {

		httpresp.Error(c, "list users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  p.Page,
		"limit": p.Limit,
		"total": total,
		"data":  users,
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		httpresp.Error(c, "get user", err)
		return
	}

	var roleIDs []uint
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.UserRole{}).
		Where("user_id = ?", id).
		Order("role_id ASC").
		Pluck("role_id", &roleIDs).Error; err != nil {

		httpresp.Error(c, "user roles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "role_ids": roleIDs})
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	hashed, err := ucAuth.HashPassword(req.Password)
	if err != nil {
		httpresp.Error(c, "create user", err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        ucAuth.NormalizeEmail(req.Email),
		PasswordHash: &hashed,
		Phone:        req.Phone,
		City:         req.City,
	}
	if req.Verified {
		now := time.Now()
		user.EmailVerified = &now
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		httpresp.Error(c, "create user", err)
		return
	}

	httpresp.Success(c, http.StatusCreated, "user created", user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		httpresp.Error(c, "get user", err)
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Password != nil {
		hashed, err := ucAuth.HashPassword(*req.Password)
		if err != nil {
			httpresp.Error(c, "update user", err)
			return
		}
		user.PasswordHash = &hashed
	}
	if req.Verified != nil {
		if *req.Verified && user.EmailVerified == nil {
			now := time.Now()
			user.EmailVerified = &now
		} else if !*req.Verified {
			user.EmailVerified = nil
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		httpresp.Error(c, "update user", err)
		return
	}

	httpresp.Success(c, http.StatusOK, "user updated", user)
}

// Delete removes the user with its role links and pending tokens.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if claims := currentClaims(c); claims == nil {
		return
	} else if claims.UserID == id {
		httpresp.Fail(c, http.StatusBadRequest, httperr.MsgBadRequest)
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Token{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		httpresp.Error(c, "delete user", err)
		return
	}

	httpresp.Success(c, http.StatusOK, "user deleted", nil)
}

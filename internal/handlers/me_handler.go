package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/authz"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
	ucAuth "github.com/BruksfildServices01/clinic-admin/internal/usecase/auth"
)

type MeHandler struct {
	db       *gorm.DB
	sessions *session.Manager
	claims   *ucAuth.ClaimsBuilder
	policy   *authz.Policy
}

func NewMeHandler(
	db *gorm.DB,
	sessions *session.Manager,
	claims *ucAuth.ClaimsBuilder,
	policy *authz.Policy,
) *MeHandler {
	return &MeHandler{db: db, sessions: sessions, claims: claims, policy: policy}
}

type UpdateMeRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
	City  *string `json:"city,omitempty" binding:"omitempty,max=100"`
	Phone *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Bio   *string `json:"bio,omitempty"`
	Image *string `json:"image,omitempty" binding:"omitempty,max=255"`
	Cover *string `json:"cover,omitempty" binding:"omitempty,max=255"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": claims,
		"menu":    h.policy.VisibleMenu(claims),
	})
}

// UpdateMe edits the caller's profile and re-signs the session so the
// denormalized profile fields follow.
func (h *MeHandler) UpdateMe(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
		httpresp.Error(c, "get me", err)
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Image != nil {
		user.Image = *req.Image
	}
	if req.Cover != nil {
		user.Cover = *req.Cover
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		httpresp.Error(c, "update me", err)
		return
	}

	fresh, err := h.claims.Refresh(c.Request.Context(), claims.UserID)
	if err != nil {
		httpresp.Error(c, "refresh claims", err)
		return
	}

	pushClaims(c, h.sessions, claims, fresh)
	if c.IsAborted() {
		return
	}
	httpresp.Success(c, http.StatusOK, "profile updated", fresh)
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/rbac"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
	ucRBAC "github.com/BruksfildServices01/clinic-admin/internal/usecase/rbac"
)

// ======================================================
// HANDLER
// ======================================================

type RBACHandler struct {
	repo     domain.Repository
	sessions *session.Manager

	replaceUserRoles       *ucRBAC.ReplaceUserRoles
	replaceRolePermissions *ucRBAC.ReplaceRolePermissions
}

func NewRBACHandler(
	repo domain.Repository,
	sessions *session.Manager,
	replaceUserRoles *ucRBAC.ReplaceUserRoles,
	replaceRolePermissions *ucRBAC.ReplaceRolePermissions,
) *RBACHandler {
	return &RBACHandler{
		repo:                   repo,
		sessions:               sessions,
		replaceUserRoles:       replaceUserRoles,
		replaceRolePermissions: replaceRolePermissions,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type NamedRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
}

type ReplaceRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required,dive,min=1"`
}

type ReplacePermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" binding:"required,dive,min=1"`
}

type roleDetail struct {
	models.Role
	Permissions []models.Permission `json:"permissions"`
}

// ======================================================
// SET REPLACE
// ======================================================

// ReplaceUserRoles sets the exact role list of a user. When the caller
// edits its own roles the session cookie is re-signed with fresh claims;
// other users keep their cookie until their next sign-in.
func (h *RBACHandler) ReplaceUserRoles(c *gin.Context) {
	actor := currentClaims(c)
	if actor == nil {
		return
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ReplaceRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	fresh, err := h.replaceUserRoles.Execute(c.Request.Context(), actor, userID, req.RoleIDs)
	if err != nil {
		httpresp.Error(c, "replace user roles", err)
		return
	}

	pushClaims(c, h.sessions, actor, fresh)
	if c.IsAborted() {
		return
	}
	httpresp.Success(c, http.StatusOK, "roles updated", gin.H{"role_ids": req.RoleIDs})
}

func (h *RBACHandler) ReplaceRolePermissions(c *gin.Context) {
	actor := currentClaims(c)
	if actor == nil {
		return
	}
	roleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ReplacePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	fresh, err := h.replaceRolePermissions.Execute(c.Request.Context(), actor, roleID, req.PermissionIDs)
	if err != nil {
		httpresp.Error(c, "replace role permissions", err)
		return
	}

	pushClaims(c, h.sessions, actor, fresh)
	if c.IsAborted() {
		return
	}
	httpresp.Success(c, http.StatusOK, "permissions updated", gin.H{"permission_ids": req.PermissionIDs})
}

// ======================================================
// ROLES
// ======================================================

func (h *RBACHandler) ListRoles(c *gin.Context) {
	roles, err := h.repo.ListRoles(c.Request.Context())
	if err != nil {
		httpresp.Error(c, "list roles", err)
		return
	}
	httpresp.List(c, roles)
}

func (h *RBACHandler) GetRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	role, err := h.repo.GetRole(c.Request.Context(), id)
	if err != nil {
		httpresp.Error(c, "get role", err)
		return
	}

	perms, err := h.repo.PermissionsForRoles(c.Request.Context(), []uint{id})
	if err != nil {
		httpresp.Error(c, "role permissions", err)
		return
	}

	httpresp.OK(c, roleDetail{Role: *role, Permissions: perms})
}

func (h *RBACHandler) CreateRole(c *gin.Context) {
	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	role := models.Role{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := h.repo.CreateRole(c.Request.Context(), &role); err != nil {
		httpresp.Error(c, "create role", err)
		return
	}
	httpresp.Success(c, http.StatusCreated, "role created", role)
}

func (h *RBACHandler) UpdateRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	role, err := h.repo.GetRole(c.Request.Context(), id)
	if err != nil {
		httpresp.Error(c, "get role", err)
		return
	}

	role.Name = strings.TrimSpace(req.Name)
	role.Description = req.Description
	if err := h.repo.UpdateRole(c.Request.Context(), role); err != nil {
		httpresp.Error(c, "update role", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "role updated", role)
}

func (h *RBACHandler) DeleteRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteRole(c.Request.Context(), id); err != nil {
		httpresp.Error(c, "delete role", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "role deleted", nil)
}

// ======================================================
// PERMISSIONS
// ======================================================

func (h *RBACHandler) ListPermissions(c *gin.Context) {
	perms, err := h.repo.ListPermissions(c.Request.Context())
	if err != nil {
		httpresp.Error(c, "list permissions", err)
		return
	}
	httpresp.List(c, perms)
}

func (h *RBACHandler) GetPermission(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.repo.GetPermission(c.Request.Context(), id)
	if err != nil {
		httpresp.Error(c, "get permission", err)
		return
	}
	httpresp.OK(c, p)
}

func (h *RBACHandler) CreatePermission(c *gin.Context) {
	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	p := models.Permission{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := h.repo.CreatePermission(c.Request.Context(), &p); err != nil {
		httpresp.Error(c, "create permission", err)
		return
	}
	httpresp.Success(c, http.StatusCreated, "permission created", p)
}

func (h *RBACHandler) UpdatePermission(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	p, err := h.repo.GetPermission(c.Request.Context(), id)
	if err != nil {
		httpresp.Error(c, "get permission", err)
		return
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	if err := h.repo.UpdatePermission(c.Request.Context(), p); err != nil {
		httpresp.Error(c, "update permission", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "permission updated", p)
}

func (h *RBACHandler) DeletePermission(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.repo.DeletePermission(c.Request.Context(), id); err != nil {
		httpresp.Error(c, "delete permission", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "permission deleted", nil)
}

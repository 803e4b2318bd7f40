package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-admin/internal/authz"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
	ucAuth "github.com/BruksfildServices01/clinic-admin/internal/usecase/auth"
)

type section struct {
	Title    string
	Endpoint string
}

var dashboardSections = map[string]section{
	"appointments":  {"Appointments", "/api/appointments"},
	"doctors":       {"Doctors", "/api/doctors"},
	"hospitals":     {"Hospitals", "/api/hospitals"},
	"departments":   {"Departments", "/api/departments"},
	"memberships":   {"Memberships", "/api/memberships"},
	"subscriptions": {"Subscriptions", "/api/subscriptions"},
	"transactions":  {"Transactions", "/api/transactions"},
	"pharmacy":      {"Pharmacy", "/api/pharmacy/brands"},
	"users":         {"Users", "/api/users"},
	"roles":         {"Roles", "/api/roles"},
	"permissions":   {"Permissions", "/api/permissions"},
	"audit-logs":    {"Audit logs", "/api/audit-logs"},
}

// AppWebHandler renders the pages. Access control already ran in the
// route guard; handlers only read the claims it left in context.
type AppWebHandler struct {
	policy        *authz.Policy
	verify        *ucAuth.VerifyEmail
	googleEnabled bool
}

func NewAppWebHandler(policy *authz.Policy, verify *ucAuth.VerifyEmail, googleEnabled bool) *AppWebHandler {
	return &AppWebHandler{policy: policy, verify: verify, googleEnabled: googleEnabled}
}

func (h *AppWebHandler) render(c *gin.Context, status int, page string, extra gin.H) {
	data := gin.H{
		"Page":          page,
		"GoogleEnabled": h.googleEnabled,
	}
	if claims, ok := session.FromContext(c); ok {
		data["Session"] = claims
		data["Menu"] = h.policy.VisibleMenu(claims)
	}
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(status, "base", data)
}

func (h *AppWebHandler) Home(c *gin.Context)           { h.render(c, http.StatusOK, "home", nil) }
func (h *AppWebHandler) LoginPage(c *gin.Context)      { h.render(c, http.StatusOK, "login", nil) }
func (h *AppWebHandler) SignupPage(c *gin.Context)     { h.render(c, http.StatusOK, "signup", nil) }
func (h *AppWebHandler) ForgotPassword(c *gin.Context) { h.render(c, http.StatusOK, "forgot-password", nil) }
func (h *AppWebHandler) AuthError(c *gin.Context)      { h.render(c, http.StatusOK, "auth-error", nil) }
func (h *AppWebHandler) Dashboard(c *gin.Context)      { h.render(c, http.StatusOK, "dashboard", nil) }

func (h *AppWebHandler) NewPassword(c *gin.Context) {
	h.render(c, http.StatusOK, "new-password", gin.H{"Token": c.Query("token")})
}

// Verify consumes the email confirmation token from the link.
func (h *AppWebHandler) Verify(c *gin.Context) {
	_, err := h.verify.Execute(c.Request.Context(), c.Query("token"))
	h.render(c, http.StatusOK, "verify", gin.H{"Verified": err == nil})
}

func (h *AppWebHandler) Section(c *gin.Context) {
	s, ok := dashboardSections[c.Param("section")]
	if !ok {
		c.Redirect(http.StatusFound, authz.DashboardPath)
		return
	}
	h.render(c, http.StatusOK, "section", gin.H{"Title": s.Title, "Endpoint": s.Endpoint})
}

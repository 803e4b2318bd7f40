// Package authz holds the static authorization policy consulted by the
// route guard on every request: the ordered path→permission table and the
// public route lists.
package authz

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/session"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Permission names known to the application.
const (
	PermViewDashboard     = "view:dashboard"
	PermViewUsers         = "view:users"
	PermViewRoles         = "view:roles"
	PermViewPermissions   = "view:permissions"
	PermViewAppointments  = "view:appointments"
	PermViewDoctors       = "view:doctors"
	PermViewHospitals     = "view:hospitals"
	PermViewDepartments   = "view:departments"
	PermViewMemberships   = "view:memberships"
	PermViewSubscriptions = "view:subscriptions"
	PermViewTransactions  = "view:transactions"
	PermViewPharmacy      = "view:pharmacy"
	PermViewAuditLogs     = "view:audit-logs"
)

type Rule struct {
	Path       string
	Permission string
}

// PathPermissions is evaluated in order; the first matching rule wins.
var PathPermissions = []Rule{
	{"/dashboard/users", PermViewUsers},
	{"/dashboard/roles", PermViewRoles},
	{"/dashboard/permissions", PermViewPermissions},
	{"/dashboard/appointments", PermViewAppointments},
	{"/dashboard/doctors", PermViewDoctors},
	{"/dashboard/hospitals", PermViewHospitals},
	{"/dashboard/departments", PermViewDepartments},
	{"/dashboard/memberships", PermViewMemberships},
	{"/dashboard/subscriptions", PermViewSubscriptions},
	{"/dashboard/transactions", PermViewTransactions},
	{"/dashboard/pharmacy", PermViewPharmacy},
	{"/dashboard/audit-logs", PermViewAuditLogs},

	{"/api/users", PermViewUsers},
	{"/api/roles", PermViewRoles},
	{"/api/permissions", PermViewPermissions},
	{"/api/appointments", PermViewAppointments},
	{"/api/doctors", PermViewDoctors},
	{"/api/hospitals", PermViewHospitals},
	{"/api/departments", PermViewDepartments},
	{"/api/memberships", PermViewMemberships},
	{"/api/subscriptions", PermViewSubscriptions},
	{"/api/transactions", PermViewTransactions},
	{"/api/pharmacy", PermViewPharmacy},
	{"/api/audit-logs", PermViewAuditLogs},
}

// PublicRoutes are reachable without a session.
var PublicRoutes = []string{
	"/",
	"/login",
	"/signup",
	"/forgot-password",
	"/new-password",
	"/verify",
	"/auth-error",
}

// AuthRoutes are public-only: an authenticated visitor is sent to the dashboard.
var AuthRoutes = []string{
	"/login",
	"/signup",
	"/forgot-password",
	"/new-password",
}

type State int

const (
	StateUnauthenticated State = iota
	StateExpired
	StateValid
)

func (s State) String() string {
	switch s {
	case StateExpired:
		return "authenticated-expired"
	case StateValid:
		return "authenticated-valid"
	default:
		return "unauthenticated"
	}
}

type Decision struct {
	State        State
	Allow        bool
	ClearSession bool
	Location     string
}

type Policy struct {
	Rules      []Rule
	Public     []string
	PublicOnly []string
}

func DefaultPolicy() *Policy {
	return &Policy{
		Rules:      PathPermissions,
		Public:     PublicRoutes,
		PublicOnly: AuthRoutes,
	}
}

func normalize(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

func matches(path, pattern string) bool {
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}

// RequiredPermission returns the permission of the first rule matching path.
func (p *Policy) RequiredPermission(path string) (string, bool) {
	path = normalize(path)
	for _, r := range p.Rules {
		if matches(path, r.Path) {
			return r.Permission, true
		}
	}
	return "", false
}

func contains(list []string, path string) bool {
	for _, p := range list {
		if p == path {
			return true
		}
	}
	return false
}

func (p *Policy) IsPublic(path string) bool {
	return contains(p.Public, normalize(path))
}

func (p *Policy) IsPublicOnly(path string) bool {
	return contains(p.PublicOnly, normalize(path))
}

// Decide evaluates one request. Expiry wins over the permission check,
// which wins over the plain authentication requirement.
func (p *Policy) Decide(path string, claims *session.Claims, now time.Time) Decision {
	if claims == nil {
		if p.IsPublic(path) {
			return Decision{State: StateUnauthenticated, Allow: true}
		}
		return Decision{State: StateUnauthenticated, Location: LoginPath}
	}

	if claims.IsExpired(now) {
		return Decision{State: StateExpired, ClearSession: true, Location: LoginPath}
	}

	if perm, ok := p.RequiredPermission(path); ok && !claims.HasPermission(perm) {
		return Decision{State: StateValid, Location: DashboardPath}
	}

	if p.IsPublicOnly(path) {
		return Decision{State: StateValid, Location: DashboardPath}
	}

	return Decision{State: StateValid, Allow: true}
}

package authz

import "github.com/BruksfildServices01/clinic-admin/internal/session"

type MenuItem struct {
	Title string
	Path  string
}

var Menu = []MenuItem{
	{"Appointments", "/dashboard/appointments"},
	{"Doctors", "/dashboard/doctors"},
	{"Hospitals", "/dashboard/hospitals"},
	{"Departments", "/dashboard/departments"},
	{"Memberships", "/dashboard/memberships"},
	{"Subscriptions", "/dashboard/subscriptions"},
	{"Transactions", "/dashboard/transactions"},
	{"Pharmacy", "/dashboard/pharmacy"},
	{"Users", "/dashboard/users"},
	{"Roles", "/dashboard/roles"},
	{"Permissions", "/dashboard/permissions"},
	{"Audit logs", "/dashboard/audit-logs"},
}

// VisibleMenu filters Menu by what the route guard would let claims open.
func (p *Policy) VisibleMenu(claims *session.Claims) []MenuItem {
	out := make([]MenuItem, 0, len(Menu))
	for _, item := range Menu {
		perm, ok := p.RequiredPermission(item.Path)
		if ok && (claims == nil || !claims.HasPermission(perm)) {
			continue
		}
		out = append(out, item)
	}
	return out
}

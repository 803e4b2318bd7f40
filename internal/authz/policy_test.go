package authz

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/clinic-admin/internal/session"
)

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func claimsWith(expires time.Time, perms ...string) *session.Claims {
	c := &session.Claims{UserID: 1}
	c.ExpiresAt = jwt.NewNumericDate(expires)
	for i, p := range perms {
		c.Permissions = append(c.Permissions, session.PermissionClaim{ID: uint(i + 1), Name: p})
	}
	return c
}

func TestPolicy_RequiredPermission(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/dashboard/roles", PermViewRoles, true},
		{"/dashboard/roles/", PermViewRoles, true},
		{"/dashboard/roles/12/edit", PermViewRoles, true},
		{"/dashboard/rolesx", "", false},
		{"/dashboard", "", false},
		{"/api/pharmacy/brands", PermViewPharmacy, true},
		{"/api/me", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := p.RequiredPermission(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	p := &Policy{Rules: []Rule{
		{"/dashboard/pharmacy/brands", "view:brands"},
		{"/dashboard/pharmacy", PermViewPharmacy},
	}}

	got, _ := p.RequiredPermission("/dashboard/pharmacy/brands/3")
	assert.Equal(t, "view:brands", got)

	got, _ = p.RequiredPermission("/dashboard/pharmacy/salts")
	assert.Equal(t, PermViewPharmacy, got)
}

func TestPolicy_Decide(t *testing.T) {
	p := DefaultPolicy()
	valid := now.Add(time.Hour)
	expired := now.Add(-time.Minute)

	tests := []struct {
		name   string
		path   string
		claims *session.Claims
		want   Decision
	}{
		{
			name: "anonymous on public route",
			path: "/login",
			want: Decision{State: StateUnauthenticated, Allow: true},
		},
		{
			name: "anonymous on home",
			path: "/",
			want: Decision{State: StateUnauthenticated, Allow: true},
		},
		{
			name: "anonymous on private route",
			path: "/dashboard",
			want: Decision{State: StateUnauthenticated, Location: LoginPath},
		},
		{
			name:   "expired session on public route",
			path:   "/",
			claims: claimsWith(expired, PermViewRoles),
			want:   Decision{State: StateExpired, ClearSession: true, Location: LoginPath},
		},
		{
			name:   "expiry beats permission check",
			path:   "/dashboard/roles",
			claims: claimsWith(expired),
			want:   Decision{State: StateExpired, ClearSession: true, Location: LoginPath},
		},
		{
			name:   "missing permission redirects to dashboard",
			path:   "/dashboard/roles",
			claims: claimsWith(valid, PermViewDoctors),
			want:   Decision{State: StateValid, Location: DashboardPath},
		},
		{
			name:   "granted permission",
			path:   "/dashboard/doctors",
			claims: claimsWith(valid, PermViewDoctors),
			want:   Decision{State: StateValid, Allow: true},
		},
		{
			name:   "authenticated on login page",
			path:   "/login",
			claims: claimsWith(valid),
			want:   Decision{State: StateValid, Location: DashboardPath},
		},
		{
			name:   "authenticated on ungated private route",
			path:   "/dashboard",
			claims: claimsWith(valid),
			want:   Decision{State: StateValid, Allow: true},
		},
		{
			name:   "authenticated on verify page",
			path:   "/verify",
			claims: claimsWith(valid),
			want:   Decision{State: StateValid, Allow: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Decide(tt.path, tt.claims, now))
		})
	}
}

func TestPolicy_VisibleMenu(t *testing.T) {
	p := DefaultPolicy()

	items := p.VisibleMenu(claimsWith(now.Add(time.Hour), PermViewDoctors, PermViewRoles))

	var paths []string
	for _, i := range items {
		paths = append(paths, i.Path)
	}
	assert.Equal(t, []string{"/dashboard/doctors", "/dashboard/roles"}, paths)
	assert.Empty(t, p.VisibleMenu(nil))
}

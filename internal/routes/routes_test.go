package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/authz"
	"github.com/BruksfildServices01/clinic-admin/internal/cache"
	"github.com/BruksfildServices01/clinic-admin/internal/config"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/payments"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
	"github.com/BruksfildServices01/clinic-admin/internal/storage"
	"github.com/BruksfildServices01/clinic-admin/internal/testutil"
	ucAuth "github.com/BruksfildServices01/clinic-admin/internal/usecase/auth"
)

const cookieName = "session"

type testApp struct {
	db       *gorm.DB
	engine   *gin.Engine
	sessions *session.Manager
	outbox   *testutil.Outbox
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	app := &testApp{
		db:       db,
		engine:   gin.New(),
		sessions: session.NewManager("test-secret", cookieName, time.Hour, false),
		outbox:   &testutil.Outbox{},
	}

	require.NoError(t, RegisterRoutes(app.engine, Deps{
		DB: db,
		Config: &config.Config{
			AppURL:   "http://clinic.test",
			Timezone: "UTC",
			TokenTTL: time.Hour,
		},
		Sessions: app.sessions,
		Mail:     app.outbox,
		Cache:    cache.Noop{},
		Store:    store,
		Payments: payments.Disabled{},
	}))
	return app
}

// cookie signs claims as they are, keeping any expiry already set.
func (a *testApp) cookie(t *testing.T, claims *session.Claims) *http.Cookie {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := a.sessions.Sign(claims)
	require.NoError(t, err)
	return &http.Cookie{Name: cookieName, Value: token}
}

func (a *testApp) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func claimsFor(user *models.User, perms ...string) *session.Claims {
	c := &session.Claims{UserID: user.ID, Name: user.Name, Email: user.Email}
	for i, p := range perms {
		c.Permissions = append(c.Permissions, session.PermissionClaim{ID: uint(i + 1), Name: p})
	}
	return c
}

// ======================================================
// ROUTE GUARD
// ======================================================

func TestGuard_ExpiredSessionRedirectsToLoginAndClearsCookie(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "expired@clinic.test")

	claims := claimsFor(user, authz.PermViewDoctors)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	expired := app.cookie(t, claims)

	for _, path := range []string{"/dashboard", "/dashboard/doctors", "/"} {
		rec := app.do(http.MethodGet, path, nil, expired)

		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, authz.LoginPath, rec.Header().Get("Location"), path)

		cleared := sessionCookie(rec)
		require.NotNil(t, cleared, path)
		assert.Empty(t, cleared.Value, path)
		assert.Less(t, cleared.MaxAge, 0, path)
	}
}

func TestGuard_ExpiredSessionOnAPIIsUnauthorized(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "expired@clinic.test")

	claims := claimsFor(user)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	rec := app.do(http.MethodGet, "/api/me", nil, app.cookie(t, claims))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, sessionCookie(rec))
	assert.Less(t, sessionCookie(rec).MaxAge, 0)
}

func TestGuard_MissingPermissionRedirectsToDashboard(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "doctor@clinic.test")
	cookie := app.cookie(t, claimsFor(user, authz.PermViewDoctors))

	rec := app.do(http.MethodGet, "/dashboard/roles", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, authz.DashboardPath, rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), "Roles")

	rec = app.do(http.MethodGet, "/dashboard/doctors", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/doctors")
}

func TestGuard_AnonymousVisitor(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-page="login"`)

	rec = app.do(http.MethodGet, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, authz.LoginPath, rec.Header().Get("Location"))

	rec = app.do(http.MethodGet, "/api/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"unauthorized"}`, rec.Body.String())
}

func TestGuard_SignedInVisitorLeavesAuthPages(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "someone@clinic.test")

	rec := app.do(http.MethodGet, "/login", nil, app.cookie(t, claimsFor(user)))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, authz.DashboardPath, rec.Header().Get("Location"))
}

func TestHealthIsOutsideTheGuard(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ======================================================
// LOGIN
// ======================================================

func TestLogin_StartsSession(t *testing.T) {
	app := newTestApp(t)

	hash, err := ucAuth.HashPassword("s3cret!")
	require.NoError(t, err)
	verified := time.Now()
	user := &models.User{Email: "ana@clinic.test", Name: "Ana", PasswordHash: &hash, EmailVerified: &verified}
	require.NoError(t, app.db.Create(user).Error)

	rec := app.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ana@clinic.test", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, sessionCookie(rec))

	rec = app.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ANA@clinic.test", "password": "s3cret!"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	claims, err := app.sessions.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))

	rec = app.do(http.MethodGet, "/dashboard", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome, Ana")
}

func TestLogin_UnverifiedEmailSendsConfirmation(t *testing.T) {
	app := newTestApp(t)

	hash, err := ucAuth.HashPassword("s3cret!")
	require.NoError(t, err)
	require.NoError(t, app.db.Create(&models.User{Email: "new@clinic.test", PasswordHash: &hash}).Error)

	rec := app.do(http.MethodPost, "/api/auth/login", gin.H{"email": "new@clinic.test", "password": "s3cret!"}, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, sessionCookie(rec))
	assert.Equal(t, 1, app.outbox.Count())
}

// ======================================================
// SESSION MUTATION
// ======================================================

func userRoleIDs(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.UserRole{}).Where("user_id = ?", userID).Order("role_id").Pluck("role_id", &ids).Error)
	return ids
}

func TestReplaceUserRoles_OtherUserKeepsCookieOnlyCallerIsPushed(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.db, "admin@clinic.test")
	other := testutil.CreateUser(t, app.db, "other@clinic.test")
	doctors := testutil.CreateRole(t, app.db, "doctor")
	nurses := testutil.CreateRole(t, app.db, "nurse")
	perm := testutil.CreatePermission(t, app.db, authz.PermViewDoctors)
	require.NoError(t, app.db.Create(&models.RolePermission{RoleID: doctors.ID, PermissionID: perm.ID}).Error)

	adminClaims := claimsFor(admin, authz.PermViewUsers)
	adminClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(30 * time.Minute).Truncate(time.Second))
	cookie := app.cookie(t, adminClaims)

	body := gin.H{"role_ids": []uint{doctors.ID, nurses.ID}}
	for i := 0; i < 2; i++ {
		rec := app.do(http.MethodPut, fmt.Sprintf("/api/users/%d/roles", other.ID), body, cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Nil(t, sessionCookie(rec))
		assert.Equal(t, []uint{doctors.ID, nurses.ID}, userRoleIDs(t, app.db, other.ID))
	}

	rec := app.do(http.MethodPut, fmt.Sprintf("/api/users/%d/roles", admin.ID), gin.H{"role_ids": []uint{doctors.ID}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	pushed := sessionCookie(rec)
	require.NotNil(t, pushed)
	fresh, err := app.sessions.Parse(pushed.Value)
	require.NoError(t, err)
	assert.True(t, fresh.HasRole(doctors.ID))
	assert.True(t, fresh.HasPermission(authz.PermViewDoctors))
	assert.Equal(t, adminClaims.ExpiresAt.Unix(), fresh.ExpiresAt.Unix())
}

func TestReplaceRolePermissions_LeavesOtherSessionsStale(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.db, "admin@clinic.test")
	doctor := testutil.CreateUser(t, app.db, "doctor@clinic.test")
	role := testutil.CreateRole(t, app.db, "doctor")
	viewDoctors := testutil.CreatePermission(t, app.db, authz.PermViewDoctors)
	viewRoles := testutil.CreatePermission(t, app.db, authz.PermViewRoles)
	require.NoError(t, app.db.Create(&models.UserRole{UserID: doctor.ID, RoleID: role.ID}).Error)
	require.NoError(t, app.db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: viewDoctors.ID}).Error)

	doctorClaims := claimsFor(doctor, authz.PermViewDoctors)
	doctorClaims.Roles = []session.RoleClaim{{ID: role.ID, Name: role.Name}}
	doctorCookie := app.cookie(t, doctorClaims)

	rec := app.do(http.MethodPut, fmt.Sprintf("/api/roles/%d/permissions", role.ID),
		gin.H{"permission_ids": []uint{viewRoles.ID}},
		app.cookie(t, claimsFor(admin, authz.PermViewRoles)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, sessionCookie(rec))

	var stored []uint
	require.NoError(t, app.db.Model(&models.RolePermission{}).Where("role_id = ?", role.ID).Pluck("permission_id", &stored).Error)
	assert.Equal(t, []uint{viewRoles.ID}, stored)

	stale, err := app.sessions.Parse(doctorCookie.Value)
	require.NoError(t, err)
	assert.Equal(t, []string{authz.PermViewDoctors}, stale.PermissionNames())

	rec = app.do(http.MethodGet, "/dashboard/roles", nil, doctorCookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, authz.DashboardPath, rec.Header().Get("Location"))
}

// ======================================================
// PROFILE / PHARMACY
// ======================================================

func TestUpdateMe_PushesProfileIntoCookie(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "ana@clinic.test")

	rec := app.do(http.MethodPatch, "/api/me", gin.H{"name": " Ana Lima ", "city": "Recife"}, app.cookie(t, claimsFor(user)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	pushed := sessionCookie(rec)
	require.NotNil(t, pushed)
	claims, err := app.sessions.Parse(pushed.Value)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", claims.Name)
	assert.Equal(t, "Recife", claims.City)

	var stored models.User
	require.NoError(t, app.db.First(&stored, user.ID).Error)
	assert.Equal(t, "Ana Lima", stored.Name)
}

func TestBrands_KeepSaltLinksInStep(t *testing.T) {
	app := newTestApp(t)
	admin := testutil.CreateUser(t, app.db, "admin@clinic.test")
	cookie := app.cookie(t, claimsFor(admin, authz.PermViewPharmacy))

	maker := models.Manufacturer{Name: "Acme Labs"}
	require.NoError(t, app.db.Create(&maker).Error)
	paracetamol := models.Salt{Name: "Paracetamol"}
	caffeine := models.Salt{Name: "Caffeine"}
	require.NoError(t, app.db.Create(&paracetamol).Error)
	require.NoError(t, app.db.Create(&caffeine).Error)

	saltIDs := func(brandID uint) []uint {
		var ids []uint
		require.NoError(t, app.db.Table("brand_salts").Where("brand_id = ?", brandID).Order("salt_id").Pluck("salt_id", &ids).Error)
		return ids
	}

	rec := app.do(http.MethodPost, "/api/pharmacy/brands", gin.H{
		"name":            "Panadol Extra",
		"manufacturer_id": maker.ID,
		"salt_ids":        []uint{paracetamol.ID, caffeine.ID},
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var brand models.Brand
	require.NoError(t, app.db.Where("name = ?", "Panadol Extra").First(&brand).Error)
	assert.Equal(t, []uint{paracetamol.ID, caffeine.ID}, saltIDs(brand.ID))

	rec = app.do(http.MethodPut, fmt.Sprintf("/api/pharmacy/brands/%d", brand.ID), gin.H{
		"name":            "Panadol",
		"manufacturer_id": maker.ID,
		"salt_ids":        []uint{paracetamol.ID, 9999},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []uint{paracetamol.ID, caffeine.ID}, saltIDs(brand.ID))

	rec = app.do(http.MethodPut, fmt.Sprintf("/api/pharmacy/brands/%d", brand.ID), gin.H{
		"name":            "Panadol",
		"manufacturer_id": maker.ID,
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, saltIDs(brand.ID))

	rec = app.do(http.MethodGet, "/api/pharmacy/brands", nil, app.cookie(t, claimsFor(admin, authz.PermViewDoctors)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestManager_IssueAndParse(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager("secret", "session", 2*time.Hour, false).WithClock(fixedClock(now))

	claims := &Claims{
		UserID:      7,
		Email:       "ana@clinic.test",
		Roles:       []RoleClaim{{ID: 1, Name: "admin"}},
		Permissions: []PermissionClaim{{ID: 3, Name: "view:roles"}},
		City:        "Recife",
		HasOAuth:    true,
	}

	token, err := m.Issue(claims)
	require.NoError(t, err)

	parsed, err := m.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, "7", parsed.Subject)
	assert.Equal(t, uint(7), parsed.UserID)
	assert.Equal(t, "Recife", parsed.City)
	assert.True(t, parsed.HasOAuth)
	assert.True(t, parsed.HasPermission("view:roles"))
	assert.False(t, parsed.HasPermission("view:users"))
	assert.True(t, parsed.HasRole(1))
	assert.Equal(t, now.Add(2*time.Hour).Unix(), parsed.ExpiresAt.Unix())
	assert.False(t, parsed.IsExpired(now))
	assert.True(t, parsed.IsExpired(now.Add(2*time.Hour)))
}

func TestManager_ParseKeepsExpiredClaims(t *testing.T) {
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager("secret", "session", time.Hour, false).WithClock(fixedClock(past))

	token, err := m.Issue(&Claims{UserID: 1})
	require.NoError(t, err)

	parsed, err := NewManager("secret", "session", time.Hour, false).Parse(token)
	require.NoError(t, err)
	assert.True(t, parsed.IsExpired(time.Now()))
}

func TestManager_ParseRejectsForeignSignature(t *testing.T) {
	token, err := NewManager("other", "session", time.Hour, false).Issue(&Claims{UserID: 1})
	require.NoError(t, err)

	_, err = NewManager("secret", "session", time.Hour, false).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_PushKeepsExpiry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager("secret", "session", time.Hour, false).WithClock(fixedClock(now))

	current := &Claims{UserID: 5}
	_, err := m.Issue(current)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fresh := &Claims{UserID: 5, Permissions: []PermissionClaim{{ID: 2, Name: "view:doctors"}}}
	require.NoError(t, m.Push(c, current, fresh))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	parsed, err := m.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.True(t, parsed.HasPermission("view:doctors"))
	assert.Equal(t, current.ExpiresAt.Unix(), parsed.ExpiresAt.Unix())

	fromCtx, ok := FromContext(c)
	require.True(t, ok)
	assert.Same(t, fresh, fromCtx)
}

func TestClaims_IsExpiredWithoutExpiry(t *testing.T) {
	c := &Claims{}
	assert.True(t, c.IsExpired(time.Now()))

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Minute))
	assert.False(t, c.IsExpired(time.Now()))
}

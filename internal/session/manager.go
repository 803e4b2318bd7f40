package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ContextClaims = "sessionClaims"

var (
	ErrNoSession      = errors.New("session: no session cookie")
	ErrInvalidSession = errors.New("session: invalid session token")
)

type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

func NewManager(secret, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		now:        time.Now,
	}
}

// WithClock replaces the time source, used by the route guard expiry check.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Now() time.Time {
	return m.now()
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// Issue stamps a fresh issue/expiry window on claims and signs them.
func (m *Manager) Issue(claims *Claims) (string, error) {
	now := m.now()
	claims.Subject = strconv.FormatUint(uint64(claims.UserID), 10)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	return m.Sign(claims)
}

// Sign signs claims as they are, keeping their expiry.
func (m *Manager) Sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature only. Expiry is checked by the caller against
// the manager clock so the guard can tell expired sessions apart.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return claims, nil
}

func (m *Manager) Read(c *gin.Context) (*Claims, error) {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		return nil, ErrNoSession
	}
	return m.Parse(raw)
}

func (m *Manager) Write(c *gin.Context, claims *Claims) error {
	token, err := m.Sign(claims)
	if err != nil {
		return err
	}

	maxAge := 0
	if claims.ExpiresAt != nil {
		maxAge = int(claims.ExpiresAt.Time.Sub(m.now()).Seconds())
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, maxAge, "/", "", m.secure, true)
	return nil
}

// Start issues and writes a new session for claims.
func (m *Manager) Start(c *gin.Context, claims *Claims) error {
	if _, err := m.Issue(claims); err != nil {
		return err
	}
	return m.Write(c, claims)
}

// Push replaces the cookie of the current session with fresh claims while
// keeping the original issue and expiry times.
func (m *Manager) Push(c *gin.Context, current, fresh *Claims) error {
	fresh.RegisteredClaims = current.RegisteredClaims
	if err := m.Write(c, fresh); err != nil {
		return err
	}
	c.Set(ContextClaims, fresh)
	return nil
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

func FromContext(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-admin/internal/authz"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
	ucAuth "github.com/BruksfildServices01/clinic-admin/internal/usecase/auth"
)

const (
	oauthStateCookie = "oauth_state"
	authErrorPath    = "/auth-error"
)

type AuthHandler struct {
	sessions *session.Manager

	login   *ucAuth.Login
	signup  *ucAuth.Signup
	verify  *ucAuth.VerifyEmail
	forgot  *ucAuth.ForgotPassword
	newPass *ucAuth.NewPassword
	oauth   *ucAuth.OAuthSignIn
	secure  bool
}

type AuthUseCases struct {
	Login       *ucAuth.Login
	Signup      *ucAuth.Signup
	VerifyEmail *ucAuth.VerifyEmail
	Forgot      *ucAuth.ForgotPassword
	NewPassword *ucAuth.NewPassword
	// OAuth is nil when Google sign-in is not configured.
	OAuth *ucAuth.OAuthSignIn
}

func NewAuthHandler(sessions *session.Manager, uc AuthUseCases, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		login:    uc.Login,
		signup:   uc.Signup,
		verify:   uc.VerifyEmail,
		forgot:   uc.Forgot,
		newPass:  uc.NewPassword,
		oauth:    uc.OAuth,
		secure:   secureCookies,
	}
}

// --------- Requests ---------

type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type NewPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// --------- Handlers ---------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	user, err := h.signup.Execute(c.Request.Context(), ucAuth.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil && user == nil {
		httpresp.Error(c, "signup", err)
		return
	}
	if err != nil {
		log.Printf("signup: verification mail for user %d: %v", user.ID, err)
	}

	httpresp.Success(c, http.StatusCreated, httperr.MsgVerifyEmailFor, nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	claims, err := h.login.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "invalid_credentials"):
			httpresp.Fail(c, http.StatusUnauthorized, httperr.MsgInvalidCreds)
		case httperr.IsBusiness(err, "email_not_verified"):
			httpresp.Fail(c, http.StatusForbidden, httperr.MsgVerifyEmailFor)
		default:
			httpresp.Error(c, "login", err)
		}
		return
	}

	if err := h.sessions.Start(c, claims); err != nil {
		httpresp.Error(c, "start session", err)
		return
	}

	httpresp.Success(c, http.StatusOK, "", claims)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	httpresp.Success(c, http.StatusOK, "", nil)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	if _, err := h.verify.Execute(c.Request.Context(), c.Query("token")); err != nil {
		httpresp.Error(c, "verify email", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "email verified", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	if err := h.forgot.Execute(c.Request.Context(), req.Email); err != nil {
		httpresp.Error(c, "forgot password", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "reset email sent", nil)
}

func (h *AuthHandler) NewPassword(c *gin.Context) {
	var req NewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	if err := h.newPass.Execute(c.Request.Context(), req.Token, req.Password); err != nil {
		httpresp.Error(c, "new password", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "password updated", nil)
}

// --------- Google ---------

func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.oauth == nil {
		c.Redirect(http.StatusFound, authErrorPath)
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secure, true)
	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.oauth == nil {
		c.Redirect(http.StatusFound, authErrorPath)
		return
	}

	state, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secure, true)
	if err != nil || state == "" || state != c.Query("state") {
		c.Redirect(http.StatusFound, authErrorPath)
		return
	}

	claims, err := h.oauth.Execute(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Printf("google sign-in: %v", err)
		c.Redirect(http.StatusFound, authErrorPath)
		return
	}

	if err := h.sessions.Start(c, claims); err != nil {
		log.Printf("google sign-in: start session: %v", err)
		c.Redirect(http.StatusFound, authErrorPath)
		return
	}

	c.Redirect(http.StatusFound, authz.DashboardPath)
}

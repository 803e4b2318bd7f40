package routes

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/audit"
	"github.com/BruksfildServices01/clinic-admin/internal/authz"
	"github.com/BruksfildServices01/clinic-admin/internal/cache"
	"github.com/BruksfildServices01/clinic-admin/internal/config"
	"github.com/BruksfildServices01/clinic-admin/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-admin/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-admin/internal/mail"
	"github.com/BruksfildServices01/clinic-admin/internal/middleware"
	"github.com/BruksfildServices01/clinic-admin/internal/oauth"
	"github.com/BruksfildServices01/clinic-admin/internal/payments"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
	"github.com/BruksfildServices01/clinic-admin/internal/storage"
	"github.com/BruksfildServices01/clinic-admin/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-admin/internal/usecase/appointment"
	ucAuth "github.com/BruksfildServices01/clinic-admin/internal/usecase/auth"
	ucMembership "github.com/BruksfildServices01/clinic-admin/internal/usecase/membership"
	ucRBAC "github.com/BruksfildServices01/clinic-admin/internal/usecase/rbac"
	"github.com/BruksfildServices01/clinic-admin/internal/validators"
	"github.com/BruksfildServices01/clinic-admin/internal/web"
)

// Deps are the process-wide collaborators built by main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Sessions *session.Manager
	Audit    *audit.Dispatcher
	Mail     mail.Sender
	Cache    cache.Cache
	Store    storage.Store
	Payments payments.Gateway
	// OAuth is nil when Google sign-in is not configured.
	OAuth oauth.Provider
	// Stop ends background janitors started here.
	Stop <-chan struct{}
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config
	db := d.DB

	if err := validators.Register(); err != nil {
		return err
	}
	r.SetHTMLTemplate(web.Templates())

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(gzip.Gzip(gzip.BestSpeed))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	policy := authz.DefaultPolicy()
	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// INFRA
	// ======================================================
	authRepo := infraRepo.NewAuthGormRepository(db)
	rbacRepo := infraRepo.NewRBACGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	membershipRepo := infraRepo.NewMembershipGormRepository(db)

	// ======================================================
	// USE CASES (AUTH)
	// ======================================================
	issuer := ucAuth.NewTokenIssuer(authRepo, cfg.TokenTTL)
	claimsBuilder := ucAuth.NewClaimsBuilder(authRepo, rbacRepo)
	sendVerification := ucAuth.NewSendVerification(issuer, d.Mail, cfg.AppURL)

	var emailDomain func(string) bool
	if cfg.CheckEmailDomain {
		emailDomain = validators.EmailDomainResolves
	}

	verifyEmail := ucAuth.NewVerifyEmail(authRepo, issuer)
	authUC := handlers.AuthUseCases{
		Login:       ucAuth.NewLogin(ucAuth.NewVerifyCredentials(authRepo), claimsBuilder, sendVerification),
		Signup:      ucAuth.NewSignup(authRepo, sendVerification, emailDomain),
		VerifyEmail: verifyEmail,
		Forgot:      ucAuth.NewForgotPassword(authRepo, issuer, d.Mail, cfg.AppURL),
		NewPassword: ucAuth.NewNewPassword(authRepo, issuer),
	}
	if d.OAuth != nil {
		authUC.OAuth = ucAuth.NewOAuthSignIn(d.OAuth, authRepo, claimsBuilder)
	}

	// ======================================================
	// USE CASES (RBAC, APPOINTMENTS, MEMBERSHIPS)
	// ======================================================
	replaceUserRoles := ucRBAC.NewReplaceUserRoles(rbacRepo, claimsBuilder, d.Audit)
	replaceRolePermissions := ucRBAC.NewReplaceRolePermissions(rbacRepo, claimsBuilder, d.Audit)

	createAppointment := ucAppointment.NewCreateAppointment(appointmentRepo, d.Audit, loc)
	updateAppointment := ucAppointment.NewUpdateAppointment(appointmentRepo, d.Audit, d.Mail)
	listAppointments := ucAppointment.NewListAppointments(appointmentRepo)
	availability := ucAppointment.NewGetAvailability(appointmentRepo)

	recordPayment := ucMembership.NewRecordPayment(membershipRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Sessions, authUC, cfg.CookieSecure)
	webHandler := handlers.NewAppWebHandler(policy, verifyEmail, d.OAuth != nil)
	meHandler := handlers.NewMeHandler(db, d.Sessions, claimsBuilder, policy)
	userHandler := handlers.NewUserHandler(db)
	rbacHandler := handlers.NewRBACHandler(rbacRepo, d.Sessions, replaceUserRoles, replaceRolePermissions)
	appointmentHandler := handlers.NewAppointmentHandler(createAppointment, updateAppointment, listAppointments, loc)
	doctorHandler := handlers.NewDoctorHandler(db, d.Cache, availability, loc)
	directoryHandler := handlers.NewDirectoryHandler(db, d.Cache)
	membershipHandler := handlers.NewMembershipHandler(
		db,
		ucMembership.NewSubscribe(membershipRepo),
		recordPayment,
		ucMembership.NewCheckout(membershipRepo, d.Payments),
		ucMembership.NewHandlePaymentNotification(d.Payments, recordPayment),
	)
	uploadHandler := handlers.NewUploadHandler(d.Store)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// OUTSIDE THE GUARD
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if local, ok := d.Store.(*storage.LocalStore); ok {
		r.Static("/uploads", local.Dir())
	}

	limiter := middleware.NewIPRateLimiter(20, 10)
	if d.Stop != nil {
		go limiter.Cleanup(d.Stop)
	}

	authAPI := r.Group("/api/auth", limiter.Middleware())
	{
		authAPI.POST("/signup", authHandler.Signup)
		authAPI.POST("/login", authHandler.Login)
		authAPI.POST("/logout", authHandler.Logout)
		authAPI.GET("/verify", authHandler.Verify)
		authAPI.POST("/forgot-password", authHandler.ForgotPassword)
		authAPI.POST("/new-password", authHandler.NewPassword)
		authAPI.GET("/oauth/google", authHandler.GoogleStart)
		authAPI.GET("/oauth/google/callback", authHandler.GoogleCallback)
	}

	r.POST("/api/payments/webhook", membershipHandler.PaymentWebhook)

	// ======================================================
	// GUARDED
	// ======================================================
	guarded := r.Group("/", middleware.RouteGuard(policy, d.Sessions))

	// ------------------------------
	// PAGES
	// ------------------------------
	guarded.GET("/", webHandler.Home)
	guarded.GET("/login", webHandler.LoginPage)
	guarded.GET("/signup", webHandler.SignupPage)
	guarded.GET("/forgot-password", webHandler.ForgotPassword)
	guarded.GET("/new-password", webHandler.NewPassword)
	guarded.GET("/verify", webHandler.Verify)
	guarded.GET("/auth-error", webHandler.AuthError)
	guarded.GET("/dashboard", webHandler.Dashboard)
	guarded.GET("/dashboard/:section", webHandler.Section)

	api := guarded.Group("/api")

	// ------------------------------
	// SIGNED-IN USER
	// ------------------------------
	me := api.Group("/me", middleware.RequireSession())
	{
		me.GET("", meHandler.GetMe)
		me.PATCH("", meHandler.UpdateMe)

		me.GET("/appointments", appointmentHandler.ListMine)
		me.POST("/appointments", appointmentHandler.Create)
		me.PATCH("/appointments/:id", appointmentHandler.Update)
		me.GET("/doctor/appointments", appointmentHandler.ListAsDoctor)

		me.GET("/working-hours", doctorHandler.GetMyWorkingHours)
		me.PUT("/working-hours", doctorHandler.UpdateMyWorkingHours)

		me.GET("/subscription", membershipHandler.MySubscription)
		me.PUT("/subscription", membershipHandler.Subscribe)
		me.POST("/subscription/checkout", membershipHandler.Checkout)
	}

	directory := api.Group("/directory", middleware.RequireSession())
	{
		directory.GET("/doctors", doctorHandler.Directory)
		directory.GET("/doctors/:id/availability", doctorHandler.Availability)
		directory.GET("/hospitals", directoryHandler.Hospitals)
		directory.GET("/memberships", directoryHandler.Memberships)
	}

	uploads := api.Group("/uploads", middleware.RequireSession())
	{
		uploads.POST("", uploadHandler.Upload)
		uploads.DELETE("/:name", uploadHandler.Delete)
	}

	// ------------------------------
	// ADMIN (gated by authz.PathPermissions)
	// ------------------------------
	users := api.Group("/users")
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
		users.PUT("/:id/roles", rbacHandler.ReplaceUserRoles)
	}

	roles := api.Group("/roles")
	{
		roles.GET("", rbacHandler.ListRoles)
		roles.GET("/:id", rbacHandler.GetRole)
		roles.POST("", rbacHandler.CreateRole)
		roles.PUT("/:id", rbacHandler.UpdateRole)
		roles.DELETE("/:id", rbacHandler.DeleteRole)
		roles.PUT("/:id/permissions", rbacHandler.ReplaceRolePermissions)
	}

	permissions := api.Group("/permissions")
	{
		permissions.GET("", rbacHandler.ListPermissions)
		permissions.GET("/:id", rbacHandler.GetPermission)
		permissions.POST("", rbacHandler.CreatePermission)
		permissions.PUT("/:id", rbacHandler.UpdatePermission)
		permissions.DELETE("/:id", rbacHandler.DeletePermission)
	}

	appointments := api.Group("/appointments")
	{
		appointments.GET("", appointmentHandler.ListAll)
		appointments.GET("/export", appointmentHandler.Export)
		appointments.PATCH("/:id", appointmentHandler.AdminUpdate)
	}

	doctors := api.Group("/doctors")
	{
		doctors.GET("", doctorHandler.List)
		doctors.GET("/:id", doctorHandler.Get)
		doctors.POST("", doctorHandler.Create)
		doctors.PUT("/:id", doctorHandler.Update)
		doctors.DELETE("/:id", doctorHandler.Delete)
		doctors.GET("/:id/working-hours", doctorHandler.GetWorkingHours)
		doctors.PUT("/:id/working-hours", doctorHandler.UpdateWorkingHours)
	}

	handlers.NewHospitalResource(db, d.Cache).Register(api.Group("/hospitals"))
	handlers.NewDepartmentResource(db, d.Cache).Register(api.Group("/departments"))

	handlers.NewMembershipResource(db, d.Cache).Register(api.Group("/memberships"))
	handlers.NewFeeResource(db, d.Cache).Register(api.Group("/memberships/fees"))
	api.GET("/subscriptions", membershipHandler.ListSubscriptions)
	api.GET("/transactions", membershipHandler.ListTransactions)
	api.POST("/transactions", membershipHandler.RecordTransaction)

	pharmacy := api.Group("/pharmacy")
	{
		handlers.NewBrandHandler(db).Register(pharmacy.Group("/brands"))
		handlers.NewSaltResource(db).Register(pharmacy.Group("/salts"))
		handlers.NewManufacturerResource(db).Register(pharmacy.Group("/manufacturers"))
		handlers.NewCodeResource(db).Register(pharmacy.Group("/codes"))
	}

	api.GET("/audit-logs", auditLogsHandler.List)

	return nil
}

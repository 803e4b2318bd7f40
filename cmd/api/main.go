package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-admin/internal/audit"
	"github.com/BruksfildServices01/clinic-admin/internal/cache"
	"github.com/BruksfildServices01/clinic-admin/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-admin/internal/db"
	infraRepo "github.com/BruksfildServices01/clinic-admin/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-admin/internal/jobs"
	"github.com/BruksfildServices01/clinic-admin/internal/mail"
	"github.com/BruksfildServices01/clinic-admin/internal/oauth"
	"github.com/BruksfildServices01/clinic-admin/internal/payments"
	"github.com/BruksfildServices01/clinic-admin/internal/routes"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
	"github.com/BruksfildServices01/clinic-admin/internal/storage"
	"github.com/BruksfildServices01/clinic-admin/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-admin/internal/usecase/appointment"
	ucMembership "github.com/BruksfildServices01/clinic-admin/internal/usecase/membership"
)

const reminderWindow = 24 * time.Hour

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	sender := mail.NewSender(cfg)

	appCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect cache: %v", err)
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	gateway, err := payments.NewGateway(cfg.MercadoPagoAccessToken, cfg.AppURL+"/api/payments/webhook")
	if err != nil {
		log.Fatalf("failed to init payments: %v", err)
	}

	deps := routes.Deps{
		DB:       db,
		Config:   cfg,
		Sessions: session.NewManager(cfg.JWTSecret, cfg.SessionCookie, cfg.SessionTTL, cfg.CookieSecure),
		Audit:    auditDispatcher,
		Mail:     sender,
		Cache:    appCache,
		Store:    store,
		Payments: gateway,
		Stop:     ctx.Done(),
	}
	if cfg.GoogleEnabled() {
		deps.OAuth = oauth.NewGoogle(oauth.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			CallbackURL:  cfg.AppURL + "/api/auth/oauth/google/callback",
		})
	}

	r := gin.Default()
	if err := routes.RegisterRoutes(r, deps); err != nil {
		log.Fatalf("failed to register routes: %v", err)
	}

	// ------------------------------
	// Background jobs
	// ------------------------------
	background := &jobs.Jobs{
		Reminders: ucAppointment.NewSendReminders(infraRepo.NewAppointmentGormRepository(db), sender, reminderWindow),
		Expire:    ucMembership.NewExpireSubscriptions(infraRepo.NewMembershipGormRepository(db)),
	}
	scheduler := background.Start(ctx, timezone.Location(cfg.Timezone))
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/rafidainsoft/mahrajan/internal/gateway"
	"github.com/rafidainsoft/mahrajan/internal/handlers"
	"github.com/rafidainsoft/mahrajan/internal/invite"
	"github.com/rafidainsoft/mahrajan/internal/notifier"
	"github.com/rafidainsoft/mahrajan/internal/qr"
	"github.com/rafidainsoft/mahrajan/internal/ratelimit"
	"github.com/rafidainsoft/mahrajan/internal/repository"
	"github.com/rafidainsoft/mahrajan/internal/service"
	"github.com/rafidainsoft/mahrajan/pkg/config"
	"github.com/rafidainsoft/mahrajan/pkg/database"
	"github.com/rafidainsoft/mahrajan/pkg/events"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
	"github.com/rafidainsoft/mahrajan/pkg/middleware"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.Connect(ctx, cfg.Database)
	cancel()
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var bus events.Bus
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = natsBus
		logger.Info("Using NATS event bus", "url", cfg.NATS.URL)
	} else {
		bus = events.NewMemoryBus()
		logger.Info("Using in-process event bus")
	}
	defer bus.Close()

	regs := repository.NewRegistrationRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	admins := repository.NewAdminRepository(pool)

	var messenger gateway.Messenger
	if cfg.WhatsApp.Token != "" && cfg.WhatsApp.InstanceID != "" {
		messenger = gateway.NewUltraMsg(cfg.WhatsApp.BaseURL, cfg.WhatsApp.InstanceID, cfg.WhatsApp.Token, cfg.WhatsApp.SendTimeout)
		logger.Info("Using UltraMsg WhatsApp gateway", "instance", cfg.WhatsApp.InstanceID)
	} else {
		messenger = gateway.NewDev()
		logger.Warn("WhatsApp credentials not configured, messages will be logged only")
	}

	lim := handlers.Limiters{
		Register: newLimiter(cfg, "register", 5, 15*time.Minute),
		OTP:      newLimiter(cfg, "otp", 3, 5*time.Minute),
		Bulk:     newLimiter(cfg, "bulk", 1, 5*time.Minute),
	}

	renderer := qr.New()
	codes := invite.New(regs)

	registrationSvc := service.NewRegistrationService(regs, bus)
	invitationSvc := service.NewInvitationService(regs, settingsRepo, codes, messenger, renderer, cfg.Event.Date, cfg.WhatsApp.SendDelay)
	verificationSvc := service.NewVerificationService(regs)
	broadcastSvc := service.NewBroadcastService(regs, messenger, cfg.WhatsApp.SendDelay)
	otpSvc := service.NewOTPService(messenger)
	adminAuthSvc := service.NewAdminAuthService(admins, cfg.Auth.JWTSecret, cfg.Auth.AdminTokenTTL)
	settingsSvc := service.NewSettingsService(settingsRepo)

	notif := notifier.New(bus, messenger, settingsRepo, renderer, cfg.Event.Date)
	if err := notif.Start(); err != nil {
		logger.Error("Failed to start notifier", "error", err)
		os.Exit(1)
	}

	h := handlers.New(registrationSvc, invitationSvc, verificationSvc, broadcastSvc, otpSvc, adminAuthSvc, settingsSvc, cfg.Auth.JWTSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ServiceName("mahrajan-api"))
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(middleware.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/", h.Routes(lim))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// newLimiter picks the Redis-backed limiter when REDIS_URL is set so the
// quota holds across replicas, and falls back to the in-process limiter.
func newLimiter(cfg *config.Config, name string, max int, window time.Duration) ratelimit.Limiter {
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Warn("Invalid REDIS_URL, using in-memory rate limiter", "error", err)
			return ratelimit.NewMemory(max, window)
		}
		return ratelimit.NewRedis(redis.NewClient(opts), "ratelimit:"+name, max, window)
	}
	return ratelimit.NewMemory(max, window)
}

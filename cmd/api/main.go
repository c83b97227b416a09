package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/frontdesk-api/internal/config"
	appointmentHandler "github.com/jwalitptl/frontdesk-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/frontdesk-api/internal/handler/auth"
	clinicHandler "github.com/jwalitptl/frontdesk-api/internal/handler/clinic"
	"github.com/jwalitptl/frontdesk-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/frontdesk-api/internal/handler/patient"
	"github.com/jwalitptl/frontdesk-api/internal/handler/report"
	userHandler "github.com/jwalitptl/frontdesk-api/internal/handler/user"
	"github.com/jwalitptl/frontdesk-api/internal/middleware"
	"github.com/jwalitptl/frontdesk-api/internal/repository/postgres"
	"github.com/jwalitptl/frontdesk-api/internal/router"
	appointmentService "github.com/jwalitptl/frontdesk-api/internal/service/appointment"
	clinicService "github.com/jwalitptl/frontdesk-api/internal/service/clinic"
	"github.com/jwalitptl/frontdesk-api/internal/service/dashboard"
	patientService "github.com/jwalitptl/frontdesk-api/internal/service/patient"
	userService "github.com/jwalitptl/frontdesk-api/internal/service/user"
	"github.com/jwalitptl/frontdesk-api/pkg/auth"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
	"github.com/jwalitptl/frontdesk-api/pkg/ratelimit"
	"github.com/jwalitptl/frontdesk-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger(nil).Fatal(err, "failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	appLogger.SetGlobal()
	zl := appLogger.Zerolog()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New("frontdesk", registry)

	if err := validator.RegisterGinValidators(); err != nil {
		appLogger.Fatal(err, "failed to register validators")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	base := postgres.NewBaseRepository(db, appMetrics)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	clinicRepo := postgres.NewClinicLocationRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	allowedUserRepo := postgres.NewAllowedUserRepository(base)

	// Initialize services
	scheduler := appointmentService.NewService(appointmentRepo,
		appointmentService.WithLogger(zl.With().Str("component", "scheduler").Logger()),
		appointmentService.WithMetrics(appMetrics),
	)
	dashboardSvc := dashboard.NewService(scheduler)
	clinicSvc := clinicService.NewService(clinicRepo)
	patientSvc := patientService.NewService(patientRepo, nil)
	allowlistLogger := zl.With().Str("component", "allowlist").Logger()
	allowlistSvc := userService.NewService(allowedUserRepo, userService.Config{
		CacheTTL: cfg.Auth.AllowlistCacheTTL,
		Logger:   &allowlistLogger,
		Metrics:  appMetrics,
	})

	// Initialize middleware
	var limitStore middleware.LimitStore
	if cfg.RateLimit.RedisURL != "" {
		redisClient, err := ratelimit.NewClient(context.Background(), cfg.RateLimit.RedisURL)
		if err != nil {
			appLogger.Fatal(err, "failed to connect to redis")
		}
		defer redisClient.Close()
		limit := ratelimit.LimitPerWindow(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, time.Second)
		limitStore = ratelimit.NewRedisStore(redisClient, limit, time.Second)
	}

	verifier := auth.NewVerifier(auth.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	})
	authMiddleware := middleware.NewAuthMiddleware(verifier, allowlistSvc, zl)

	zone := cfg.Server.DefaultTimeZone
	r := router.NewRouter(
		authMiddleware,
		router.Handlers{
			Health:      health.NewHandler(db, registry),
			Auth:        authHandler.NewHandler(allowlistSvc),
			Appointment: appointmentHandler.NewHandler(scheduler, appointmentHandler.Defaults{
				TimeZone:         zone,
				ClinicLocationID: cfg.Clinic.DefaultLocationID,
			}),
			Report:      report.NewHandler(dashboardSvc, zone),
			Patient:     patientHandler.NewHandler(patientSvc),
			Clinic:      clinicHandler.NewHandler(clinicSvc),
			User:        userHandler.NewHandler(allowlistSvc),
		},
		router.RouterConfig{
			Mode:       cfg.Server.Mode,
			RateLimit:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:  cfg.RateLimit.Burst,
			LimitStore: limitStore,
			CORSConfig: middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
			Logger:     zl,
			Metrics:    appMetrics,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("server listening", "port", cfg.Server.Port, "time_zone", zone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(err, "server forced to shutdown")
		return
	}

	appLogger.Info("server exited properly")
}

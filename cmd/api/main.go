package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/loginlab/internal/auth"
	"github.com/BradenHooton/loginlab/internal/background"
	"github.com/BradenHooton/loginlab/internal/config"
	"github.com/BradenHooton/loginlab/internal/handlers"
	"github.com/BradenHooton/loginlab/internal/metrics"
	middlewareCustom "github.com/BradenHooton/loginlab/internal/middleware"
	"github.com/BradenHooton/loginlab/internal/models"
	"github.com/BradenHooton/loginlab/internal/repositories"
	"github.com/BradenHooton/loginlab/internal/routes"
	"github.com/BradenHooton/loginlab/internal/services"
	pkgauth "github.com/BradenHooton/loginlab/pkg/auth"
	pkghttp "github.com/BradenHooton/loginlab/pkg/http"
	pkglogger "github.com/BradenHooton/loginlab/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Demo account targeted by the attack recorder
const (
	testUsername = "tester_brute"
	testPassword = "123456"
	testEmail    = "test@brute.com"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.SlogLevel()}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.Int("login_max_failures", cfg.Lockout.MaxFailures),
		slog.Duration("login_lock_duration", cfg.Lockout.LockDuration))

	clock := auth.SystemClock{}

	// Metrics
	authMetrics, err := metrics.NewAuthMetrics(metrics.Options{Registerer: prometheus.DefaultRegisterer})
	if err != nil {
		logger.Error("failed to register auth metrics", slog.Any("error", err))
		os.Exit(1)
	}
	httpMetrics, err := metrics.NewHTTPMetrics(metrics.Options{Registerer: prometheus.DefaultRegisterer})
	if err != nil {
		logger.Error("failed to register http metrics", slog.Any("error", err))
		os.Exit(1)
	}

	// Lockout guard and its sweeper
	guard, err := auth.NewLoginAttemptGuard(auth.GuardConfig{
		MaxFailures:  cfg.Lockout.MaxFailures,
		LockDuration: cfg.Lockout.LockDuration,
	})
	if err != nil {
		logger.Error("invalid lockout configuration", slog.Any("error", err))
		os.Exit(1)
	}
	sweepManager := background.NewSweepManager(guard, clock, authMetrics, logger, cfg.Lockout.SweepInterval)

	// Storage and services
	userRepo := repositories.NewUserRepository()
	hasher := pkgauth.NewHasher(cfg.Auth.BcryptCost)
	auditLogger := pkglogger.NewAuditLogger(logger)
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry, clock)

	authenticator, err := services.NewPasswordAuthenticator(userRepo, hasher)
	if err != nil {
		logger.Error("failed to initialize authenticator", slog.Any("error", err))
		os.Exit(1)
	}

	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelay:   cfg.Auth.TimingDelayBase,
		RandomDelay: cfg.Auth.TimingDelayRandom,
	})

	userService := services.NewUserService(userRepo, hasher, logger, auditLogger)
	authService := services.NewAuthService(guard, authenticator, tokenManager, clock, timingDelay, authMetrics, logger, auditLogger)
	adminService := services.NewAdminService(userRepo, guard, clock, logger)

	if cfg.Auth.SeedTestUser {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := ensureTestUser(ctx, userService, logger); err != nil {
			logger.Error("failed to seed test user", slog.Any("error", err))
		}
		cancel()
	}

	ipConfig := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)

	// Router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(httpMetrics.Middleware)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.CORSConfig{AllowedOrigins: cfg.Server.AllowedOrigins}))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, routes.Dependencies{
		UserHandler:  handlers.NewUserHandler(userService),
		AuthHandler:  handlers.NewAuthHandler(authService, userService, ipConfig),
		AdminHandler: handlers.NewAdminHandler(adminService),
		TokenManager: tokenManager,
		LoginRateLimit: middlewareCustom.RateLimitConfig{
			RequestsPerMinute: cfg.Lockout.IPRateLimit,
			IPConfig:          ipConfig,
		},
		Gatherer: prometheus.DefaultGatherer,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go sweepManager.Start(sweepCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")
	sweepManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureTestUser creates the weak demo account the attack recorder targets
func ensureTestUser(ctx context.Context, userService *services.UserService, logger *slog.Logger) error {
	user, err := userService.CreateUser(ctx, services.NewUser{
		Username: testUsername,
		Email:    testEmail,
		Password: testPassword,
		IsActive: true,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			logger.Info("test user already exists")
			return nil
		}
		return fmt.Errorf("failed to create test user: %w", err)
	}

	logger.Warn("seeded weak test account",
		slog.String("user_id", user.ID),
		slog.String("username", testUsername))
	return nil
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"budget-tracker/internal/config"
	"budget-tracker/internal/database"
	"budget-tracker/internal/handlers"
	"budget-tracker/internal/middleware"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("database initialization failed", "error", err)
		os.Exit(1)
	}

	e := buildServer(cfg, db, logger)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("starting server", "addr", addr, "environment", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped cleanly")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func buildServer(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	blacklistRepo := repositories.NewBlacklistedTokenRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	budgetRepo := repositories.NewBudgetRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Services
	metrics := services.NewPrometheusMetrics()
	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService(cfg.Security.BCryptCost)

	var notifier services.NotifierInterface
	if cfg.Mail.Enabled {
		notifier = services.NewSMTPNotifier(cfg.Mail, logger)
	} else {
		notifier = services.NewLogNotifier(logger)
	}

	breaker := services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig())
	evaluator := services.NewBudgetEvaluator(
		userRepo, budgetRepo, transactionRepo, notificationRepo,
		notifier, breaker, metrics, logger,
	)

	authService := services.NewAuthService(
		userRepo, refreshTokenRepo, blacklistRepo,
		tokenService, passwordService, notifier, metrics,
		cfg.Security, logger,
	)
	transactionService := services.NewTransactionService(transactionRepo, evaluator, metrics, logger)
	budgetService := services.NewBudgetService(budgetRepo, evaluator, metrics, logger)
	statsService := services.NewStatsService(transactionRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	profileService := services.NewUserProfileService(userRepo, refreshTokenRepo, logger)

	// Handlers
	healthHandler := handlers.NewHealthCheckHandler(db)
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	userHandler := handlers.NewUserHandler(profileService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	statsHandler := handlers.NewStatsHandler(statsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	emailHandler := handlers.NewEmailHandler(notifier)

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitPerSecond*2))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(tokenService, blacklistRepo))

	protected.GET("/users/me", userHandler.GetProfile)
	protected.PATCH("/users/me", userHandler.UpdateProfile)
	protected.DELETE("/users/me", userHandler.DeleteAccount)

	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.GET("/transactions/:id", transactionHandler.Get)
	protected.PUT("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	protected.POST("/budgets", budgetHandler.Create)
	protected.GET("/budgets", budgetHandler.List)
	protected.GET("/budgets/:id", budgetHandler.Get)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)

	protected.GET("/stats/categories", statsHandler.CategoryInsights)
	protected.GET("/stats/summary", statsHandler.Summary)
	protected.GET("/stats/monthly", statsHandler.MonthlySpend)

	protected.GET("/notifications", notificationHandler.List)
	protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
	protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

	protected.POST("/email", emailHandler.Send, middleware.RequireAdmin())

	if cfg.IsDevelopment() {
		devHandler := handlers.NewDevHandler(transactionRepo, evaluator)
		dev := api.Group("/dev")
		dev.Use(middleware.RequireAuth(tokenService, blacklistRepo))
		dev.POST("/sample-data", devHandler.GenerateSampleData)
		dev.DELETE("/sample-data", devHandler.ClearSampleData)
	}

	return e
}

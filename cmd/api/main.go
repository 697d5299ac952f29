// @title Ledgerly API
// @version 1.0
// @description Personal budget tracking: income, category budgets, expenses, dashboards, goals and reports.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token as "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/ledgerly/ledgerly-backend/db"
	"github.com/ledgerly/ledgerly-backend/internal/auth"
	"github.com/ledgerly/ledgerly-backend/internal/config"
	"github.com/ledgerly/ledgerly-backend/internal/events"
	"github.com/ledgerly/ledgerly-backend/internal/handler"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/repository/postgres"
	"github.com/ledgerly/ledgerly-backend/internal/repository/storage"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	if cfg.AutoMigrate {
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	// Connect to database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	incomeRepo := postgres.NewIncomeRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	goalRepo := postgres.NewSavingGoalRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Object storage is optional; avatars and export links are disabled without it
	var objectStore storage.ObjectStore
	if cfg.S3.Enabled {
		s3Store, err := storage.NewS3ObjectStore(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		objectStore = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 storage enabled")
	} else {
		log.Warn().Msg("S3 storage disabled: avatar uploads and export links unavailable")
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token manager")
	}

	// Initialize services
	currencyService := service.NewCurrencyService(service.NewExchangeRateClient(cfg.Rates.APIURL, 10*time.Second), cfg.Rates.TTL)
	authService := service.NewAuthService(userRepo, settingsRepo, tokens)
	incomeService := service.NewIncomeService(incomeRepo)
	budgetService := service.NewBudgetService(budgetRepo, incomeRepo, expenseRepo)
	expenseService := service.NewExpenseService(expenseRepo)
	dashboardService := service.NewDashboardService(incomeRepo, budgetRepo, expenseRepo, settingsRepo, currencyService)
	settingsService := service.NewSettingsService(settingsRepo, currencyService, service.NewAvatarService(objectStore))
	goalService := service.NewGoalService(goalRepo)
	reportService := service.NewReportService(incomeRepo, budgetRepo, expenseRepo, settingsRepo, reportRepo)
	exportService := service.NewExportService(reportService, settingsRepo, objectStore)

	// Mutation events go to connected websocket clients and, when configured, to AMQP
	hub := websocket.NewHub()
	publishers := []websocket.EventPublisher{hub}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("AMQP event sink enabled")
	}
	publisher := websocket.NewMultiPublisher(publishers...)

	incomeService.SetEventPublisher(publisher)
	budgetService.SetEventPublisher(publisher)
	expenseService.SetEventPublisher(publisher)
	settingsService.SetEventPublisher(publisher)
	goalService.SetEventPublisher(publisher)
	reportService.SetEventPublisher(publisher)

	// Background jobs
	scheduler, err := service.NewScheduler(currencyService, reportService, log.Logger, service.SchedulerConfig{
		RatesRefreshCron: cfg.Rates.RefreshCron,
		WeeklyReportCron: cfg.WeeklyReportCron,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	scheduler.Start(ctx)

	// Auth endpoints get a per-IP limiter
	authLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	defer authLimiter.Stop()

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Income:    handler.NewIncomeHandler(incomeService),
		Budget:    handler.NewBudgetHandler(budgetService),
		Expense:   handler.NewExpenseHandler(expenseService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Currency:  handler.NewCurrencyHandler(currencyService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Goal:      handler.NewGoalHandler(goalService),
		Report:    handler.NewReportHandler(reportService),
		Export:    handler.NewExportHandler(exportService),
	}
	wsHandler := handler.NewWebSocketHandler(hub, websocket.NewSessionTokenValidator(tokens), cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", handler.OpenAPI3Handler(cfg.Port, cfg.PublicURL))

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, middleware.RateLimitMiddleware(authLimiter), handlers)
	e.GET("/ws", wsHandler.HandleWS)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}

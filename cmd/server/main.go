package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/globetrotterhq/globetrotter-backend/internal/config"
	"github.com/globetrotterhq/globetrotter-backend/internal/database"
	"github.com/globetrotterhq/globetrotter-backend/internal/handlers"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/logging"
	"github.com/globetrotterhq/globetrotter-backend/internal/middleware"
	"github.com/globetrotterhq/globetrotter-backend/internal/realtime"
	"github.com/globetrotterhq/globetrotter-backend/internal/routes"
	"github.com/globetrotterhq/globetrotter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)}),
		pgLogHandler,
	)))

	// Retention cleanup for system logs and expired revoked tokens
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Services
	hub := realtime.NewHub()
	mediaService := services.NewMediaService(cfg)
	authService := services.NewAuthService(database.DB, cfg)
	catalogService := services.NewCatalogService(database.DB)
	tripService := services.NewTripService(database.DB, mediaService, hub, cfg)
	itineraryService := services.NewItineraryService(database.DB, hub)
	analyticsService := services.NewAnalyticsService(database.DB)
	adminService := services.NewAdminService(database.DB, mediaService, catalogService, analyticsService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, mediaService)
	healthHandler := handlers.NewHealthHandler()
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	tripHandler := handlers.NewTripHandler(tripService, mediaService)
	itineraryHandler := handlers.NewItineraryHandler(itineraryService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	adminHandler := handlers.NewAdminHandler(adminService, catalogService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app; body limit leaves room for multipart overhead around the
	// upload cap enforced by the media service
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxUploadBytes) + 1024*1024,
		ErrorHandler: errorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, hub, authService, tripService,
		authHandler, healthHandler, catalogHandler, tripHandler,
		itineraryHandler, analyticsHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// errorHandler catches errors that escape the handlers: fiber-level errors
// (404 route misses, body limit, upgrade failures) and anything unmapped.
func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		switch e.Code {
		case fiber.StatusNotFound:
			return httperr.Respond(c, httperr.NotFound("route not found"))
		case fiber.StatusRequestEntityTooLarge:
			return httperr.Respond(c, httperr.TooLarge("request body exceeds the upload limit"))
		case fiber.StatusTooManyRequests:
			return c.Status(e.Code).JSON(fiber.Map{"error": "rate_limited", "message": "too many requests"})
		default:
			if e.Code < 500 {
				return c.Status(e.Code).JSON(fiber.Map{"error": "validation", "message": e.Message})
			}
		}
	}

	slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return httperr.Respond(c, httperr.Internal(err))
}

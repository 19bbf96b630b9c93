package routes

import (
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/config"
	"github.com/globetrotterhq/globetrotter-backend/internal/handlers"
	"github.com/globetrotterhq/globetrotter-backend/internal/middleware"
	"github.com/globetrotterhq/globetrotter-backend/internal/realtime"
	"github.com/globetrotterhq/globetrotter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

const clientRequestIDHeader = "X-Client-Request-ID"

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	hub *realtime.Hub,
	authService *services.AuthService,
	tripService *services.TripService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	catalogHandler *handlers.CatalogHandler,
	tripHandler *handlers.TripHandler,
	itineraryHandler *handlers.ItineraryHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Clients may tag write requests for safe retry; echo the tag back.
	api.Use(func(c *fiber.Ctx) error {
		if id := c.Get(clientRequestIDHeader); id != "" {
			c.Set(clientRequestIDHeader, id)
		}
		return c.Next()
	})

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Shared trips are readable without an account
	api.Get("/trips/shared/:token", tripHandler.GetShared)

	// Trip reads are reachable anonymously with a share token or for
	// public trips; the services decide visibility.
	optional := middleware.OptionalAuth(cfg, db)
	api.Get("/trips/:id", optional, tripHandler.Get)
	api.Get("/trips/:id/itinerary", optional, itineraryHandler.List)
	api.Get("/trips/:id/cities", optional, tripHandler.ListCities)

	// Protected routes (JWT + revocation check)
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.NotRevoked(db))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/profile", authHandler.Profile)

	// Catalog reads
	protected.Get("/cities/search", catalogHandler.SearchCities)
	protected.Get("/cities/popular", catalogHandler.PopularCities)
	protected.Get("/cities/countries", catalogHandler.Countries)
	protected.Get("/cities/:id", catalogHandler.GetCity)
	protected.Get("/activities/search", catalogHandler.SearchActivities)
	protected.Get("/activities/popular", catalogHandler.PopularActivities)
	protected.Get("/activities/categories", catalogHandler.Categories)
	protected.Get("/activities/city/:cityID", catalogHandler.ActivitiesForCity)

	// Trips
	protected.Post("/trips", tripHandler.Create)
	protected.Get("/trips", tripHandler.List)
	protected.Put("/trips/:id", tripHandler.Update)
	protected.Delete("/trips/:id", tripHandler.Delete)
	protected.Post("/trips/:id/share", tripHandler.Share)
	protected.Get("/trips/:id/summary", tripHandler.Summary)
	protected.Get("/trips/:id/cost-breakdown", tripHandler.CostBreakdown)
	protected.Post("/trips/:id/cities", tripHandler.AddCity)
	protected.Delete("/trips/:id/cities/:cityID", tripHandler.RemoveCity)

	// Itinerary
	protected.Post("/trips/:id/itinerary", itineraryHandler.Create)
	protected.Put("/trips/:id/itinerary/reorder", itineraryHandler.Reorder)
	protected.Post("/trips/:id/itinerary/from-activity", itineraryHandler.AddFromActivity)
	protected.Put("/itinerary/:itemId", itineraryHandler.Update)
	protected.Delete("/itinerary/:itemId", itineraryHandler.Delete)

	// Analytics
	protected.Get("/analytics/stats", analyticsHandler.TravelStats)
	protected.Get("/analytics/monthly-spending", analyticsHandler.MonthlySpending)
	protected.Get("/analytics/category-breakdown", analyticsHandler.CategoryBreakdown)
	protected.Get("/analytics/seasonal-trends", analyticsHandler.SeasonalTrends)
	protected.Get("/analytics/status-rollup", analyticsHandler.StatusRollup)

	// Admin surface (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.NotRevoked(db), middleware.AdminRequired(db))
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/health", adminHandler.Health)
	admin.Get("/logs", adminHandler.Logs)

	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)

	admin.Get("/trips", adminHandler.ListTrips)
	admin.Put("/trips/:id/feature", adminHandler.FeatureTrip)

	admin.Get("/cities", catalogHandler.SearchCities)
	admin.Post("/cities", adminHandler.CreateCity)
	admin.Post("/cities/bulk-delete", adminHandler.BulkDeleteCities)
	admin.Put("/cities/:id", adminHandler.UpdateCity)
	admin.Delete("/cities/:id", adminHandler.DeleteCity)

	admin.Get("/activities", catalogHandler.SearchActivities)
	admin.Post("/activities", adminHandler.CreateActivity)
	admin.Post("/activities/bulk-delete", adminHandler.BulkDeleteActivities)
	admin.Get("/activities/:id", adminHandler.GetActivity)
	admin.Put("/activities/:id", adminHandler.UpdateActivity)
	admin.Delete("/activities/:id", adminHandler.DeleteActivity)

	admin.Get("/analytics/stats", analyticsHandler.AdminTravelStats)
	admin.Get("/analytics/monthly-spending", analyticsHandler.AdminMonthlySpending)
	admin.Get("/analytics/seasonal-trends", analyticsHandler.AdminSeasonalTrends)
	admin.Get("/analytics/user-growth", analyticsHandler.UserGrowth)
	admin.Get("/analytics/popular-destinations", analyticsHandler.PopularDestinations)

	// Real-time channel; the upgrade is exempt from the API limiter
	app.Get("/socket", realtime.Upgrade(authService), realtime.Handler(hub, tripService))

	// Uploaded media
	app.Static("/uploads", cfg.UploadDir)
}

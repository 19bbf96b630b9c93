package handlers

import (
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/middleware"
	"github.com/globetrotterhq/globetrotter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) TravelStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	stats, err := h.analytics.TravelStats(userID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(stats)
}

func (h *AnalyticsHandler) MonthlySpending(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	buckets, err := h.analytics.MonthlySpending(userID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"months": buckets})
}

func (h *AnalyticsHandler) CategoryBreakdown(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	breakdown, err := h.analytics.CategoryBreakdown(userID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(breakdown)
}

func (h *AnalyticsHandler) SeasonalTrends(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	trends, err := h.analytics.SeasonalTrends(userID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(trends)
}

func (h *AnalyticsHandler) StatusRollup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	rollup, err := h.analytics.StatusRollup(userID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(rollup)
}

// --- admin variants, computed across all users ---

func (h *AnalyticsHandler) AdminTravelStats(c *fiber.Ctx) error {
	stats, err := h.analytics.TravelStats(uuid.Nil)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(stats)
}

func (h *AnalyticsHandler) AdminMonthlySpending(c *fiber.Ctx) error {
	buckets, err := h.analytics.MonthlySpending(uuid.Nil)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"months": buckets})
}

func (h *AnalyticsHandler) AdminSeasonalTrends(c *fiber.Ctx) error {
	trends, err := h.analytics.SeasonalTrends(uuid.Nil)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(trends)
}

func (h *AnalyticsHandler) UserGrowth(c *fiber.Ctx) error {
	growth, err := h.analytics.UserGrowth()
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"months": growth})
}

func (h *AnalyticsHandler) PopularDestinations(c *fiber.Ctx) error {
	destinations, err := h.analytics.PopularDestinations(queryLimit(c))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"destinations": destinations})
}

package handlers

import (
	"strconv"

	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultCatalogLimit = 20

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) SearchCities(c *fiber.Ctx) error {
	cities, err := h.catalog.SearchCities(c.Query("q"), c.Query("country"), queryLimit(c))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"cities": cities})
}

func (h *CatalogHandler) PopularCities(c *fiber.Ctx) error {
	cities, err := h.catalog.PopularCities(queryLimit(c))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"cities": cities})
}

func (h *CatalogHandler) GetCity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid city id"))
	}

	city, err := h.catalog.GetCity(id)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(city)
}

func (h *CatalogHandler) Countries(c *fiber.Ctx) error {
	counts, err := h.catalog.Countries()
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"countries": counts})
}

func (h *CatalogHandler) SearchActivities(c *fiber.Ctx) error {
	filters := dto.ActivityFilters{
		Category:  c.Query("category"),
		CostMin:   queryFloat(c, "priceMin"),
		CostMax:   queryFloat(c, "priceMax"),
		MinRating: queryFloat(c, "minRating"),
		Limit:     queryLimit(c),
	}

	activities, err := h.catalog.SearchActivities(c.Query("q"), filters)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"activities": activities})
}

func (h *CatalogHandler) PopularActivities(c *fiber.Ctx) error {
	activities, err := h.catalog.PopularActivities(queryLimit(c))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"activities": activities})
}

func (h *CatalogHandler) ActivitiesForCity(c *fiber.Ctx) error {
	cityID, err := uuid.Parse(c.Params("cityID"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid city id"))
	}

	filters := dto.ActivityFilters{
		Category:  c.Query("category"),
		CostMin:   queryFloat(c, "priceMin"),
		CostMax:   queryFloat(c, "priceMax"),
		MinRating: queryFloat(c, "minRating"),
		Limit:     queryLimit(c),
	}

	activities, err := h.catalog.ActivitiesForCity(cityID, filters)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"activities": activities})
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.catalog.Categories()})
}

// queryLimit reads ?limit= with a default; limit=0 is honored and yields
// an empty page.
func queryLimit(c *fiber.Ctx) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultCatalogLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultCatalogLimit
	}
	if n > 100 {
		return 100
	}
	return n
}

func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

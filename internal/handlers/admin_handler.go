package handlers

import (
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/database"
	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	admin     *services.AdminService
	catalog   *services.CatalogService
	startedAt time.Time
}

func NewAdminHandler(admin *services.AdminService, catalog *services.CatalogService) *AdminHandler {
	return &AdminHandler{admin: admin, catalog: catalog, startedAt: time.Now()}
}

// --- users ---

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, total, err := h.admin.ListUsers(limit, offset)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "total": total})
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid user id"))
	}

	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	view, err := h.admin.UpdateUser(id, &req)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(view)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid user id"))
	}

	if err := h.admin.DeleteUser(id); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "user deleted"})
}

// --- trips ---

func (h *AdminHandler) ListTrips(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	trips, total, err := h.admin.ListTrips(limit, offset)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"trips": trips, "total": total})
}

func (h *AdminHandler) FeatureTrip(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid trip id"))
	}

	var req dto.FeatureTripRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	view, err := h.admin.FeatureTrip(id, req.Featured)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(view)
}

// --- catalog management ---

func (h *AdminHandler) CreateCity(c *fiber.Ctx) error {
	var in dto.CityInput
	if err := parseBody(c, &in); err != nil {
		return httperr.Respond(c, err)
	}

	city, err := h.catalog.CreateCity(&in)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(city)
}

func (h *AdminHandler) UpdateCity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid city id"))
	}

	var in dto.CityInput
	if err := parseBody(c, &in); err != nil {
		return httperr.Respond(c, err)
	}

	city, err := h.catalog.UpdateCity(id, &in)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(city)
}

func (h *AdminHandler) DeleteCity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid city id"))
	}

	if err := h.catalog.DeleteCity(id); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "city deleted"})
}

func (h *AdminHandler) GetActivity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid activity id"))
	}

	activity, err := h.catalog.GetActivity(id)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(activity)
}

func (h *AdminHandler) CreateActivity(c *fiber.Ctx) error {
	var in dto.ActivityInput
	if err := parseBody(c, &in); err != nil {
		return httperr.Respond(c, err)
	}

	activity, err := h.catalog.CreateActivity(&in)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

func (h *AdminHandler) UpdateActivity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid activity id"))
	}

	var in dto.ActivityInput
	if err := parseBody(c, &in); err != nil {
		return httperr.Respond(c, err)
	}

	activity, err := h.catalog.UpdateActivity(id, &in)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(activity)
}

func (h *AdminHandler) DeleteActivity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid activity id"))
	}

	if err := h.catalog.DeleteActivity(id); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "activity deleted"})
}

func (h *AdminHandler) BulkDeleteCities(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"results": h.admin.BulkDeleteCities(req.IDs)})
}

func (h *AdminHandler) BulkDeleteActivities(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"results": h.admin.BulkDeleteActivities(req.IDs)})
}

// --- platform ---

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	resp, err := h.admin.Dashboard()
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.AdminHealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		DB:        dbStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *AdminHandler) Logs(c *fiber.Ctx) error {
	logs, err := h.admin.ListLogs(c.QueryInt("limit", 100), c.Query("level"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"logs": logs})
}

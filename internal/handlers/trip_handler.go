package handlers

import (
	"strconv"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/middleware"
	"github.com/globetrotterhq/globetrotter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TripHandler struct {
	trips *services.TripService
	media *services.MediaService
}

func NewTripHandler(trips *services.TripService, media *services.MediaService) *TripHandler {
	return &TripHandler{trips: trips, media: media}
}

// Create handles POST /trips (multipart, optional cover photo).
func (h *TripHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	input, err := buildCreateTripInput(c)
	if err != nil {
		return httperr.Respond(c, err)
	}
	if err := checkStruct(input); err != nil {
		return httperr.Respond(c, err)
	}

	var coverPath *string
	if file, ferr := c.FormFile("cover_photo"); ferr == nil && file != nil {
		path, err := h.media.Save(file, services.PurposeTripCover)
		if err != nil {
			return httperr.Respond(c, err)
		}
		coverPath = &path
	}

	view, err := h.trips.Create(userID, input, coverPath)
	if err != nil {
		if coverPath != nil {
			h.media.Remove(*coverPath)
		}
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *TripHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	limit := c.QueryInt("limit", 20)
	if limit < 0 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	resp, err := h.trips.List(userID, limit, offset, c.Query("status"), c.Query("q"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(resp)
}

func (h *TripHandler) Get(c *fiber.Ctx) error {
	tripID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid trip id"))
	}

	userID, _ := middleware.GetUserID(c)
	view, err := h.trips.Get(tripID, userID, middleware.GetUserRole(c), c.Query("share_token"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(view)
}

func (h *TripHandler) Update(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	var req dto.UpdateTripRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	view, err := h.trips.Update(tripID, userID, middleware.GetUserRole(c), &req)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(view)
}

func (h *TripHandler) Delete(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	if err := h.trips.Delete(tripID, userID, middleware.GetUserRole(c)); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "trip deleted"})
}

func (h *TripHandler) Share(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	resp, err := h.trips.Share(tripID, userID, middleware.GetUserRole(c))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(resp)
}

// GetShared handles GET /trips/shared/:token with no authentication.
func (h *TripHandler) GetShared(c *fiber.Ctx) error {
	view, err := h.trips.GetShared(c.Params("token"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(view)
}

func (h *TripHandler) Summary(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	summary, err := h.trips.Summary(tripID, userID, middleware.GetUserRole(c))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(summary)
}

func (h *TripHandler) CostBreakdown(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	breakdown, err := h.trips.CostBreakdown(tripID, userID, middleware.GetUserRole(c))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(breakdown)
}

func (h *TripHandler) ListCities(c *fiber.Ctx) error {
	tripID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid trip id"))
	}

	userID, _ := middleware.GetUserID(c)
	cities, err := h.trips.ListCities(tripID, userID, middleware.GetUserRole(c), c.Query("share_token"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"cities": cities})
}

func (h *TripHandler) AddCity(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	var req dto.AddCityRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	city, err := h.trips.AddCity(tripID, userID, middleware.GetUserRole(c), req.CityID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(city)
}

func (h *TripHandler) RemoveCity(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	cityID, err := uuid.Parse(c.Params("cityID"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid city id"))
	}

	if err := h.trips.RemoveCity(tripID, userID, middleware.GetUserRole(c), cityID); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "city removed"})
}

// --- helpers ---

func tripAndUser(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	tripID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, httperr.Validation("invalid trip id")
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, httperr.Unauthenticated("unauthorized")
	}
	return tripID, userID, nil
}

// buildCreateTripInput reads multipart form fields, or a JSON body when
// the client sends one. Only the multipart path can carry a cover photo.
func buildCreateTripInput(c *fiber.Ctx) (*dto.CreateTripInput, error) {
	if c.Is("json") {
		return createTripInputFromJSON(c)
	}

	input := &dto.CreateTripInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Destination: c.FormValue("destination"),
		Currency:    c.FormValue("currency"),
		TravelStyle: c.FormValue("travel_style"),
		Privacy:     c.FormValue("privacy"),
		GroupSize:   1,
	}

	var err error
	if input.StartDate, err = parseFormDate(c.FormValue("start_date")); err != nil {
		return nil, err
	}
	if input.EndDate, err = parseFormDate(c.FormValue("end_date")); err != nil {
		return nil, err
	}

	if raw := c.FormValue("budget"); raw != "" {
		b, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, httperr.Validation("budget must be a number")
		}
		input.Budget = &b
	}
	if raw := c.FormValue("group_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, httperr.Validation("group_size must be an integer")
		}
		input.GroupSize = n
	}
	return input, nil
}

func createTripInputFromJSON(c *fiber.Ctx) (*dto.CreateTripInput, error) {
	var req dto.CreateTripRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, httperr.Validation("invalid request body")
	}

	input := &dto.CreateTripInput{
		Title:       req.Title,
		Description: req.Description,
		Destination: req.Destination,
		Budget:      req.Budget,
		Currency:    req.Currency,
		TravelStyle: req.TravelStyle,
		Privacy:     req.Privacy,
		GroupSize:   req.GroupSize,
	}
	if input.GroupSize == 0 {
		input.GroupSize = 1
	}

	var err error
	if input.StartDate, err = parseFormDate(req.StartDate); err != nil {
		return nil, err
	}
	if input.EndDate, err = parseFormDate(req.EndDate); err != nil {
		return nil, err
	}
	return input, nil
}

func parseFormDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, httperr.Validation("dates must use the YYYY-MM-DD format")
	}
	d = d.UTC()
	return &d, nil
}

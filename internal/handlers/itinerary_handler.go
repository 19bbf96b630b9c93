package handlers

import (
	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/middleware"
	"github.com/globetrotterhq/globetrotter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ItineraryHandler struct {
	itinerary *services.ItineraryService
}

func NewItineraryHandler(itinerary *services.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{itinerary: itinerary}
}

// List handles GET /trips/:id/itinerary, ordered by order_index.
func (h *ItineraryHandler) List(c *fiber.Ctx) error {
	tripID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid trip id"))
	}

	userID, _ := middleware.GetUserID(c)
	items, err := h.itinerary.List(tripID, userID, middleware.GetUserRole(c), c.Query("share_token"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// Create handles POST /trips/:id/itinerary, appending at the end.
func (h *ItineraryHandler) Create(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	var req dto.CreateItemRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	item, err := h.itinerary.Insert(tripID, userID, middleware.GetUserRole(c), &req)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update handles PUT /itinerary/:itemId.
func (h *ItineraryHandler) Update(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid item id"))
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	var req dto.UpdateItemRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	item, err := h.itinerary.Update(itemID, userID, middleware.GetUserRole(c), &req)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(item)
}

// Delete handles DELETE /itinerary/:itemId.
func (h *ItineraryHandler) Delete(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return httperr.Respond(c, httperr.Validation("invalid item id"))
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	if err := h.itinerary.Delete(itemID, userID, middleware.GetUserRole(c)); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "item deleted"})
}

// Reorder handles PUT /trips/:id/itinerary/reorder. The payload must be a
// complete permutation of the trip's item ids.
func (h *ItineraryHandler) Reorder(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	var req dto.ReorderRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	items, err := h.itinerary.Reorder(tripID, userID, middleware.GetUserRole(c), req.Order)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// AddFromActivity handles POST /trips/:id/itinerary/from-activity.
func (h *ItineraryHandler) AddFromActivity(c *fiber.Ctx) error {
	tripID, userID, err := tripAndUser(c)
	if err != nil {
		return httperr.Respond(c, err)
	}

	var req dto.AddFromActivityRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	item, err := h.itinerary.AddFromActivity(tripID, userID, middleware.GetUserRole(c), &req)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

package services

import (
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/google/uuid"
)

// validatePermutation checks that proposed lists every existing id exactly
// once. Partial or foreign reorders are rejected before any write.
func validatePermutation(existing, proposed []uuid.UUID) error {
	if len(proposed) != len(existing) {
		return httperr.Conflict("reorder must list every itinerary item exactly once")
	}

	known := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		known[id] = false
	}
	for _, id := range proposed {
		seen, ok := known[id]
		if !ok {
			return httperr.Conflict("reorder references an unknown itinerary item")
		}
		if seen {
			return httperr.Conflict("reorder lists an itinerary item twice")
		}
		known[id] = true
	}
	return nil
}

// resequenced returns the 0-based index for each id in order.
func resequenced(order []uuid.UUID) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(order))
	for i, id := range order {
		out[id] = i
	}
	return out
}

package realtime

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds published on the bus.
const (
	EventTripCreated      = "trip.created"
	EventTripUpdated      = "trip.updated"
	EventTripDeleted      = "trip.deleted"
	EventItineraryAdd     = "itinerary.add"
	EventItineraryUpdate  = "itinerary.update"
	EventItineraryDelete  = "itinerary.delete"
	EventItineraryReorder = "itinerary.reorder"
)

// Event describes a committed mutation of a trip or its itinerary.
// Delivery is at-least-once; clients dedupe on EventID.
type Event struct {
	EventID         uuid.UUID   `json:"event_id"`
	Kind            string      `json:"kind"`
	TripID          uuid.UUID   `json:"trip_id"`
	ActorUserID     uuid.UUID   `json:"actor_user_id"`
	ServerTimestamp time.Time   `json:"server_timestamp"`
	Payload         interface{} `json:"payload,omitempty"`
}

func NewEvent(kind string, tripID, actorID uuid.UUID, payload interface{}) Event {
	return Event{
		EventID:         uuid.New(),
		Kind:            kind,
		TripID:          tripID,
		ActorUserID:     actorID,
		ServerTimestamp: time.Now().UTC(),
		Payload:         payload,
	}
}

// Publisher is the sink services address after a successful commit.
type Publisher interface {
	Publish(evt Event)
}

// NopPublisher drops events; used in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary item categories.
var ItemCategories = []string{"flight", "hotel", "restaurant", "activity", "transport", "other"}

// ItineraryItem is a single entry in a trip's ordered itinerary.
// OrderIndex is contiguous 0..N-1 per trip; the itinerary service owns
// resequencing and no other writer touches it.
type ItineraryItem struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TripID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"trip_id"`
	Category         string     `gorm:"size:20;not null" json:"category"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	Location         string     `gorm:"size:255" json:"location"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	Cost             *float64   `gorm:"type:numeric(14,2)" json:"cost"`
	Notes            string     `gorm:"type:text" json:"notes"`
	BookingReference string     `gorm:"size:100" json:"booking_reference"`
	OrderIndex       int        `gorm:"not null;default:0;index" json:"order_index"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func ValidItemCategory(c string) bool {
	for _, v := range ItemCategories {
		if v == c {
			return true
		}
	}
	return false
}

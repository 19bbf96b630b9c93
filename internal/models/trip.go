package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip statuses. Only StatusCompleted is ever stored explicitly; the rest
// are derived from the trip dates at read time.
const (
	StatusPlanning   = "planning"
	StatusUpcoming   = "upcoming"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

var (
	Currencies   = []string{"INR", "USD", "EUR", "GBP", "AED"}
	TravelStyles = []string{"budget", "leisure", "luxury", "adventure", "cultural"}
)

// Trip is a user-owned travel plan with an ordered itinerary.
// TotalCost, ItemCount and CityCount are rollups cached by the itinerary
// and trip-city transactions; they are never computed at read time.
type Trip struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Destination    string         `gorm:"size:255" json:"destination"`
	StartDate      *time.Time     `gorm:"type:date" json:"start_date"`
	EndDate        *time.Time     `gorm:"type:date" json:"end_date"`
	Budget         *float64       `gorm:"type:numeric(14,2)" json:"budget"`
	Currency       string         `gorm:"size:3;default:'USD'" json:"currency"`
	TravelStyle    string         `gorm:"size:20;default:'leisure'" json:"travel_style"`
	GroupSize      int            `gorm:"default:1" json:"group_size"`
	Privacy        string         `gorm:"size:10;default:'private'" json:"privacy"`
	CoverPhotoPath *string        `gorm:"size:500" json:"cover_photo_path"`
	Status         string         `gorm:"size:20;default:'planning'" json:"-"`
	ShareToken     *string        `gorm:"size:64;uniqueIndex" json:"-"`
	Featured       bool           `gorm:"default:false" json:"featured"`
	TotalCost      float64        `gorm:"type:numeric(14,2);default:0" json:"total_cost"`
	ItemCount      int            `gorm:"default:0" json:"item_count"`
	CityCount      int            `gorm:"default:0" json:"city_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Owner  User            `gorm:"foreignKey:OwnerID" json:"-"`
	Items  []ItineraryItem `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"-"`
	Cities []TripCity      `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"-"`
}

func ValidCurrency(c string) bool    { return containsString(Currencies, c) }
func ValidTravelStyle(s string) bool { return containsString(TravelStyles, s) }
func ValidPrivacy(p string) bool     { return p == PrivacyPublic || p == PrivacyPrivate }

func containsString(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

// TripCity links a trip to a catalog city. ArrivalOrder stays contiguous
// 0..N-1 per trip.
type TripCity struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TripID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_trip_city" json:"trip_id"`
	CityID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trip_city" json:"city_id"`
	ArrivalOrder int       `gorm:"not null;default:0" json:"arrival_order"`
	CreatedAt    time.Time `json:"created_at"`

	City City `gorm:"foreignKey:CityID" json:"city"`
}

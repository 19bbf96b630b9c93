package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity categories in the curated catalog.
var ActivityCategories = []string{"sightseeing", "food", "adventure", "culture", "nightlife", "shopping"}

// City is a curated catalog entry. Admin-managed; users only read.
type City struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null;index" json:"name"`
	Country         string    `gorm:"size:255;not null;index" json:"country"`
	Description     string    `gorm:"type:text" json:"description"`
	ImageURL        string    `gorm:"size:500" json:"image_url"`
	CostIndex       int       `gorm:"default:5" json:"cost_index"`
	PopularityScore float64   `gorm:"default:0;index" json:"popularity_score"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Activity is a catalog activity, optionally attached to a city.
type Activity struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CityID          *uuid.UUID `gorm:"type:uuid;index" json:"city_id"`
	Name            string     `gorm:"size:255;not null;index" json:"name"`
	Category        string     `gorm:"size:20;not null;index" json:"category"`
	Description     string     `gorm:"type:text" json:"description"`
	CostMin         float64    `gorm:"type:numeric(14,2);default:0" json:"cost_min"`
	CostMax         float64    `gorm:"type:numeric(14,2);default:0" json:"cost_max"`
	Rating          float64    `gorm:"default:0" json:"rating"`
	DurationHours   float64    `gorm:"default:1" json:"duration_hours"`
	PopularityScore float64    `gorm:"default:0;index" json:"popularity_score"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	City *City `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

func ValidActivityCategory(c string) bool {
	for _, v := range ActivityCategories {
		if v == c {
			return true
		}
	}
	return false
}

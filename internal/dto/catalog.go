package dto

import "github.com/google/uuid"

type CityInput struct {
	Name            string  `json:"name" validate:"required"`
	Country         string  `json:"country" validate:"required"`
	Description     string  `json:"description"`
	ImageURL        string  `json:"image_url"`
	CostIndex       int     `json:"cost_index" validate:"omitempty,gte=1,lte=10"`
	PopularityScore float64 `json:"popularity_score" validate:"omitempty,gte=0"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}

type ActivityInput struct {
	CityID          *uuid.UUID `json:"city_id"`
	Name            string     `json:"name" validate:"required"`
	Category        string     `json:"category" validate:"required,oneof=sightseeing food adventure culture nightlife shopping"`
	Description     string     `json:"description"`
	CostMin         float64    `json:"cost_min" validate:"gte=0"`
	CostMax         float64    `json:"cost_max" validate:"gtefield=CostMin"`
	Rating          float64    `json:"rating" validate:"gte=0,lte=5"`
	DurationHours   float64    `json:"duration_hours" validate:"omitempty,gt=0"`
	PopularityScore float64    `json:"popularity_score" validate:"omitempty,gte=0"`
}

type CountryCount struct {
	Country string `json:"country"`
	Cities  int64  `json:"cities"`
}

type ActivityFilters struct {
	Category  string
	CostMin   *float64
	CostMax   *float64
	MinRating *float64
	Limit     int
}

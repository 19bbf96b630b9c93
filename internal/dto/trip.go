package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTripInput is assembled by the handler from multipart form fields.
type CreateTripInput struct {
	Title       string     `validate:"required"`
	Description string
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *float64 `validate:"omitempty,gte=0"`
	Currency    string   `validate:"omitempty,oneof=INR USD EUR GBP AED"`
	TravelStyle string   `validate:"omitempty,oneof=budget leisure luxury adventure cultural"`
	GroupSize   int      `validate:"omitempty,gte=1"`
	Privacy     string   `validate:"omitempty,oneof=public private"`
}

// CreateTripRequest is the JSON rendering of trip creation; dates arrive
// as YYYY-MM-DD strings. Validation runs on the assembled CreateTripInput.
type CreateTripRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Budget      *float64 `json:"budget"`
	Currency    string   `json:"currency"`
	TravelStyle string   `json:"travel_style"`
	GroupSize   int      `json:"group_size"`
	Privacy     string   `json:"privacy"`
}

type UpdateTripRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Destination *string  `json:"destination"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Budget      *float64 `json:"budget" validate:"omitempty,gte=0"`
	Currency    *string  `json:"currency" validate:"omitempty,oneof=INR USD EUR GBP AED"`
	TravelStyle *string  `json:"travel_style" validate:"omitempty,oneof=budget leisure luxury adventure cultural"`
	GroupSize   *int     `json:"group_size" validate:"omitempty,gte=1"`
	Privacy     *string  `json:"privacy" validate:"omitempty,oneof=public private"`
	Status      *string  `json:"status" validate:"omitempty,oneof=planning upcoming in-progress completed"`
}

// TripView is the client-facing trip shape with the derived status.
type TripView struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Destination    string     `json:"destination"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Budget         *float64   `json:"budget"`
	Currency       string     `json:"currency"`
	TravelStyle    string     `json:"travel_style"`
	GroupSize      int        `json:"group_size"`
	Privacy        string     `json:"privacy"`
	CoverPhotoPath *string    `json:"cover_photo_path"`
	Status         string     `json:"status"`
	Featured       bool       `json:"featured"`
	TotalCost      float64    `json:"total_cost"`
	ItemCount      int        `json:"item_count"`
	CityCount      int        `json:"city_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type TripListResponse struct {
	Trips  []TripView `json:"trips"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type ShareResponse struct {
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url"`
}

type TripSummary struct {
	Cities          int            `json:"cities"`
	Items           int            `json:"items"`
	ItemsByCategory map[string]int `json:"items_by_category"`
	Total           float64        `json:"total"`
}

type AddCityRequest struct {
	CityID uuid.UUID `json:"city_id" validate:"required"`
}

package dto

import "github.com/google/uuid"

type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
}

type FeatureTripRequest struct {
	Featured bool `json:"featured"`
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// BulkResult reports a per-entity outcome of an admin bulk operation.
// Bulk operations are not transactional; failures partially apply.
type BulkResult struct {
	ID    uuid.UUID `json:"id"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

type DashboardResponse struct {
	TotalUsers          int64              `json:"total_users"`
	TotalTrips          int64              `json:"total_trips"`
	TotalCities         int64              `json:"total_cities"`
	TotalActivities     int64              `json:"total_activities"`
	PopularDestinations []DestinationCount `json:"popular_destinations"`
	UserGrowth          []UserGrowthBucket `json:"user_growth"`
}

type AdminHealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	DB        string `json:"db"`
	Timestamp string `json:"timestamp"`
}

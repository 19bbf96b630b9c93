package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateItemRequest struct {
	Category         string     `json:"category" validate:"required,oneof=flight hotel restaurant activity transport other"`
	Title            string     `json:"title" validate:"required"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	Cost             *float64   `json:"cost" validate:"omitempty,gte=0"`
	Notes            string     `json:"notes"`
	BookingReference string     `json:"booking_reference"`
}

type UpdateItemRequest struct {
	Category         *string    `json:"category" validate:"omitempty,oneof=flight hotel restaurant activity transport other"`
	Title            *string    `json:"title" validate:"omitempty,min=1"`
	Description      *string    `json:"description"`
	Location         *string    `json:"location"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	Cost             *float64   `json:"cost" validate:"omitempty,gte=0"`
	Notes            *string    `json:"notes"`
	BookingReference *string    `json:"booking_reference"`
}

// ReorderRequest must list every item id of the trip exactly once.
type ReorderRequest struct {
	Order []uuid.UUID `json:"order" validate:"required,min=1"`
}

type AddFromActivityRequest struct {
	ActivityID uuid.UUID  `json:"activity_id" validate:"required"`
	Title      *string    `json:"title"`
	Cost       *float64   `json:"cost" validate:"omitempty,gte=0"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	Notes      *string    `json:"notes"`
}

package services

import (
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/models"
)

// DeriveStatus is the canonical status rule. An explicit "completed" wins;
// otherwise the status follows the trip dates relative to now:
// no start date -> planning, before start -> upcoming, between start and
// end -> in-progress (open-ended when no end date), past end -> completed.
// Dates compare at day granularity in UTC.
func DeriveStatus(trip *models.Trip, now time.Time) string {
	if trip.Status == models.StatusCompleted {
		return models.StatusCompleted
	}
	if trip.StartDate == nil {
		return models.StatusPlanning
	}

	today := truncateToDay(now)
	start := truncateToDay(*trip.StartDate)
	if today.Before(start) {
		return models.StatusUpcoming
	}
	if trip.EndDate != nil {
		end := truncateToDay(*trip.EndDate)
		if today.After(end) {
			return models.StatusCompleted
		}
	}
	return models.StatusInProgress
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

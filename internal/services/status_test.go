package services

import (
	"testing"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name string
		trip models.Trip
		want string
	}{
		{
			name: "explicit completed wins over dates",
			trip: models.Trip{Status: models.StatusCompleted, StartDate: date(2025, 7, 1), EndDate: date(2025, 7, 10)},
			want: models.StatusCompleted,
		},
		{
			name: "no start date is planning",
			trip: models.Trip{},
			want: models.StatusPlanning,
		},
		{
			name: "before start is upcoming",
			trip: models.Trip{StartDate: date(2025, 6, 16)},
			want: models.StatusUpcoming,
		},
		{
			name: "starts today is in progress",
			trip: models.Trip{StartDate: date(2025, 6, 15), EndDate: date(2025, 6, 20)},
			want: models.StatusInProgress,
		},
		{
			name: "ends today is still in progress",
			trip: models.Trip{StartDate: date(2025, 6, 10), EndDate: date(2025, 6, 15)},
			want: models.StatusInProgress,
		},
		{
			name: "past end is completed",
			trip: models.Trip{StartDate: date(2025, 6, 1), EndDate: date(2025, 6, 14)},
			want: models.StatusCompleted,
		},
		{
			name: "started with no end is open-ended in progress",
			trip: models.Trip{StartDate: date(2025, 6, 1)},
			want: models.StatusInProgress,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStatus(&tc.trip, now); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveStatusDayGranularity(t *testing.T) {
	// 23:59 on the start day already counts as started.
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	trip := models.Trip{StartDate: date(2025, 6, 15)}
	if got := DeriveStatus(&trip, now); got != models.StatusInProgress {
		t.Errorf("got %q, want %q", got, models.StatusInProgress)
	}
}

package services

import (
	"testing"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestSplitDestination(t *testing.T) {
	testCases := []struct {
		in      string
		city    string
		country string
	}{
		{"Kyoto, Japan", "Kyoto", "Japan"},
		{"Paris", "Paris", ""},
		{"San Juan, Puerto Rico, USA", "San Juan", "USA"},
		{"  Lisbon ,  Portugal ", "Lisbon", "Portugal"},
		{"", "", ""},
		{",", "", ""},
	}

	for _, tc := range testCases {
		city, country := splitDestination(tc.in)
		if city != tc.city || country != tc.country {
			t.Errorf("splitDestination(%q) = (%q, %q), want (%q, %q)", tc.in, city, country, tc.city, tc.country)
		}
	}
}

func TestSeasonOf(t *testing.T) {
	testCases := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "spring"},
		{time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC), "winter"},
		{time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), "spring"},
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "summer"},
		{time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), "summer"},
		{time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), "fall"},
		{time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), "fall"},
		{time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "winter"},
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "winter"},
	}

	for _, tc := range testCases {
		if got := seasonOf(tc.t); got != tc.want {
			t.Errorf("seasonOf(%s) = %q, want %q", tc.t.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestMonthKey(t *testing.T) {
	// An instant just before UTC midnight in a western zone still buckets
	// by its UTC month.
	loc := time.FixedZone("UTC-5", -5*3600)
	local := time.Date(2025, 1, 31, 20, 0, 0, 0, loc)
	if got := monthKey(local); got != "2025-02" {
		t.Errorf("monthKey = %q, want 2025-02", got)
	}
}

func TestLastNMonths(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	got := lastNMonths(now, 4)
	want := []string{"2024-12", "2025-01", "2025-02", "2025-03"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lastNMonths mismatch (-want +got):\n%s", diff)
	}
}

func TestLastNMonthsYearSpan(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got := lastNMonths(now, 12)
	if len(got) != 12 {
		t.Fatalf("len = %d, want 12", len(got))
	}
	if got[0] != "2024-07" || got[11] != "2025-06" {
		t.Errorf("range = [%s .. %s], want [2024-07 .. 2025-06]", got[0], got[11])
	}
}

func TestTripSpendBudgetFallback(t *testing.T) {
	tripID := uuid.New()
	budget := 1200.0
	costs := map[uuid.UUID]float64{tripID: 450}

	withBudget := models.Trip{ID: tripID, Budget: &budget}
	if got := tripSpend(&withBudget, costs); got != 1200 {
		t.Errorf("budgeted trip spend = %v, want 1200", got)
	}

	withoutBudget := models.Trip{ID: tripID}
	if got := tripSpend(&withoutBudget, costs); got != 450 {
		t.Errorf("unbudgeted trip spend = %v, want 450 (summed item costs)", got)
	}

	unknown := models.Trip{ID: uuid.New()}
	if got := tripSpend(&unknown, costs); got != 0 {
		t.Errorf("trip with no items spend = %v, want 0", got)
	}
}

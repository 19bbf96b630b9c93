package services

import (
	"testing"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/globetrotterhq/globetrotter-backend/internal/realtime"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func fl(v float64) *float64 { return &v }

func TestCostBreakdown(t *testing.T) {
	items := []models.ItineraryItem{
		{Category: "flight", Cost: fl(500)},
		{Category: "hotel", Cost: fl(300)},
		{Category: "hotel", Cost: fl(150)},
		{Category: "restaurant", Cost: fl(50)},
		{Category: "activity"}, // no cost recorded
	}

	got := CostBreakdown(items)

	want := map[string]float64{
		"flight":     500,
		"hotel":      450,
		"restaurant": 50,
		"activity":   0,
		"transport":  0,
		"other":      0,
		"total":      1000,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestCostBreakdownEmpty(t *testing.T) {
	got := CostBreakdown(nil)
	if got["total"] != 0 {
		t.Errorf("total = %v, want 0", got["total"])
	}
	for _, c := range models.ItemCategories {
		if _, ok := got[c]; !ok {
			t.Errorf("category %q missing from empty breakdown", c)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	start := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 17, 0, 0, 0, 0, time.UTC)

	if err := validateDateRange(&start, &end); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := validateDateRange(&start, &start); err != nil {
		t.Errorf("single-day trip rejected: %v", err)
	}
	if err := validateDateRange(nil, &end); err != nil {
		t.Errorf("open start rejected: %v", err)
	}
	if err := validateDateRange(&end, &start); err == nil {
		t.Error("end before start accepted")
	} else if httperr.KindOf(err) != httperr.KindValidation {
		t.Errorf("kind = %q, want validation", httperr.KindOf(err))
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-04-10")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if d == nil || !d.Equal(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("parsed %v, want 2025-04-10 UTC", d)
	}

	if d, err := parseDate(""); err != nil || d != nil {
		t.Errorf("empty string should parse to nil, got (%v, %v)", d, err)
	}

	for _, bad := range []string{"10-04-2025", "2025/04/10", "yesterday"} {
		if _, err := parseDate(bad); err == nil {
			t.Errorf("parseDate(%q) accepted", bad)
		}
	}
}

// Rotating a share link notifies subscribers that the old link died, but
// the event must not carry the replacement token.
func TestShareRotatedEvent(t *testing.T) {
	tripID, actor := uuid.New(), uuid.New()
	evt := shareRotatedEvent(tripID, actor)

	if evt.Kind != realtime.EventTripUpdated {
		t.Errorf("kind = %q, want %q", evt.Kind, realtime.EventTripUpdated)
	}
	if evt.TripID != tripID || evt.ActorUserID != actor {
		t.Errorf("event addressed wrong: %+v", evt)
	}

	payload, ok := evt.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("payload type = %T, want map", evt.Payload)
	}
	if payload["share_token"] != "rotated" {
		t.Errorf("payload = %v, want the field name marked rotated", payload)
	}
}

func TestGenerateShareToken(t *testing.T) {
	t1, err := generateShareToken()
	if err != nil {
		t.Fatal(err)
	}
	t2, err := generateShareToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(t1) != 32 {
		t.Errorf("token length = %d, want 32 hex chars", len(t1))
	}
	if t1 == t2 {
		t.Error("two tokens are identical")
	}
}

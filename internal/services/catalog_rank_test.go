package services

import (
	"testing"

	"github.com/globetrotterhq/globetrotter-backend/internal/models"
)

func TestMatchPosition(t *testing.T) {
	testCases := []struct {
		name   string
		query  string
		fields []string
		want   int
	}{
		{"empty query matches at zero", "", []string{"Paris"}, 0},
		{"prefix match", "par", []string{"Paris", "France"}, 0},
		{"case insensitive", "PARIS", []string{"paris"}, 0},
		{"mid-string match", "ris", []string{"Paris"}, 2},
		{"earliest field wins", "an", []string{"Milan", "France"}, 2},
		{"no match", "tokyo", []string{"Paris", "France"}, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchPosition(tc.query, tc.fields...); got != tc.want {
				t.Errorf("matchPosition(%q, %v) = %d, want %d", tc.query, tc.fields, got, tc.want)
			}
		})
	}
}

func TestRankCities(t *testing.T) {
	cities := []models.City{
		{Name: "Madrid", Country: "Spain", PopularityScore: 99},
		{Name: "Sapporo", Country: "Japan", PopularityScore: 90},
		{Name: "Port Louis", Country: "Mauritius", PopularityScore: 40},
		{Name: "Porto", Country: "PT", PopularityScore: 50},
	}

	rankCities(cities, "por")

	// "Porto" and "Port Louis" match at 0, tie broken by popularity;
	// "Sapporo" matches at 3; "Madrid" does not match and sorts last.
	wantOrder := []string{"Porto", "Port Louis", "Sapporo", "Madrid"}
	for i, want := range wantOrder {
		if cities[i].Name != want {
			t.Errorf("position %d = %q, want %q", i, cities[i].Name, want)
		}
	}
}

func TestRankCitiesNoQueryFallsBackToPopularity(t *testing.T) {
	cities := []models.City{
		{Name: "B", PopularityScore: 10},
		{Name: "A", PopularityScore: 90},
	}
	rankCities(cities, "")
	if cities[0].Name != "A" {
		t.Errorf("first = %q, want the more popular city", cities[0].Name)
	}
}

func TestRankActivitiesNonMatchesLast(t *testing.T) {
	activities := []models.Activity{
		{Name: "Harbor cruise", Description: "tour the bay by boat", Rating: 4.9},
		{Name: "Sushi class", Description: "make rolls", Rating: 4.2},
		{Name: "Boat rental", Description: "self-drive", Rating: 3.8},
	}

	rankActivities(activities, "boat")

	if activities[0].Name != "Boat rental" {
		t.Errorf("first = %q, want Boat rental (match at 0)", activities[0].Name)
	}
	if activities[2].Name != "Sushi class" {
		t.Errorf("last = %q, want the non-matching activity", activities[2].Name)
	}
}

func TestBetterPosition(t *testing.T) {
	if !betterPosition(0, 5) {
		t.Error("earlier match should rank higher")
	}
	if betterPosition(-1, 3) {
		t.Error("non-match should not beat a match")
	}
	if !betterPosition(3, -1) {
		t.Error("match should beat a non-match")
	}
}

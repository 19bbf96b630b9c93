package models

import "testing"

func TestValidCurrency(t *testing.T) {
	for _, c := range Currencies {
		if !ValidCurrency(c) {
			t.Errorf("supported currency %q rejected", c)
		}
	}
	for _, c := range []string{"usd", "JPY", ""} {
		if ValidCurrency(c) {
			t.Errorf("currency %q accepted", c)
		}
	}
}

func TestValidTravelStyle(t *testing.T) {
	if !ValidTravelStyle("leisure") {
		t.Error("leisure rejected")
	}
	if ValidTravelStyle("business") {
		t.Error("unknown style accepted")
	}
}

func TestValidPrivacy(t *testing.T) {
	if !ValidPrivacy(PrivacyPublic) || !ValidPrivacy(PrivacyPrivate) {
		t.Error("known privacy value rejected")
	}
	if ValidPrivacy("friends-only") {
		t.Error("unknown privacy value accepted")
	}
}

func TestValidItemCategory(t *testing.T) {
	for _, c := range ItemCategories {
		if !ValidItemCategory(c) {
			t.Errorf("category %q rejected", c)
		}
	}
	if ValidItemCategory("spa") {
		t.Error("unknown category accepted")
	}
}

func TestValidActivityCategory(t *testing.T) {
	if !ValidActivityCategory("sightseeing") {
		t.Error("sightseeing rejected")
	}
	if ValidActivityCategory("flight") {
		t.Error("itinerary category accepted as activity category")
	}
}

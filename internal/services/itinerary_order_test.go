package services

import (
	"testing"

	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/google/uuid"
)

func TestValidatePermutation(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	existing := []uuid.UUID{a, b, c}

	testCases := []struct {
		name     string
		proposed []uuid.UUID
		ok       bool
	}{
		{"identity", []uuid.UUID{a, b, c}, true},
		{"reversed", []uuid.UUID{c, b, a}, true},
		{"too short", []uuid.UUID{a, b}, false},
		{"too long", []uuid.UUID{a, b, c, c}, false},
		{"unknown id", []uuid.UUID{a, b, uuid.New()}, false},
		{"duplicate id", []uuid.UUID{a, a, b}, false},
		{"empty against non-empty", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePermutation(existing, tc.proposed)
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if httperr.KindOf(err) != httperr.KindConflict {
					t.Errorf("kind = %q, want conflict", httperr.KindOf(err))
				}
			}
		})
	}
}

func TestValidatePermutationEmpty(t *testing.T) {
	if err := validatePermutation(nil, nil); err != nil {
		t.Errorf("empty-on-empty should pass: %v", err)
	}
}

func TestResequenced(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	got := resequenced([]uuid.UUID{c, a, b})

	want := map[uuid.UUID]int{c: 0, a: 1, b: 2}
	for id, idx := range want {
		if got[id] != idx {
			t.Errorf("index of %s = %d, want %d", id, got[id], idx)
		}
	}
}

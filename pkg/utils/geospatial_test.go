package utils

import "testing"

func TestHaversineDistance(t *testing.T) {
	if d := HaversineDistance(-23.5505, -46.6333, -23.5505, -46.6333); d != 0 {
		t.Errorf("distance to self = %v km, want 0", d)
	}

	// São Paulo to Rio de Janeiro, roughly 360 km as the crow flies
	d := HaversineDistance(-23.5505, -46.6333, -22.9068, -43.1729)
	if d < 355 || d > 365 {
		t.Errorf("São Paulo-Rio distance = %v km, want ~360", d)
	}

	// Symmetric in its arguments
	back := HaversineDistance(-22.9068, -43.1729, -23.5505, -46.6333)
	if d != back {
		t.Errorf("distance not symmetric: %v vs %v", d, back)
	}
}

func TestIsValidCoordinate(t *testing.T) {
	cases := []struct {
		lat, lng float64
		valid    bool
	}{
		{0, 0, true},
		{-23.5505, -46.6333, true},
		{90, 180, true},
		{-90, -180, true},
		{95, 0, false},
		{-91, 0, false},
		{0, 181, false},
		{0, -180.5, false},
	}

	for _, tc := range cases {
		if got := IsValidCoordinate(tc.lat, tc.lng); got != tc.valid {
			t.Errorf("IsValidCoordinate(%v, %v) = %v, want %v", tc.lat, tc.lng, got, tc.valid)
		}
	}
}

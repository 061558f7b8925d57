package track

import (
	"math"
	"testing"
)

func TestDistance_CoincidentPoints(t *testing.T) {
	d := Distance(43.238949, 76.889709, 43.238949, 76.889709)
	if d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistance_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{51.5074, -0.1278, 48.8566, 2.3522},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{0, 0, 0, 180},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-6 {
			t.Fatalf("distance not symmetric: %f vs %f for %v", ab, ba, p)
		}
	}
}

func TestDistance_NonNegative(t *testing.T) {
	if d := Distance(89.9, 179.9, -89.9, -179.9); d < 0 {
		t.Fatalf("distance must be non-negative, got %f", d)
	}
}

func TestDistance_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude along a meridian is R * pi/180.
	want := earthRadiusMeters * math.Pi / 180
	got := Distance(10, 25, 11, 25)
	if math.Abs(got-want) > 1 {
		t.Fatalf("unexpected meridian distance: got %f want %f", got, want)
	}
}

func TestDistance_KnownCityPair(t *testing.T) {
	// London to Paris, roughly 343-344 km great-circle.
	got := Distance(51.5074, -0.1278, 48.8566, 2.3522)
	if got < 340_000 || got > 348_000 {
		t.Fatalf("London-Paris distance out of range: %f", got)
	}
}

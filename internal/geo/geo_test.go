package geo

import (
	"math"
	"testing"

	"github.com/sardrift/driftsim/internal/models"
)

func TestDestinationHaversineRoundTrip(t *testing.T) {
	p := models.LatLng{Lat: 29.30, Lng: -94.80}
	cases := []struct {
		distKm, brg float64
	}{
		{10, 0}, {25, 45}, {50, 90}, {75, 180}, {99, 270},
	}
	for _, c := range cases {
		dest := Destination(p, c.distKm, c.brg)
		got := Haversine(p, dest)
		if math.Abs(got-c.distKm) > 1e-6 {
			t.Errorf("dist=%v brg=%v: round trip got %v, want %v", c.distKm, c.brg, got, c.distKm)
		}
	}
}

func TestHaversineZero(t *testing.T) {
	p := models.LatLng{Lat: 10, Lng: 20}
	if d := Haversine(p, p); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestBoundingBoxOfEmpty(t *testing.T) {
	bb := BoundingBoxOf(nil)
	if bb != (BoundingBox{}) {
		t.Errorf("expected zero value, got %+v", bb)
	}
}

func TestKnotsToKmh(t *testing.T) {
	if got := KnotsToKmh(10); math.Abs(got-18.52) > 1e-9 {
		t.Errorf("expected 18.52, got %v", got)
	}
	if got := KmhToKnots(KnotsToKmh(10)); math.Abs(got-10) > 1e-9 {
		t.Errorf("round trip expected 10, got %v", got)
	}
}

func TestFlatOffsetDegNoCorrection(t *testing.T) {
	dLat, dLng := FlatOffsetDeg(111.32, 111.32, 45, false)
	if math.Abs(dLat-1) > 1e-9 || math.Abs(dLng-1) > 1e-9 {
		t.Errorf("expected (1,1), got (%v,%v)", dLat, dLng)
	}
}

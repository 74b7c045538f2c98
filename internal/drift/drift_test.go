package drift

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sardrift/driftsim/internal/models"
)

func TestWindZeroSpeed(t *testing.T) {
	dLat, dLng := Wind(models.Wind{SpeedKn: 0, DirDeg: 90}, 1, WindFactor, false, 29.3)
	if dLat != 0 || dLng != 0 {
		t.Errorf("expected zero displacement, got (%v,%v)", dLat, dLng)
	}
}

func TestLeewayUnknownTypeDefaultsToPersonInWater(t *testing.T) {
	got := LeewayParamsFor("unknown-thing")
	want := LeewayParamsFor(models.ObjectPersonInWater)
	if got != want {
		t.Errorf("expected default leeway params, got %+v want %+v", got, want)
	}
}

func TestDiffusionZeroDt(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dLat, dLng := Diffusion(0, rng, false, 0)
	if dLat != 0 || dLng != 0 {
		t.Errorf("zero dt should produce zero displacement, got (%v,%v)", dLat, dLng)
	}
}

func TestDirOffsetConvention(t *testing.T) {
	// dir 0 (north) should move purely in latitude.
	dLat, dLng := Wind(models.Wind{SpeedKn: 10, DirDeg: 0}, 1, 1.0, false, 0)
	if dLat <= 0 {
		t.Errorf("expected positive dLat for northward wind, got %v", dLat)
	}
	if math.Abs(dLng) > 1e-9 {
		t.Errorf("expected ~zero dLng for northward wind, got %v", dLng)
	}
}

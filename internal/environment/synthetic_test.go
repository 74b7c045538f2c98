package environment

import (
	"testing"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

func TestAdvanceClampsWindSpeed(t *testing.T) {
	base := models.EnvironmentalSnapshot{Wind: models.Wind{SpeedKn: 39.7, DirDeg: 0}}
	p := NewSyntheticProvider(base, 1)
	for i := 0; i < 1000; i++ {
		p.Advance(time.Now())
		snap := p.ConditionsAt(models.LatLng{}, time.Now())
		if snap.Wind.SpeedKn < 0 || snap.Wind.SpeedKn > 40 {
			t.Fatalf("wind speed left [0,40]: %v", snap.Wind.SpeedKn)
		}
	}
}

func TestAdvanceKeepsDirectionInRange(t *testing.T) {
	base := models.EnvironmentalSnapshot{Wind: models.Wind{SpeedKn: 10, DirDeg: 358}}
	p := NewSyntheticProvider(base, 2)
	for i := 0; i < 100; i++ {
		p.Advance(time.Now())
	}
	snap := p.ConditionsAt(models.LatLng{}, time.Now())
	if snap.Wind.DirDeg < 0 || snap.Wind.DirDeg >= 360 {
		t.Errorf("wind direction out of [0,360): %v", snap.Wind.DirDeg)
	}
}

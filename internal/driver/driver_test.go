package driver

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

type zeroEnv struct{}

func (zeroEnv) ConditionsAt(p models.LatLng, t time.Time) models.EnvironmentalSnapshot {
	return models.EnvironmentalSnapshot{
		Wind:    models.Wind{SpeedKn: 0, DirDeg: 0},
		Current: models.Current{SpeedKn: 0, DirDeg: 0},
		Waves:   models.Waves{HeightM: 0, PeriodSec: 6, DirDeg: 0},
	}
}
func (zeroEnv) Advance(t time.Time) {}

type deepGeo struct{}

func (deepGeo) Depth(ctx context.Context, p models.LatLng) (float64, bool) { return 1000, true }
func (deepGeo) BathymetryGradient(ctx context.Context, p models.LatLng) (models.BathymetryGradient, bool) {
	return models.BathymetryGradient{}, true
}
func (deepGeo) ShoreInfo(ctx context.Context, p models.LatLng) (float64, float64, float64, bool) {
	return 100, 0, 180, true
}
func (deepGeo) ShoreType(ctx context.Context, p models.LatLng) (models.ShoreKind, bool) {
	return models.ShoreSandy, true
}
func (deepGeo) RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (models.RipCurrent, bool) {
	return models.RipCurrent{}, false
}

func TestStepZeroDtIsNoOp(t *testing.T) {
	cfg := models.DefaultSimulationConfig()
	cfg.LKP = models.LatLng{Lat: 10, Lng: -80}
	cfg.ParticleCount = 50
	cfg.SpreadRadiusKm = 0

	rng := rand.New(rand.NewSource(1))
	d := New(cfg, deepGeo{}, zeroEnv{}, rng, time.Unix(0, 0), false)

	before := append([]models.Particle{}, d.Ensemble().All()...)
	for i := 0; i < 20; i++ {
		d.Step(context.Background(), 0)
	}
	after := d.Ensemble().All()
	for i := range before {
		if before[i].Lat != after[i].Lat || before[i].Lng != after[i].Lng {
			t.Fatalf("particle %d moved under zero Δt: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestStepZeroForcingCentroidStaysNearLKP(t *testing.T) {
	cfg := models.DefaultSimulationConfig()
	cfg.LKP = models.LatLng{Lat: 10, Lng: -80}
	cfg.ParticleCount = 2000
	cfg.SpreadRadiusKm = 0

	rng := rand.New(rand.NewSource(7))
	d := New(cfg, deepGeo{}, zeroEnv{}, rng, time.Unix(0, 0), false)

	for i := 0; i < 50; i++ {
		d.Step(context.Background(), 0.1)
	}
	centroid := d.Ensemble().Centroid()
	if centroid == nil {
		t.Fatal("expected a centroid with only diffusion forcing")
	}
	// Pure isotropic diffusion around a large population should keep the
	// centroid close to the LKP; allow generous slack for sampling noise.
	if math.Abs(centroid.Lat-cfg.LKP.Lat) > 0.01 || math.Abs(centroid.Lng-cfg.LKP.Lng) > 0.01 {
		t.Errorf("centroid drifted too far from LKP under zero wind/current/wave forcing: %+v", centroid)
	}
}

type onshoreWindEnv struct{}

func (onshoreWindEnv) ConditionsAt(p models.LatLng, t time.Time) models.EnvironmentalSnapshot {
	return models.EnvironmentalSnapshot{
		Wind:    models.Wind{SpeedKn: 20, DirDeg: 0},
		Current: models.Current{SpeedKn: 0, DirDeg: 0},
		Waves:   models.Waves{HeightM: 0, PeriodSec: 6, DirDeg: 0},
	}
}
func (onshoreWindEnv) Advance(t time.Time) {}

// shorelineGeo is flat, uniform 3 m water everywhere south of a shore
// line at shoreLat, and land (depth <= 0) at or north of it.
type shorelineGeo struct {
	shoreLat float64
}

func (g shorelineGeo) Depth(ctx context.Context, p models.LatLng) (float64, bool) {
	if p.Lat >= g.shoreLat {
		return -1, true
	}
	return 3, true
}
func (shorelineGeo) BathymetryGradient(ctx context.Context, p models.LatLng) (models.BathymetryGradient, bool) {
	return models.BathymetryGradient{}, true
}
func (shorelineGeo) ShoreInfo(ctx context.Context, p models.LatLng) (float64, float64, float64, bool) {
	return 0.1, 0, 180, true
}
func (shorelineGeo) ShoreType(ctx context.Context, p models.LatLng) (models.ShoreKind, bool) {
	return models.ShoreSandy, true
}
func (shorelineGeo) RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (models.RipCurrent, bool) {
	return models.RipCurrent{}, false
}

func TestStepBeachingUnderStrongOnshoreWind(t *testing.T) {
	lkp := models.LatLng{Lat: 29.30, Lng: -94.80}
	cfg := models.DefaultSimulationConfig()
	cfg.LKP = lkp
	cfg.ParticleCount = 1000
	cfg.SpreadRadiusKm = 0.1
	cfg.DurationHours = 24
	cfg.TimeStepSec = 600

	rng := rand.New(rand.NewSource(42))
	geo := shorelineGeo{shoreLat: lkp.Lat + 0.1}
	d := New(cfg, geo, onshoreWindEnv{}, rng, time.Unix(0, 0), false)

	totalSteps := cfg.TotalSteps()
	dtHours := cfg.TimeStepSec / 3600
	for i := 0; i < totalSteps; i++ {
		d.Step(context.Background(), dtHours)
	}

	beachedOrNearShore := 0
	for _, p := range d.Ensemble().All() {
		if p.Status == models.StatusBeached {
			beachedOrNearShore++
			continue
		}
		if geo.shoreLat-p.Lat <= 0.01 {
			beachedOrNearShore++
		}
	}
	if beachedOrNearShore < cfg.ParticleCount/2 {
		t.Errorf("expected >=50%% beached or near shore after 24h of strong onshore wind, got %d/%d", beachedOrNearShore, cfg.ParticleCount)
	}
}

package environment

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

// SyntheticProvider is a spatially-uniform field that drifts over time
// exactly as spec.md §6 specifies: wind direction ±5° per tick, speed
// ±1 kn clamped to [0,40], current direction drift ±2.5°. Tidal phase
// advances monotonically; phase 0 = low tide / flood begins, matching
// the convention internal/shallow's tidal asymmetry term assumes
// (spec.md §9 open question, resolved and documented in DESIGN.md).
type SyntheticProvider struct {
	mu sync.Mutex
	rng *rand.Rand

	snapshot models.EnvironmentalSnapshot

	tidalPeriodSec float64
	tidalPhase     float64
}

// NewSyntheticProvider constructs a provider starting from base, seeded
// from seed for reproducible drift.
func NewSyntheticProvider(base models.EnvironmentalSnapshot, seed int64) *SyntheticProvider {
	return &SyntheticProvider{
		rng:            rand.New(rand.NewSource(seed)),
		snapshot:       base,
		tidalPeriodSec: 12.42 * 3600, // a lunar semi-diurnal period
	}
}

func (s *SyntheticProvider) ConditionsAt(p models.LatLng, t time.Time) models.EnvironmentalSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot
	if snap.Tidal != nil {
		tidal := *snap.Tidal
		tidal.Phase = s.tidalPhase
		snap.Tidal = &tidal
	}
	return snap
}

// Advance mutates the field forward one tick: wind direction drifts
// ±5°, wind speed drifts ±1 kn (clamped to [0,40]), current direction
// drifts ±2.5° (spec.md §6).
func (s *SyntheticProvider) Advance(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	windDirDrift := (s.rng.Float64()*2 - 1) * 5
	s.snapshot.Wind.DirDeg = math.Mod(s.snapshot.Wind.DirDeg+windDirDrift+360, 360)

	windSpeedDrift := (s.rng.Float64()*2 - 1) * 1
	s.snapshot.Wind.SpeedKn = clamp(s.snapshot.Wind.SpeedKn+windSpeedDrift, 0, 40)

	curDirDrift := (s.rng.Float64()*2 - 1) * 2.5
	s.snapshot.Current.DirDeg = math.Mod(s.snapshot.Current.DirDeg+curDirDrift+360, 360)

	if s.tidalPeriodSec > 0 {
		s.tidalPhase = math.Mod(s.tidalPhase+1.0/s.tidalPeriodSec, 1.0)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

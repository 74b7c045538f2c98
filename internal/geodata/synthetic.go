package geodata

import (
	"context"
	"math/rand"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

// SyntheticProvider answers every query with the conservative defaults
// spec.md §7 prescribes for a GeoDataMissing fallback: depth drawn
// uniformly from [20, 50) m, sandy shore, zero bathymetry gradient. It is
// always "available" (ok=true) so it can serve as the base layer wrapped
// by geodata.Fallback around a real provider, or stand alone when no real
// geodata source is configured.
type SyntheticProvider struct {
	rng *rand.Rand
}

// NewSyntheticProvider constructs a SyntheticProvider seeded from seed.
func NewSyntheticProvider(seed int64) *SyntheticProvider {
	return &SyntheticProvider{rng: rand.New(rand.NewSource(seed))}
}

func (s *SyntheticProvider) Depth(ctx context.Context, p models.LatLng) (float64, bool) {
	return 20 + s.rng.Float64()*30, true
}

func (s *SyntheticProvider) BathymetryGradient(ctx context.Context, p models.LatLng) (models.BathymetryGradient, bool) {
	return models.BathymetryGradient{}, true
}

func (s *SyntheticProvider) ShoreInfo(ctx context.Context, p models.LatLng) (distKm, dirDeg, shoreNormalDeg float64, ok bool) {
	return 1.0, 0, 180, true
}

func (s *SyntheticProvider) ShoreType(ctx context.Context, p models.LatLng) (models.ShoreKind, bool) {
	return models.ShoreSandy, true
}

func (s *SyntheticProvider) RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (models.RipCurrent, bool) {
	return models.RipCurrent{}, true
}

// Fallback wraps a real Provider so every miss (ok=false) is answered by
// fallback's conservative defaults instead of propagating the miss,
// exactly as spec.md §7's GeoDataMissing policy requires: "the core falls
// back to conservative defaults ... never fatal".
type Fallback struct {
	Primary  Provider
	fallback *SyntheticProvider
	onMiss   func()
}

// NewFallback wraps primary with synthetic defaults. onMiss, if non-nil,
// is invoked once per miss so callers can record a synthetic_geo warning
// on the current snapshot (spec.md §7).
func NewFallback(primary Provider, seed int64, onMiss func()) *Fallback {
	return &Fallback{Primary: primary, fallback: NewSyntheticProvider(seed), onMiss: onMiss}
}

func (f *Fallback) miss() {
	if f.onMiss != nil {
		f.onMiss()
	}
}

func (f *Fallback) Depth(ctx context.Context, p models.LatLng) (float64, bool) {
	if d, ok := f.Primary.Depth(ctx, p); ok {
		return d, true
	}
	f.miss()
	d, _ := f.fallback.Depth(ctx, p)
	return d, true
}

func (f *Fallback) BathymetryGradient(ctx context.Context, p models.LatLng) (models.BathymetryGradient, bool) {
	if g, ok := f.Primary.BathymetryGradient(ctx, p); ok {
		return g, true
	}
	f.miss()
	g, _ := f.fallback.BathymetryGradient(ctx, p)
	return g, true
}

func (f *Fallback) ShoreInfo(ctx context.Context, p models.LatLng) (distKm, dirDeg, shoreNormalDeg float64, ok bool) {
	if d, dir, sn, ok := f.Primary.ShoreInfo(ctx, p); ok {
		return d, dir, sn, true
	}
	f.miss()
	d, dir, sn, _ := f.fallback.ShoreInfo(ctx, p)
	return d, dir, sn, true
}

func (f *Fallback) ShoreType(ctx context.Context, p models.LatLng) (models.ShoreKind, bool) {
	if k, ok := f.Primary.ShoreType(ctx, p); ok {
		return k, true
	}
	f.miss()
	k, _ := f.fallback.ShoreType(ctx, p)
	return k, true
}

func (f *Fallback) RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (models.RipCurrent, bool) {
	if r, ok := f.Primary.RipCurrent(ctx, p, t); ok {
		return r, true
	}
	f.miss()
	r, _ := f.fallback.RipCurrent(ctx, p, t)
	return r, true
}

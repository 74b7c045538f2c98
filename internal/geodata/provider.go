// Package geodata provides the unified interface to depth, shore type,
// shore normal, and bathymetry gradient the shallow-water physics needs
// (spec.md §4.4/§6), plus a depth cache the driver (or the adapter
// itself) owns.
package geodata

import (
	"context"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

// Provider is the GeoProvider interface of spec.md §6. Every method may
// miss (returns ok=false) rather than erroring; a miss is not fatal —
// callers fall back to the conservative defaults of spec.md §7.
type Provider interface {
	Depth(ctx context.Context, p models.LatLng) (depthM float64, ok bool)
	BathymetryGradient(ctx context.Context, p models.LatLng) (grad models.BathymetryGradient, ok bool)
	ShoreInfo(ctx context.Context, p models.LatLng) (distKm, dirDeg, shoreNormalDeg float64, ok bool)
	ShoreType(ctx context.Context, p models.LatLng) (kind models.ShoreKind, ok bool)
	RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (rip models.RipCurrent, ok bool)
}

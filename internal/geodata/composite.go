package geodata

import (
	"context"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

// Composite routes ShoreType/ShoreInfo to Shore and everything else to
// Bathymetry, letting a coastline-shapefile-backed provider (which only
// knows shore geometry) sit alongside a separate depth/gradient/rip
// source.
type Composite struct {
	Shore      Provider
	Bathymetry Provider
}

func (c *Composite) Depth(ctx context.Context, p models.LatLng) (float64, bool) {
	return c.Bathymetry.Depth(ctx, p)
}

func (c *Composite) BathymetryGradient(ctx context.Context, p models.LatLng) (models.BathymetryGradient, bool) {
	return c.Bathymetry.BathymetryGradient(ctx, p)
}

func (c *Composite) ShoreType(ctx context.Context, p models.LatLng) (models.ShoreKind, bool) {
	return c.Shore.ShoreType(ctx, p)
}

func (c *Composite) ShoreInfo(ctx context.Context, p models.LatLng) (distKm, dirDeg, shoreNormalDeg float64, ok bool) {
	return c.Shore.ShoreInfo(ctx, p)
}

func (c *Composite) RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (models.RipCurrent, bool) {
	return c.Bathymetry.RipCurrent(ctx, p, t)
}

// CachedDepth wraps a Provider so repeated Depth lookups at the same
// rounded coordinate (spec.md §4.4: 1e-4°) hit the DepthCache it is
// given instead of recomputing (the server shares one across all runs). Cache misses compute-once; concurrent
// duplicate computes are tolerated (spec.md §5).
type CachedDepth struct {
	Provider
	Cache *DepthCache
}

func (c *CachedDepth) Depth(ctx context.Context, p models.LatLng) (float64, bool) {
	if d, ok := c.Cache.Get(p); ok {
		return d, true
	}
	d, ok := c.Provider.Depth(ctx, p)
	if ok {
		c.Cache.Put(p, d)
	}
	return d, ok
}

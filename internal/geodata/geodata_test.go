package geodata

import (
	"context"
	"testing"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

func TestDepthCacheFIFOEviction(t *testing.T) {
	c := NewDepthCache(2)
	c.Put(models.LatLng{Lat: 1, Lng: 1}, 10)
	c.Put(models.LatLng{Lat: 2, Lng: 2}, 20)
	c.Put(models.LatLng{Lat: 3, Lng: 3}, 30) // evicts (1,1)

	if _, ok := c.Get(models.LatLng{Lat: 1, Lng: 1}); ok {
		t.Errorf("expected (1,1) to be evicted")
	}
	if d, ok := c.Get(models.LatLng{Lat: 3, Lng: 3}); !ok || d != 30 {
		t.Errorf("expected (3,3)=30 to be present, got ok=%v d=%v", ok, d)
	}
	if c.Len() != 2 {
		t.Errorf("expected cache len 2, got %d", c.Len())
	}
}

func TestDepthCacheRoundingCollapsesNearbyPoints(t *testing.T) {
	c := NewDepthCache(10)
	c.Put(models.LatLng{Lat: 1.00001, Lng: 1.00001}, 42)
	if d, ok := c.Get(models.LatLng{Lat: 1.00002, Lng: 1.00002}); !ok || d != 42 {
		t.Errorf("expected points within 1e-4 deg to collapse to the same entry, got ok=%v d=%v", ok, d)
	}
}

type missingProvider struct{}

func (missingProvider) Depth(ctx context.Context, p models.LatLng) (float64, bool) { return 0, false }
func (missingProvider) BathymetryGradient(ctx context.Context, p models.LatLng) (models.BathymetryGradient, bool) {
	return models.BathymetryGradient{}, false
}
func (missingProvider) ShoreInfo(ctx context.Context, p models.LatLng) (float64, float64, float64, bool) {
	return 0, 0, 0, false
}
func (missingProvider) ShoreType(ctx context.Context, p models.LatLng) (models.ShoreKind, bool) {
	return "", false
}
func (missingProvider) RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (models.RipCurrent, bool) {
	return models.RipCurrent{}, false
}

func TestFallbackAppliesConservativeDefaultsOnMiss(t *testing.T) {
	missCount := 0
	fb := NewFallback(missingProvider{}, 1, func() { missCount++ })

	depth, ok := fb.Depth(context.Background(), models.LatLng{Lat: 1, Lng: 1})
	if !ok {
		t.Fatalf("fallback should never report a miss to its caller")
	}
	if depth < 20 || depth >= 50 {
		t.Errorf("expected depth in [20,50), got %v", depth)
	}

	kind, ok := fb.ShoreType(context.Background(), models.LatLng{Lat: 1, Lng: 1})
	if !ok || kind != models.ShoreSandy {
		t.Errorf("expected sandy shore default, got %v ok=%v", kind, ok)
	}

	if missCount != 2 {
		t.Errorf("expected onMiss called once per miss, got %d", missCount)
	}
}

type fixedProvider struct {
	depth float64
	kind  models.ShoreKind
}

func (f fixedProvider) Depth(ctx context.Context, p models.LatLng) (float64, bool) { return f.depth, true }
func (f fixedProvider) BathymetryGradient(ctx context.Context, p models.LatLng) (models.BathymetryGradient, bool) {
	return models.BathymetryGradient{DzDx: 1}, true
}
func (f fixedProvider) ShoreInfo(ctx context.Context, p models.LatLng) (float64, float64, float64, bool) {
	return 2, 90, 270, true
}
func (f fixedProvider) ShoreType(ctx context.Context, p models.LatLng) (models.ShoreKind, bool) {
	return f.kind, true
}
func (f fixedProvider) RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (models.RipCurrent, bool) {
	return models.RipCurrent{}, true
}

func TestCompositeRoutesShoreAndBathymetrySeparately(t *testing.T) {
	shore := fixedProvider{kind: models.ShoreRocky}
	bathy := fixedProvider{depth: 12}
	c := &Composite{Shore: shore, Bathymetry: bathy}

	if kind, ok := c.ShoreType(context.Background(), models.LatLng{}); !ok || kind != models.ShoreRocky {
		t.Errorf("expected ShoreType to come from Shore provider, got %v ok=%v", kind, ok)
	}
	if depth, ok := c.Depth(context.Background(), models.LatLng{}); !ok || depth != 12 {
		t.Errorf("expected Depth to come from Bathymetry provider, got %v ok=%v", depth, ok)
	}
}

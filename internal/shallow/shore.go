package shallow

import (
	"math/rand"

	"github.com/sardrift/driftsim/internal/geo"
	"github.com/sardrift/driftsim/internal/models"
)

// ShoreParams is one shore kind's stickiness/reflection/roughness/
// permeability parameters (spec.md §4.3).
type ShoreParams struct {
	Stickiness   float64 `yaml:"stickiness"`
	Reflection   float64 `yaml:"reflection"`
	Roughness    float64 `yaml:"roughness"`
	Permeability float64 `yaml:"permeability"`
}

var shoreTable = map[models.ShoreKind]ShoreParams{
	models.ShoreRocky:    {Stickiness: 0.85, Reflection: 0.15, Roughness: 0.8, Permeability: 0.1},
	models.ShoreSandy:    {Stickiness: 0.60, Reflection: 0.30, Roughness: 0.3, Permeability: 0.5},
	models.ShoreMuddy:    {Stickiness: 0.95, Reflection: 0.05, Roughness: 0.2, Permeability: 0.3},
	models.ShoreMarsh:    {Stickiness: 1.00, Reflection: 0.00, Roughness: 0.6, Permeability: 0.2},
	models.ShoreMangrove: {Stickiness: 1.00, Reflection: 0.00, Roughness: 0.7, Permeability: 0.15},
	models.ShoreSeawall:  {Stickiness: 0.10, Reflection: 0.90, Roughness: 0.1, Permeability: 0.0},
	models.ShoreRiprap:   {Stickiness: 0.40, Reflection: 0.50, Roughness: 0.9, Permeability: 0.4},
	models.ShoreCoral:    {Stickiness: 0.70, Reflection: 0.20, Roughness: 0.95, Permeability: 0.2},
}

// ApplyShoreOverlay overwrites or adds rows to the shore-parameter
// table. Meant to be called once at startup from a loaded config
// overlay, before any simulation is started.
func ApplyShoreOverlay(overlay map[models.ShoreKind]ShoreParams) {
	for kind, params := range overlay {
		shoreTable[kind] = params
	}
}

// ShoreParamsFor returns the table row for k, defaulting to sandy for
// unrecognized kinds (mirrors drift.LeewayParamsFor's default-to-common-
// case shape).
func ShoreParamsFor(k models.ShoreKind) ShoreParams {
	if p, ok := shoreTable[k]; ok {
		return p
	}
	return shoreTable[models.ShoreSandy]
}

// Outcome is the result of the shore-interaction decision.
type Outcome string

const (
	OutcomeBeach   Outcome = "beach"
	OutcomeReflect Outcome = "reflect"
	OutcomeHold    Outcome = "hold"
)

// Interact runs the shore-interaction decision of spec.md §4.3 for a
// particle whose attempted move would place it on land. current is the
// particle's pre-move position, attempted is where it tried to go,
// shoreNormalDeg is the local shore normal (degrees, seaward-pointing).
// Returns the outcome and, for OutcomeReflect, the new reflected
// position.
func Interact(current, attempted models.LatLng, shoreKind models.ShoreKind, shoreNormalDeg float64, rng *rand.Rand) (Outcome, models.LatLng) {
	params := ShoreParamsFor(shoreKind)
	u := rng.Float64()

	switch {
	case u < params.Stickiness:
		return OutcomeBeach, attempted
	case u < params.Stickiness+params.Reflection:
		jitter := rng.Float64()*60 - 30 // U[-30, 30]
		dir := shoreNormalDeg + 180 + jitter
		distKm := 0.01 + rng.Float64()*0.02 // U[0.01, 0.03]
		dLat, dLng := geo.DirOffsetDeg(distKm, dir, current.Lat, false)
		reflected := models.LatLng{Lat: current.Lat + dLat, Lng: current.Lng + dLng}
		return OutcomeReflect, reflected
	default:
		return OutcomeHold, current
	}
}

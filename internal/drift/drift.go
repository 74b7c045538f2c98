// Package drift implements the pure per-step drift calculators of
// spec.md §4.2: wind, current, wave (Stokes), leeway, and diffusion. Each
// is a pure map (field sample, Δt hours) → (Δlat, Δlng) degrees, fresh
// code written in the teacher's idiom of small pure functions plus
// switch-based lookup tables (internal/ingestion/gdacs.go:
// mapGDACSEventType, internal/api/handler.go:parseDisasterType).
package drift

import (
	"math"
	"math/rand"

	"github.com/sardrift/driftsim/internal/geo"
	"github.com/sardrift/driftsim/internal/models"
)

// WindFactor is the default wind-drift coefficient, configurable per
// spec.md §4.2.
const WindFactor = 0.03

// Wind returns the displacement from wind drift: factor·|U_wind| in the
// wind direction.
func Wind(w models.Wind, dtHours, factor float64, useLatCorrection bool, atLat float64) (dLat, dLng float64) {
	speedKmh := geo.KnotsToKmh(w.SpeedKn)
	distKm := factor * speedKmh * dtHours
	return geo.DirOffsetDeg(distKm, w.DirDeg, atLat, useLatCorrection)
}

// CurrentFactor is the default current-drift coefficient (1.0, spec.md
// §4.2).
const CurrentFactor = 1.0

// Current returns the displacement from surface current drift: factor·
// |U_cur| in the current direction.
func Current(c models.Current, dtHours, factor float64, useLatCorrection bool, atLat float64) (dLat, dLng float64) {
	speedKmh := geo.KnotsToKmh(c.SpeedKn)
	distKm := factor * speedKmh * dtHours
	return geo.DirOffsetDeg(distKm, c.DirDeg, atLat, useLatCorrection)
}

// DepthAveragedCurrent applies the Ekman-proxy helper: speed scaled by
// exp(-d/50) and direction rotated by 0.5·d degrees, for a current sampled
// at depth dM metres.
func DepthAveragedCurrent(c models.Current, dM float64) models.Current {
	scaled := c
	scaled.SpeedKn = c.SpeedKn * math.Exp(-dM/50)
	scaled.DirDeg = math.Mod(c.DirDeg+0.5*dM, 360)
	return scaled
}

// StokesCoefficient is k_s in the baseline Stokes-drift speed formula.
const StokesCoefficient = 0.01

// StokesSpreadJitterDeg is the half-width of the uniform spreading jitter
// applied to wave direction.
const StokesSpreadJitterDeg = 15

// Wave returns the baseline (deep-water) Stokes drift displacement:
// speed = H²/T·k_s, direction = wave direction ± uniform jitter
// representing directional spreading.
func Wave(w models.Waves, dtHours float64, rng *rand.Rand, useLatCorrection bool, atLat float64) (dLat, dLng float64) {
	speedKmh := (w.HeightM * w.HeightM / w.PeriodSec) * StokesCoefficient * 3600 / 1000
	jitter := (rng.Float64()*2 - 1) * StokesSpreadJitterDeg
	dir := w.DirDeg + jitter
	distKm := speedKmh * dtHours
	return geo.DirOffsetDeg(distKm, dir, atLat, useLatCorrection)
}

// LeewayParams is one row of the leeway table (spec.md §4.2):
// downwind-factor and crosswind-angle for an object type.
type LeewayParams struct {
	DownwindFactor float64 `yaml:"downwind_factor"`
	CrosswindAngle float64 `yaml:"crosswind_angle"`
}

var leewayTable = map[models.ObjectType]LeewayParams{
	models.ObjectPersonInWater:  {0.03, 15},
	models.ObjectPersonWithPFD:  {0.04, 20},
	models.ObjectPersonDrysuit:  {0.05, 25},
	models.ObjectLifeRaft4:      {0.06, 10},
	models.ObjectLifeRaft6:      {0.065, 12},
	models.ObjectLifeRaft10Plus: {0.07, 15},
	models.ObjectSmallVessel:    {0.05, 5},
	models.ObjectMediumVessel:   {0.04, 3},
	models.ObjectSailboat:       {0.08, 20},
	models.ObjectKayak:          {0.045, 18},
	models.ObjectCanoe:          {0.05, 20},
	models.ObjectSurfboard:      {0.035, 25},
	models.ObjectPaddleboard:    {0.04, 22},
	models.ObjectWoodDebris:     {0.02, 30},
	models.ObjectPlasticDebris:  {0.045, 25},
	models.ObjectCooler:        {0.055, 15},
}

// ApplyLeewayOverlay overwrites or adds rows to the leeway table. Meant
// to be called once at startup from a loaded config overlay, before any
// simulation is started.
func ApplyLeewayOverlay(overlay map[models.ObjectType]LeewayParams) {
	for objType, params := range overlay {
		leewayTable[objType] = params
	}
}

// LeewayParamsFor returns the table row for objType, defaulting to
// person-in-water for unrecognized types (spec.md §4.2).
func LeewayParamsFor(objType models.ObjectType) LeewayParams {
	if p, ok := leewayTable[objType]; ok {
		return p
	}
	return leewayTable[models.ObjectPersonInWater]
}

// Leeway returns the object-specific leeway displacement: downwind_factor·
// |U_wind| in wind_dir + crosswind_angle degrees.
func Leeway(objType models.ObjectType, w models.Wind, dtHours float64, useLatCorrection bool, atLat float64) (dLat, dLng float64) {
	params := LeewayParamsFor(objType)
	speedKmh := geo.KnotsToKmh(w.SpeedKn)
	distKm := params.DownwindFactor * speedKmh * dtHours
	dir := w.DirDeg + params.CrosswindAngle
	return geo.DirOffsetDeg(distKm, dir, atLat, useLatCorrection)
}

// DiffusionCoefficient is D in km²/h, spec.md §4.2.
const DiffusionCoefficient = 0.001

// Diffusion returns an isotropic random-walk displacement of magnitude
// sqrt(D·Δt)·U[0,1] in a direction uniform on [0, 2π).
func Diffusion(dtHours float64, rng *rand.Rand, useLatCorrection bool, atLat float64) (dLat, dLng float64) {
	magKm := math.Sqrt(DiffusionCoefficient*dtHours) * rng.Float64()
	dirDeg := rng.Float64() * 360
	return geo.DirOffsetDeg(magKm, dirDeg, atLat, useLatCorrection)
}

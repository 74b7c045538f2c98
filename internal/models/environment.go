package models

// Wind is speed in knots and direction in degrees true, matching the units
// the Simulation API accepts at the interface (spec.md §6).
type Wind struct {
	SpeedKn   float64
	DirDeg    float64
	GustsKn   *float64
}

// Current is speed in knots, direction in degrees true, plus a variation
// magnitude describing how much the field wobbles sample to sample.
type Current struct {
	SpeedKn     float64
	DirDeg      float64
	VariationKn float64
}

// Waves carries the significant wave height/period/direction the Stokes
// drift and shallow-water calculators consume.
type Waves struct {
	HeightM    float64
	PeriodSec  float64
	DirDeg     float64
	ShoreNormalDeg *float64
}

// Tidal describes the tidal cycle at a point. Phase convention: 0 = low
// tide / flood begins, 0.5 = high tide / ebb begins (spec.md §9 open
// question, resolved and documented here; kept consistent with
// internal/environment's synthetic advance and internal/shallow's tidal
// asymmetry term).
type Tidal struct {
	Phase          float64
	ShoreDirDeg    float64
	ShoreNormalDeg float64
}

// BathymetryGradient is ∂z/∂x, ∂z/∂y in m/degree plus the derived
// magnitude/direction, used by the topographic-steering term.
type BathymetryGradient struct {
	DzDx      float64
	DzDy      float64
	Magnitude float64
	DirDeg    float64
}

// RipCurrent is the risk/strength/direction a GeoProvider may report for a
// surf-zone point.
type RipCurrent struct {
	Risk      float64
	StrengthM float64
	DirDeg    float64
}

// EnvironmentalSnapshot is the field sample the drift calculators consume
// at a particle's (lat, lng, t); spec.md §3.
type EnvironmentalSnapshot struct {
	Wind Wind
	Current Current
	Waves Waves

	WaterTempF float64
	AirTempF   float64
	VisibilityNM float64
	SeaState     int // Douglas sea state 0-8

	Tidal *Tidal

	Gradient *BathymetryGradient

	Rip *RipCurrent

	// SyntheticGeo is true when any geodata used to build this snapshot's
	// shallow-water inputs was a GeoDataMissing fallback rather than a
	// provider answer (spec.md §7).
	SyntheticGeo bool
}

package models

// Status is the lifecycle state of a particle. Once a particle leaves
// StatusActive it is frozen: its position and status never change again.
type Status string

const (
	StatusActive    Status = "active"
	StatusBeached   Status = "beached"
	StatusRecovered Status = "recovered"
)

// ShoreKind enumerates the shore types the shallow-water shore-interaction
// decision (spec.md §4.3) draws parameters for.
type ShoreKind string

const (
	ShoreRocky    ShoreKind = "rocky"
	ShoreSandy    ShoreKind = "sandy"
	ShoreMuddy    ShoreKind = "muddy"
	ShoreMarsh    ShoreKind = "marsh"
	ShoreMangrove ShoreKind = "mangrove"
	ShoreSeawall  ShoreKind = "seawall"
	ShoreRiprap   ShoreKind = "riprap"
	ShoreCoral    ShoreKind = "coral"
)

// BeachEffect is one of the shallow-water effect tags a step can record as
// actually applied (spec.md §4.3).
type BeachEffect string

const (
	EffectBottomFriction    BeachEffect = "bottom_friction"
	EffectShallowStokes     BeachEffect = "shallow_stokes"
	EffectTopographic       BeachEffect = "topographic_steering"
	EffectTidalAsymmetry    BeachEffect = "tidal_asymmetry"
	EffectBreaking          BeachEffect = "breaking"
	EffectLongshore         BeachEffect = "longshore"
	EffectRipCurrent        BeachEffect = "rip_current"
	EffectUndertow          BeachEffect = "undertow"
	EffectVeryShallow       BeachEffect = "very_shallow"
	EffectSyntheticGeo      BeachEffect = "synthetic_geo"
)

// Particle is one Monte-Carlo drift sample. Identity is a stable index
// into the owning ensemble's slice, 0..N-1.
type Particle struct {
	ID  int
	Lat float64
	Lng float64

	Status Status
	AgeSec float64

	BeachedTimeSec  float64
	BeachType       ShoreKind
	BeachingEffects map[BeachEffect]struct{}

	// DepthAtLastStep is metres, positive downward. <= 0 means land.
	DepthAtLastStep float64

	ReflectionCount int
}

// IsActive reports whether the particle can still be moved by the driver.
func (p *Particle) IsActive() bool {
	return p.Status == StatusActive
}

// AddEffect records an effect tag, lazily allocating the set.
func (p *Particle) AddEffect(e BeachEffect) {
	if p.BeachingEffects == nil {
		p.BeachingEffects = make(map[BeachEffect]struct{})
	}
	p.BeachingEffects[e] = struct{}{}
}

// Beach freezes the particle at (lat, lng) as beached.
func (p *Particle) Beach(lat, lng float64, shoreKind ShoreKind, atSec float64) {
	p.Lat = lat
	p.Lng = lng
	p.Status = StatusBeached
	p.BeachType = shoreKind
	p.BeachedTimeSec = atSec
}

package models

import "time"

// ObjectType enumerates the exact identifiers spec.md §6 requires at the
// Simulation API boundary.
type ObjectType string

const (
	ObjectPersonInWater  ObjectType = "person-in-water"
	ObjectPersonWithPFD  ObjectType = "person-with-pfd"
	ObjectPersonDrysuit  ObjectType = "person-in-drysuit"
	ObjectLifeRaft4      ObjectType = "life-raft-4"
	ObjectLifeRaft6      ObjectType = "life-raft-6"
	ObjectLifeRaft10Plus ObjectType = "life-raft-10-plus"
	ObjectSmallVessel    ObjectType = "small-vessel"
	ObjectMediumVessel   ObjectType = "medium-vessel"
	ObjectSailboat       ObjectType = "sailboat"
	ObjectKayak          ObjectType = "kayak"
	ObjectCanoe          ObjectType = "canoe"
	ObjectSurfboard      ObjectType = "surfboard"
	ObjectPaddleboard    ObjectType = "paddleboard"
	ObjectWoodDebris     ObjectType = "wood-debris"
	ObjectPlasticDebris  ObjectType = "plastic-debris"
	ObjectCooler         ObjectType = "cooler"
)

// ValidObjectType reports whether s is a recognized object-type identifier.
func ValidObjectType(s ObjectType) bool {
	switch s {
	case ObjectPersonInWater, ObjectPersonWithPFD, ObjectPersonDrysuit,
		ObjectLifeRaft4, ObjectLifeRaft6, ObjectLifeRaft10Plus,
		ObjectSmallVessel, ObjectMediumVessel, ObjectSailboat,
		ObjectKayak, ObjectCanoe, ObjectSurfboard, ObjectPaddleboard,
		ObjectWoodDebris, ObjectPlasticDebris, ObjectCooler:
		return true
	}
	return false
}

// ClothingCategory is the survival estimator's clothing-bonus key.
type ClothingCategory string

const (
	ClothingNone    ClothingCategory = "none"
	ClothingLight   ClothingCategory = "light"
	ClothingNormal  ClothingCategory = "normal"
	ClothingHeavy   ClothingCategory = "heavy"
	ClothingWetsuit ClothingCategory = "wetsuit"
	ClothingDrysuit ClothingCategory = "drysuit"
)

// VictimProfile is the survival estimator's per-victim input.
type VictimProfile struct {
	Age      *int
	Gender   string
	HasPFD   bool
	Clothing ClothingCategory
}

// LatLng is a bare coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// SimulationConfig is the full, validated configuration for one
// simulation run (spec.md §3, §6).
type SimulationConfig struct {
	LKP            LatLng
	ObjectType     ObjectType
	ParticleCount  int
	DurationHours  float64
	TimeStepSec    float64
	SpreadRadiusKm float64
	Victim         VictimProfile
}

// DefaultSimulationConfig returns spec.md §3/§6's documented defaults,
// with LKP and ObjectType left for the caller to fill in.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		ObjectType:     ObjectPersonInWater,
		ParticleCount:  10000,
		DurationHours:  72,
		TimeStepSec:    600,
		SpreadRadiusKm: 0.1,
	}
}

// TotalSteps is duration_hours·3600/time_step_seconds, rounded to the
// nearest whole step (spec.md §4.8).
func (c SimulationConfig) TotalSteps() int {
	total := c.DurationHours * 3600 / c.TimeStepSec
	return int(total + 0.5)
}

// TimeStep returns TimeStepSec as a time.Duration for code that prefers
// working in time.Duration rather than raw seconds.
func (c SimulationConfig) TimeStep() time.Duration {
	return time.Duration(c.TimeStepSec * float64(time.Second))
}

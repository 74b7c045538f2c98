package models

import "time"

// SnapshotParticle is one particle's contribution to a recorded snapshot.
type SnapshotParticle struct {
	ID     int
	Lat    float64
	Lng    float64
	Status Status
	DepthM float64
}

// Counts summarizes the ensemble partition at the time of a snapshot.
type Counts struct {
	Active  int
	Beached int
	Total   int
}

// Snapshot is one hourly recording of the ensemble state (spec.md §3).
type Snapshot struct {
	TimeSec float64
	Hour    int

	Counts Counts

	// Centroid is nil when there are no active particles.
	Centroid *LatLng

	Particles []SnapshotParticle

	SyntheticGeo bool
}

// BeachingRecord is one particle's beaching event, accumulated into the
// driver's global statistics (spec.md §4.4).
type BeachingRecord struct {
	ParticleID int
	Lat        float64
	Lng        float64
	TimeSec    float64
	Hour       int
	DepthM     float64
	ShoreKind  ShoreKind
	Effects    []BeachEffect
}

// Stats is the global, across-all-steps statistics the driver accumulates
// (spec.md §4.4).
type Stats struct {
	TotalBeached           int
	BeachingRecords        []BeachingRecord
	ShallowWaterEncounters int
	SurfZoneEncounters     int
	LandExclusionCount     int
	ReflectionCount        int
	NumericalDivergences   int
	PhysicsErrorCount      int
}

// RunStatus is the coordinator-visible lifecycle state of a simulation
// (spec.md §6).
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunStopped   RunStatus = "stopped"
	RunFailed    RunStatus = "failed"
)

// StatusReport is the §6 GET .../status response body.
type StatusReport struct {
	ID        string
	Status    RunStatus
	Progress  int // 0..100
	StartTime time.Time
	EndTime   *time.Time
	Error     string
}

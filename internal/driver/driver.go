// Package driver owns the time-stepping loop of spec.md §4.4: per
// active particle, sample the field, sum the drift forcings, apply the
// shallow-water correction, run land exclusion, and advance position and
// age. Grounded on internal/worker.WorkerPool's loop shape and
// internal/ingestion.Manager's ticker-driven poll/advance structure, but
// the driver itself steps synchronously — particle i never reads
// particle j, so a conforming caller may parallelize the per-particle
// loop without changing this package's contract (spec.md §5).
package driver

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/sardrift/driftsim/internal/drift"
	"github.com/sardrift/driftsim/internal/ensemble"
	"github.com/sardrift/driftsim/internal/environment"
	"github.com/sardrift/driftsim/internal/geodata"
	"github.com/sardrift/driftsim/internal/models"
	"github.com/sardrift/driftsim/internal/shallow"
)

// Driver owns one simulation's ensemble, environmental field, geodata
// adapter, snapshot sequence, and accumulated statistics (spec.md §3
// Ownership).
type Driver struct {
	ensemble *ensemble.Ensemble
	geo      geodata.Provider
	env      environment.Provider
	cfg      models.SimulationConfig
	rng      *rand.Rand

	startTime        time.Time
	useLatCorrection bool

	currentTimeSec       float64
	lastSnapshotHour     int
	syntheticGeoThisHour bool

	// mu guards snapshots/stats/currentTimeSec against concurrent reads
	// from a status/results query while Step is running them forward.
	// Step itself runs on a single goroutine per simulation; callers
	// outside that goroutine only ever read.
	mu        sync.RWMutex
	snapshots []models.Snapshot
	stats     models.Stats
}

// New constructs a driver with a freshly-initialized ensemble distributed
// around cfg.LKP (spec.md §4.4 "Initial distribution").
func New(cfg models.SimulationConfig, geo geodata.Provider, env environment.Provider, rng *rand.Rand, startTime time.Time, useLatCorrection bool) *Driver {
	return &Driver{
		ensemble:         ensemble.New(cfg.LKP, cfg.ParticleCount, cfg.SpreadRadiusKm, rng, useLatCorrection),
		geo:              geo,
		env:              env,
		cfg:              cfg,
		rng:              rng,
		startTime:        startTime,
		useLatCorrection: useLatCorrection,
	}
}

// Ensemble exposes the owned particle ensemble for read access (the
// coordinator uses this to compute §4.5–§4.7 results on completion).
func (d *Driver) Ensemble() *ensemble.Ensemble { return d.ensemble }

// Snapshots returns a copy of the hourly snapshot sequence recorded so
// far; safe to call while a step is in flight on another goroutine.
func (d *Driver) Snapshots() []models.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Snapshot, len(d.snapshots))
	copy(out, d.snapshots)
	return out
}

// Stats returns the accumulated cross-step statistics.
func (d *Driver) Stats() models.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats
}

// CurrentTimeSec returns elapsed simulation time.
func (d *Driver) CurrentTimeSec() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.currentTimeSec
}

func (d *Driver) timeAt(sec float64) time.Time {
	return d.startTime.Add(time.Duration(sec * float64(time.Second)))
}

// Step advances the environmental field, then every active particle by
// dtHours and, on crossing an hour boundary, records a snapshot
// (spec.md §4.4).
func (d *Driver) Step(ctx context.Context, dtHours float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.timeAt(d.currentTimeSec)
	d.env.Advance(t)

	for i := 0; i < d.ensemble.Len(); i++ {
		d.stepParticle(ctx, i, dtHours)
	}

	d.currentTimeSec += dtHours * 3600
	hour := int(d.currentTimeSec / 3600)
	if hour > d.lastSnapshotHour {
		d.lastSnapshotHour = hour
		d.recordSnapshot(hour)
	}
}

func (d *Driver) stepParticle(ctx context.Context, idx int, dtHours float64) {
	p := d.ensemble.At(idx)
	if !p.IsActive() {
		return
	}
	pos := models.LatLng{Lat: p.Lat, Lng: p.Lng}
	t := d.timeAt(d.currentTimeSec)
	envSnap := d.env.ConditionsAt(pos, t)

	depthM := d.depthAt(ctx, pos)
	p.DepthAtLastStep = depthM

	var dLat, dLng float64
	addDisp := func(a, b float64) { dLat += a; dLng += b }

	addDisp(drift.Wind(envSnap.Wind, dtHours, drift.WindFactor, d.useLatCorrection, pos.Lat))
	addDisp(drift.Current(envSnap.Current, dtHours, drift.CurrentFactor, d.useLatCorrection, pos.Lat))
	addDisp(drift.Wave(envSnap.Waves, dtHours, d.rng, d.useLatCorrection, pos.Lat))
	addDisp(drift.Leeway(d.cfg.ObjectType, envSnap.Wind, dtHours, d.useLatCorrection, pos.Lat))

	var stepEffects map[models.BeachEffect]struct{}
	beachProb := 0.0
	if depthM > 0 && depthM < shallow.ShallowThresholdM {
		d.stats.ShallowWaterEncounters++
		if depthM <= shallow.SurfZoneThresholdM {
			d.stats.SurfZoneEncounters++
		}
		in := d.buildShallowInputs(ctx, pos, envSnap, depthM)
		res := shallow.Step(in, dtHours)
		addDisp(res.DLatDeg, res.DLngDeg)
		beachProb = res.BeachProbability
		stepEffects = res.Effects
		if res.Diverged {
			d.stats.NumericalDivergences++
		}
	}

	if beachProb > 0 && d.rng.Float64() < beachProb {
		shoreKind := d.shoreTypeAt(ctx, pos)
		d.beachParticle(p, pos, shoreKind, stepEffects)
		p.AgeSec += dtHours * 3600
		return
	}

	addDisp(drift.Diffusion(dtHours, d.rng, d.useLatCorrection, pos.Lat))

	if math.IsNaN(dLat) || math.IsNaN(dLng) {
		d.stats.PhysicsErrorCount++
		p.AgeSec += dtHours * 3600
		return
	}

	attempted := models.LatLng{Lat: pos.Lat + dLat, Lng: pos.Lng + dLng}
	attemptedDepth := d.depthAt(ctx, attempted)

	if attemptedDepth <= 0 {
		d.stats.LandExclusionCount++
		shoreKind := d.shoreTypeAt(ctx, attempted)
		shoreNormalDeg := d.shoreNormalAt(ctx, attempted)
		outcome, newPos := shallow.Interact(pos, attempted, shoreKind, shoreNormalDeg, d.rng)
		switch outcome {
		case shallow.OutcomeBeach:
			d.beachParticle(p, attempted, shoreKind, stepEffects)
		case shallow.OutcomeReflect:
			p.Lat, p.Lng = newPos.Lat, newPos.Lng
			p.ReflectionCount++
			d.stats.ReflectionCount++
		case shallow.OutcomeHold:
			// particle remains at its pre-move position.
		}
	} else {
		p.Lat, p.Lng = attempted.Lat, attempted.Lng
	}

	p.AgeSec += dtHours * 3600
}

func (d *Driver) beachParticle(p *models.Particle, at models.LatLng, shoreKind models.ShoreKind, effects map[models.BeachEffect]struct{}) {
	p.Beach(at.Lat, at.Lng, shoreKind, d.currentTimeSec)
	for e := range effects {
		p.AddEffect(e)
	}
	d.stats.TotalBeached++
	effSlice := make([]models.BeachEffect, 0, len(effects))
	for e := range effects {
		effSlice = append(effSlice, e)
	}
	d.stats.BeachingRecords = append(d.stats.BeachingRecords, models.BeachingRecord{
		ParticleID: p.ID,
		Lat:        at.Lat,
		Lng:        at.Lng,
		TimeSec:    d.currentTimeSec,
		Hour:       int(d.currentTimeSec / 3600),
		DepthM:     p.DepthAtLastStep,
		ShoreKind:  shoreKind,
		Effects:    effSlice,
	})
}

func (d *Driver) buildShallowInputs(ctx context.Context, pos models.LatLng, envSnap models.EnvironmentalSnapshot, depthM float64) shallow.Inputs {
	waves := envSnap.Waves
	if waves.ShoreNormalDeg == nil {
		sn := d.shoreNormalAt(ctx, pos)
		waves.ShoreNormalDeg = &sn
	}

	var grad *models.BathymetryGradient
	if g, ok := d.geo.BathymetryGradient(ctx, pos); ok {
		grad = &g
	} else {
		d.MarkSyntheticGeo()
	}

	var rip *models.RipCurrent
	t := d.timeAt(d.currentTimeSec)
	if r, ok := d.geo.RipCurrent(ctx, pos, t); ok && r.Risk > 0 {
		rip = &r
	}

	return shallow.Inputs{
		DepthM:           depthM,
		Current:          envSnap.Current,
		Waves:            waves,
		Gradient:         grad,
		Tidal:            envSnap.Tidal,
		Rip:              rip,
		AtLat:            pos.Lat,
		UseLatCorrection: d.useLatCorrection,
	}
}

// depthAt, shoreTypeAt, and shoreNormalAt apply spec.md §7's
// GeoDataMissing fallback (depth 20-50 m, sandy shore) directly, so the
// driver behaves correctly even if its Provider wasn't already wrapped
// in geodata.Fallback by the caller.
func (d *Driver) depthAt(ctx context.Context, p models.LatLng) float64 {
	if v, ok := d.geo.Depth(ctx, p); ok {
		return v
	}
	d.MarkSyntheticGeo()
	return 20 + d.rng.Float64()*30
}

func (d *Driver) shoreTypeAt(ctx context.Context, p models.LatLng) models.ShoreKind {
	if k, ok := d.geo.ShoreType(ctx, p); ok {
		return k
	}
	d.MarkSyntheticGeo()
	return models.ShoreSandy
}

func (d *Driver) shoreNormalAt(ctx context.Context, p models.LatLng) float64 {
	if _, _, sn, ok := d.geo.ShoreInfo(ctx, p); ok {
		return sn
	}
	d.MarkSyntheticGeo()
	return 180
}

// MarkSyntheticGeo records that this hour's snapshot should carry the
// synthetic_geo warning (spec.md §7). Safe to call from a
// geodata.Fallback's onMiss hook as well as from the driver's own
// fallback paths above.
func (d *Driver) MarkSyntheticGeo() {
	d.syntheticGeoThisHour = true
}

func (d *Driver) recordSnapshot(hour int) {
	all := d.ensemble.All()
	particles := make([]models.SnapshotParticle, len(all))
	for i, p := range all {
		particles[i] = models.SnapshotParticle{
			ID:     p.ID,
			Lat:    p.Lat,
			Lng:    p.Lng,
			Status: p.Status,
			DepthM: p.DepthAtLastStep,
		}
	}
	d.snapshots = append(d.snapshots, models.Snapshot{
		TimeSec:      float64(hour) * 3600,
		Hour:         hour,
		Counts:       d.ensemble.Counts(),
		Centroid:     d.ensemble.Centroid(),
		Particles:    particles,
		SyntheticGeo: d.syntheticGeoThisHour,
	})
	d.syntheticGeoThisHour = false
}

// Package coordinator owns the registry of in-flight and completed
// simulations, constructs each one's driver and providers, and drives
// its loop to completion cooperatively (spec.md §4.8). Grounded on
// internal/ingestion.Manager's worker-pool-plus-registry shape: a fixed
// pool of goroutines pulls submitted runs off a channel, and a mutex
// guards id→run lookup exactly as the teacher's manager guards its
// repository access.
package coordinator

import (
	"context"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sardrift/driftsim/internal/broadcaster"
	"github.com/sardrift/driftsim/internal/containment"
	"github.com/sardrift/driftsim/internal/density"
	"github.com/sardrift/driftsim/internal/driver"
	"github.com/sardrift/driftsim/internal/environment"
	"github.com/sardrift/driftsim/internal/errkind"
	"github.com/sardrift/driftsim/internal/geodata"
	"github.com/sardrift/driftsim/internal/models"
	"github.com/sardrift/driftsim/internal/survival"
	"github.com/sardrift/driftsim/internal/worker"
)

// GeoFactory builds the GeoProvider a new run should use, seeded for
// reproducibility. EnvFactory does the same for the EnvironmentalProvider.
// Defaults to the synthetic providers when nil (spec.md §9: explicit
// dependency injection rather than process-wide global state).
type GeoFactory func(seed int64) geodata.Provider
type EnvFactory func(seed int64) environment.Provider

// Coordinator is the simulation registry and scheduler of spec.md §4.8.
type Coordinator struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*run

	pool        *worker.WorkerPool
	broadcaster *broadcaster.Broadcaster

	geoFactory GeoFactory
	envFactory EnvFactory

	nextSeed atomic.Int64
}

// New constructs a Coordinator with workerCount concurrent simulation
// slots. bc may be nil if no live snapshot stream is wired up.
func New(workerCount, bufferSize int, bc *broadcaster.Broadcaster, geoFactory GeoFactory, envFactory EnvFactory) *Coordinator {
	if geoFactory == nil {
		geoFactory = func(seed int64) geodata.Provider { return geodata.NewSyntheticProvider(seed) }
	}
	if envFactory == nil {
		envFactory = func(seed int64) environment.Provider {
			return environment.NewSyntheticProvider(defaultBaseSnapshot(), seed)
		}
	}

	c := &Coordinator{
		runs:        make(map[uuid.UUID]*run),
		broadcaster: bc,
		geoFactory:  geoFactory,
		envFactory:  envFactory,
	}

	processor := func(ctx context.Context, job worker.Job) error {
		r := job.(*run)
		c.runSimulation(ctx, r)
		return nil
	}
	c.pool = worker.NewWorkerPool(workerCount, bufferSize, processor)
	return c
}

// Run starts the coordinator's worker pool. Call once, before the first
// StartSimulation.
func (c *Coordinator) Run(ctx context.Context) {
	c.pool.Start(ctx)
}

// Stop drains the worker pool, waiting for in-flight runs to observe
// their stop/completion and exit.
func (c *Coordinator) Stop() {
	c.pool.Stop()
}

func defaultBaseSnapshot() models.EnvironmentalSnapshot {
	return models.EnvironmentalSnapshot{
		Wind:         models.Wind{SpeedKn: 10, DirDeg: 270},
		Current:      models.Current{SpeedKn: 0.5, DirDeg: 180},
		Waves:        models.Waves{HeightM: 1, PeriodSec: 6, DirDeg: 270},
		WaterTempF:   65,
		AirTempF:     70,
		VisibilityNM: 10,
		SeaState:     3,
		Tidal:        &models.Tidal{Phase: 0, ShoreDirDeg: 0, ShoreNormalDeg: 180},
	}
}

func validate(cfg models.SimulationConfig) error {
	if cfg.LKP.Lat < -90 || cfg.LKP.Lat > 90 || cfg.LKP.Lng < -180 || cfg.LKP.Lng > 180 {
		return errkind.New(errkind.ConfigurationInvalid, "lkp out of range")
	}
	if !models.ValidObjectType(cfg.ObjectType) {
		return errkind.New(errkind.ConfigurationInvalid, "unknown object_type")
	}
	if cfg.ParticleCount <= 0 {
		return errkind.New(errkind.ConfigurationInvalid, "particle_count must be positive")
	}
	if cfg.DurationHours <= 0 {
		return errkind.New(errkind.ConfigurationInvalid, "duration_hours must be positive")
	}
	if cfg.TimeStepSec <= 0 {
		return errkind.New(errkind.ConfigurationInvalid, "time_step_seconds must be positive")
	}
	return nil
}

// StartSimulation validates cfg, constructs the field/adapter/driver,
// registers the run, and enqueues it for cooperative execution (spec.md
// §4.8). Returns the new simulation's id.
func (c *Coordinator) StartSimulation(cfg models.SimulationConfig) (uuid.UUID, error) {
	if err := validate(cfg); err != nil {
		return uuid.Nil, err
	}

	seed := c.nextSeed.Add(1)
	geoProvider := c.geoFactory(seed)
	envProvider := c.envFactory(seed)
	rng := rand.New(rand.NewSource(seed))
	drv := driver.New(cfg, geoProvider, envProvider, rng, time.Now(), false)

	id := uuid.New()
	r := &run{
		id:        id,
		cfg:       cfg,
		driver:    drv,
		env:       envProvider,
		status:    models.RunRunning,
		startTime: time.Now(),
	}

	c.mu.Lock()
	c.runs[id] = r
	c.mu.Unlock()

	c.pool.Submit(r)
	return id, nil
}

// runSimulation is the worker-pool job body: runLoop of spec.md §4.8,
// yielding to the Go scheduler every 10 steps so one simulation cannot
// monopolize a worker slot (spec.md §5, §9's async-yield note).
func (c *Coordinator) runSimulation(ctx context.Context, r *run) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("simulation run panicked", "id", r.id, "recover", rec)
			r.markFailed("internal error during simulation run")
		}
	}()

	total := r.cfg.TotalSteps()
	dtHours := r.cfg.TimeStepSec / 3600

	for step := 0; step < total; step++ {
		if r.stopRequested.Load() {
			r.markStopped()
			return
		}

		before := len(r.driver.Snapshots())
		r.driver.Step(ctx, dtHours)
		if after := len(r.driver.Snapshots()); after > before && c.broadcaster != nil {
			snaps := r.driver.Snapshots()
			latest := snaps[len(snaps)-1]
			c.broadcaster.Broadcast(&latest)
		}

		r.setProgress(int(float64(step+1) / float64(total) * 100))

		if (step+1)%10 == 0 {
			runtime.Gosched()
		}
	}

	c.finish(r)
}

// finish computes the §4.5–§4.7 aggregate and marks the run completed.
func (c *Coordinator) finish(r *run) {
	all := r.driver.Ensemble().All()
	heat := density.Analyze(all)
	zones := containment.Calculate(all)

	elapsedHours := r.driver.CurrentTimeSec() / 3600
	waterTempF := r.env.ConditionsAt(r.cfg.LKP, time.Now()).WaterTempF
	assessment := survival.Estimate(r.cfg.Victim, waterTempF, elapsedHours)

	r.markCompleted(&Results{
		Density:     heat,
		Containment: zones,
		Survival:    assessment,
		Stats:       r.driver.Stats(),
		Snapshots:   r.driver.Snapshots(),
	})
}

func (c *Coordinator) get(id uuid.UUID) (*run, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.runs[id]
	if !ok {
		return nil, errkind.New(errkind.NotFound, "simulation not found")
	}
	return r, nil
}

// Status returns the current lifecycle state of a simulation.
func (c *Coordinator) Status(id uuid.UUID) (models.StatusReport, error) {
	r, err := c.get(id)
	if err != nil {
		return models.StatusReport{}, err
	}
	return r.statusReport(), nil
}

// Results returns the completed simulation's §4.5–§4.7 aggregate.
// Returns a NotReady error if the simulation has not completed.
func (c *Coordinator) Results(id uuid.UUID) (*Results, error) {
	r, err := c.get(id)
	if err != nil {
		return nil, err
	}
	status, results := r.statusSnapshot()
	if status != models.RunCompleted {
		return nil, errkind.New(errkind.NotReady, "simulation has not completed")
	}
	return results, nil
}

// Snapshot returns the snapshot recorded at the given hour, or a
// NotFound error if no snapshot exists for that hour yet.
func (c *Coordinator) Snapshot(id uuid.UUID, hour int) (*models.Snapshot, error) {
	r, err := c.get(id)
	if err != nil {
		return nil, err
	}
	for _, s := range r.driver.Snapshots() {
		if s.Hour == hour {
			snap := s
			return &snap, nil
		}
	}
	return nil, errkind.New(errkind.NotFound, "no snapshot at that hour")
}

// List returns a status report for every registered simulation.
func (c *Coordinator) List() []models.StatusReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.StatusReport, 0, len(c.runs))
	for _, r := range c.runs {
		out = append(out, r.statusReport())
	}
	return out
}

// StopSimulation requests that a running simulation stop. Idempotent:
// stopping an already-stopped or completed simulation is a no-op.
func (c *Coordinator) StopSimulation(id uuid.UUID) error {
	r, err := c.get(id)
	if err != nil {
		return err
	}
	r.stopRequested.Store(true)
	return nil
}

// Delete removes a simulation from the registry.
func (c *Coordinator) Delete(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.runs[id]; !ok {
		return errkind.New(errkind.NotFound, "simulation not found")
	}
	delete(c.runs, id)
	return nil
}

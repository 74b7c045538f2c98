package coordinator

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sardrift/driftsim/internal/containment"
	"github.com/sardrift/driftsim/internal/density"
	"github.com/sardrift/driftsim/internal/driver"
	"github.com/sardrift/driftsim/internal/environment"
	"github.com/sardrift/driftsim/internal/models"
	"github.com/sardrift/driftsim/internal/survival"
)

// Results is the §4.5–§4.7 aggregate the coordinator computes once a
// simulation completes, plus its full hourly snapshot sequence.
type Results struct {
	Density     density.HeatMap
	Containment containment.Containment
	Survival    survival.Assessment
	Stats       models.Stats
	Snapshots   []models.Snapshot
}

// run is one registered simulation: its driver, lifecycle state, and
// (once completed) its results. The coordinator is the only code that
// mutates a run's state; everything else reads through its accessors.
type run struct {
	id     uuid.UUID
	cfg    models.SimulationConfig
	driver *driver.Driver
	env    environment.Provider

	mu        sync.RWMutex
	status    models.RunStatus
	progress  int
	startTime time.Time
	endTime   *time.Time
	errMsg    string
	results   *Results

	stopRequested atomic.Bool
}

func (r *run) setProgress(pct int) {
	r.mu.Lock()
	r.progress = pct
	r.mu.Unlock()
}

func (r *run) markStopped() {
	r.mu.Lock()
	r.status = models.RunStopped
	now := time.Now()
	r.endTime = &now
	r.mu.Unlock()
}

func (r *run) markFailed(msg string) {
	r.mu.Lock()
	r.status = models.RunFailed
	r.errMsg = msg
	now := time.Now()
	r.endTime = &now
	r.mu.Unlock()
}

func (r *run) markCompleted(results *Results) {
	r.mu.Lock()
	r.status = models.RunCompleted
	r.progress = 100
	r.results = results
	now := time.Now()
	r.endTime = &now
	r.mu.Unlock()
}

func (r *run) statusReport() models.StatusReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.StatusReport{
		ID:        r.id.String(),
		Status:    r.status,
		Progress:  r.progress,
		StartTime: r.startTime,
		EndTime:   r.endTime,
		Error:     r.errMsg,
	}
}

func (r *run) statusSnapshot() (models.RunStatus, *Results) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status, r.results
}

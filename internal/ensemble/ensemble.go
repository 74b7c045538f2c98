// Package ensemble owns the particle slice, exposing the active/beached/
// recovered partitions and per-id mutation spec.md §4.4 requires.
// Particle memory is allocated once at init and never reallocated
// (spec.md §5).
package ensemble

import (
	"math"
	"math/rand"

	"github.com/sardrift/driftsim/internal/geo"
	"github.com/sardrift/driftsim/internal/models"
)

// Ensemble owns a fixed-size slice of particles.
type Ensemble struct {
	particles []models.Particle
}

// New creates an Ensemble of count particles, uniformly distributed
// inside a disc of radius spreadRadiusKm around lkp (spec.md §4.4): θ ~
// U[0,2π), ρ = √U·R, converted to degrees using the latitude-aware
// longitude scale (useLatCorrection controls that, per spec.md §9).
func New(lkp models.LatLng, count int, spreadRadiusKm float64, rng *rand.Rand, useLatCorrection bool) *Ensemble {
	particles := make([]models.Particle, count)
	for i := 0; i < count; i++ {
		theta := rng.Float64() * 2 * math.Pi
		rho := math.Sqrt(rng.Float64()) * spreadRadiusKm

		dxKm := rho * math.Cos(theta)
		dyKm := rho * math.Sin(theta)
		dLat, dLng := geo.FlatOffsetDeg(dxKm, dyKm, lkp.Lat, useLatCorrection)

		particles[i] = models.Particle{
			ID:     i,
			Lat:    lkp.Lat + dLat,
			Lng:    lkp.Lng + dLng,
			Status: models.StatusActive,
		}
	}
	return &Ensemble{particles: particles}
}

// Len returns the total (constant) particle count.
func (e *Ensemble) Len() int {
	return len(e.particles)
}

// At returns a pointer to particle i for in-place mutation by the driver.
// The driver is the only caller permitted to mutate particles (spec.md
// §3 Ownership).
func (e *Ensemble) At(i int) *models.Particle {
	return &e.particles[i]
}

// All returns the full backing slice. Callers must not retain a
// reference across a step boundary if they intend to observe a
// consistent snapshot — take a copy via Snapshot-building code instead.
func (e *Ensemble) All() []models.Particle {
	return e.particles
}

// Active returns copies of all particles with Status == StatusActive.
func (e *Ensemble) Active() []models.Particle {
	out := make([]models.Particle, 0, len(e.particles))
	for _, p := range e.particles {
		if p.Status == models.StatusActive {
			out = append(out, p)
		}
	}
	return out
}

// Beached returns copies of all particles with Status == StatusBeached.
func (e *Ensemble) Beached() []models.Particle {
	out := make([]models.Particle, 0)
	for _, p := range e.particles {
		if p.Status == models.StatusBeached {
			out = append(out, p)
		}
	}
	return out
}

// Recovered returns copies of all particles with Status ==
// StatusRecovered.
func (e *Ensemble) Recovered() []models.Particle {
	out := make([]models.Particle, 0)
	for _, p := range e.particles {
		if p.Status == models.StatusRecovered {
			out = append(out, p)
		}
	}
	return out
}

// Counts returns the current active/beached/total partition sizes.
func (e *Ensemble) Counts() models.Counts {
	c := models.Counts{Total: len(e.particles)}
	for _, p := range e.particles {
		switch p.Status {
		case models.StatusActive:
			c.Active++
		case models.StatusBeached:
			c.Beached++
		}
	}
	return c
}

// Centroid returns the arithmetic-mean position of active particles, or
// nil if there are none (spec.md §3).
func (e *Ensemble) Centroid() *models.LatLng {
	var sumLat, sumLng float64
	n := 0
	for _, p := range e.particles {
		if p.Status != models.StatusActive {
			continue
		}
		sumLat += p.Lat
		sumLng += p.Lng
		n++
	}
	if n == 0 {
		return nil
	}
	return &models.LatLng{Lat: sumLat / float64(n), Lng: sumLng / float64(n)}
}

// Package environment provides the EnvironmentalProvider interface of
// spec.md §6 (conditions_at, advance) plus a synthetic implementation
// that evolves wind/current over time per spec.md's rules, and an
// HTTP-polling implementation grounded on
// internal/ingestion/usgs.go's poll pattern.
package environment

import (
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

// Provider is the EnvironmentalProvider interface of spec.md §6.
type Provider interface {
	ConditionsAt(p models.LatLng, t time.Time) models.EnvironmentalSnapshot
	Advance(t time.Time)
}

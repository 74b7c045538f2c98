// Package containment implements the centroid/distance-sort/convex-hull
// containment-probability calculator of spec.md §4.6.
package containment

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sardrift/driftsim/internal/geo"
	"github.com/sardrift/driftsim/internal/models"
)

// MinActiveParticles is the threshold below which containment returns
// empty polygons and zero confidence (spec.md §4.6/§8).
const MinActiveParticles = 3

// Percentiles are the containment-zone prefixes spec.md §4.6 specifies.
var Percentiles = []float64{0.50, 0.90, 0.95}

// Result is one percentile's containment polygon.
type Result struct {
	Percentile float64
	Polygon    []models.LatLng // counter-clockwise, simple
}

// Containment is the full output of Calculate.
type Containment struct {
	Centroid   models.LatLng
	Confidence float64
	Zones      []Result
}

// Calculate computes the containment zones for the given active
// particles. With fewer than MinActiveParticles it returns empty
// polygons and zero confidence (spec.md §4.6/§8).
func Calculate(particles []models.Particle) Containment {
	active := make([]models.Particle, 0, len(particles))
	for _, p := range particles {
		if p.Status == models.StatusActive {
			active = append(active, p)
		}
	}
	if len(active) < MinActiveParticles {
		zones := make([]Result, len(Percentiles))
		for i, pct := range Percentiles {
			zones[i] = Result{Percentile: pct, Polygon: []models.LatLng{}}
		}
		return Containment{Zones: zones}
	}

	centroid := centroidOf(active)

	type withDist struct {
		p    models.Particle
		dist float64
	}
	withDists := make([]withDist, len(active))
	dists := make([]float64, len(active))
	for i, p := range active {
		d := geo.Haversine(centroid, models.LatLng{Lat: p.Lat, Lng: p.Lng})
		withDists[i] = withDist{p: p, dist: d}
		dists[i] = d
	}
	sort.Slice(withDists, func(i, j int) bool { return withDists[i].dist < withDists[j].dist })

	mean := stat.Mean(dists, nil)
	stdDev := stat.StdDev(dists, nil)
	confidence := clamp01(1 - stdDev/(mean+1))

	zones := make([]Result, len(Percentiles))
	for i, pct := range Percentiles {
		n := int(math.Round(float64(len(withDists)) * pct))
		if n < 3 {
			n = min(3, len(withDists))
		}
		pts := make([]models.LatLng, n)
		for j := 0; j < n; j++ {
			pts[j] = models.LatLng{Lat: withDists[j].p.Lat, Lng: withDists[j].p.Lng}
		}
		zones[i] = Result{Percentile: pct, Polygon: ConvexHull(pts)}
	}

	return Containment{Centroid: centroid, Confidence: confidence, Zones: zones}
}

func centroidOf(particles []models.Particle) models.LatLng {
	var sumLat, sumLng float64
	for _, p := range particles {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(particles))
	return models.LatLng{Lat: sumLat / n, Lng: sumLng / n}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// PointInPolygon reports whether p is inside polygon using ray casting
// over (lat, lng) coordinates (spec.md §4.6).
func PointInPolygon(p models.LatLng, polygon []models.LatLng) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Lng < p.Lng) != (pj.Lng < p.Lng) {
			slope := (p.Lng - pi.Lng) / (pj.Lng - pi.Lng)
			xCross := pi.Lat + slope*(pj.Lat-pi.Lat)
			if p.Lat < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

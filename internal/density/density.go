// Package density implements the grid-binning heat-map analyzer of
// spec.md §4.5.
package density

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sardrift/driftsim/internal/geo"
	"github.com/sardrift/driftsim/internal/models"
)

// CellSizeDeg is the square grid cell size spec.md §4.5 specifies
// (~1.1 km at mid-latitudes).
const CellSizeDeg = 0.01

// Cell is one occupied grid cell.
type Cell struct {
	CenterLat float64
	CenterLng float64
	Count     int
	Weight    float64 // count / maxCount
	ParticleIDs []int
}

// HeatMap is the sorted (by count descending) set of occupied cells.
type HeatMap struct {
	Cells    []Cell
	MaxCount int
}

func cellIndex(v float64) int {
	return int(math.Floor(v / CellSizeDeg))
}

func cellCenter(idx int) float64 {
	return float64(idx)*CellSizeDeg + CellSizeDeg/2
}

// Analyze bins active particles into the §4.5 grid and returns the
// resulting heat map, sorted by count descending.
func Analyze(particles []models.Particle) HeatMap {
	type key struct{ i, j int }
	bins := make(map[key]*Cell)

	for _, p := range particles {
		if p.Status != models.StatusActive {
			continue
		}
		k := key{cellIndex(p.Lat), cellIndex(p.Lng)}
		c, ok := bins[k]
		if !ok {
			c = &Cell{CenterLat: cellCenter(k.i), CenterLng: cellCenter(k.j)}
			bins[k] = c
		}
		c.Count++
		c.ParticleIDs = append(c.ParticleIDs, p.ID)
	}

	cells := make([]Cell, 0, len(bins))
	maxCount := 0
	for _, c := range bins {
		if c.Count > maxCount {
			maxCount = c.Count
		}
		cells = append(cells, *c)
	}
	for i := range cells {
		if maxCount > 0 {
			cells[i].Weight = float64(cells[i].Count) / float64(maxCount)
		}
	}

	sort.Slice(cells, func(i, j int) bool { return cells[i].Count > cells[j].Count })

	return HeatMap{Cells: cells, MaxCount: maxCount}
}

// HighDensity returns the cells whose count is >= 0.1·maxCount.
func (h HeatMap) HighDensity() []Cell {
	threshold := 0.1 * float64(h.MaxCount)
	out := make([]Cell, 0)
	for _, c := range h.Cells {
		if float64(c.Count) >= threshold {
			out = append(out, c)
		}
	}
	return out
}

// CountStats returns the mean and standard deviation of the per-cell
// particle counts, using gonum/stat rather than hand-rolled accumulation.
func (h HeatMap) CountStats() (mean, stdDev float64) {
	if len(h.Cells) == 0 {
		return 0, 0
	}
	counts := make([]float64, len(h.Cells))
	for i, c := range h.Cells {
		counts[i] = float64(c.Count)
	}
	mean = stat.Mean(counts, nil)
	stdDev = stat.StdDev(counts, nil)
	return mean, stdDev
}

// SearchAreaKm2 returns the bounding-box search-area measure of spec.md
// §4.5: (Δlat·111.32)·(Δlng·111.32·cos φ̄) in km².
func SearchAreaKm2(particles []models.LatLng) float64 {
	bb := geo.BoundingBoxOf(particles)
	return bb.AreaKm2()
}

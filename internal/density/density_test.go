package density

import (
	"testing"

	"github.com/sardrift/driftsim/internal/models"
)

func particlesAt(coords [][2]float64) []models.Particle {
	out := make([]models.Particle, len(coords))
	for i, c := range coords {
		out[i] = models.Particle{ID: i, Lat: c[0], Lng: c[1], Status: models.StatusActive}
	}
	return out
}

func TestAnalyzeWeightInvariant(t *testing.T) {
	particles := particlesAt([][2]float64{
		{0, 0}, {0, 0}, {0, 0}, // 3 in one cell
		{1, 1},                 // 1 in another
	})
	hm := Analyze(particles)
	if hm.MaxCount != 3 {
		t.Fatalf("expected maxCount 3, got %d", hm.MaxCount)
	}
	for _, c := range hm.Cells {
		if c.Weight < 0 || c.Weight > 1 {
			t.Errorf("weight out of [0,1]: %v", c.Weight)
		}
	}
	if hm.Cells[0].Weight != 1 {
		t.Errorf("expected the max-count cell to have weight 1, got %v", hm.Cells[0].Weight)
	}
}

func TestAnalyzeSortedDescending(t *testing.T) {
	particles := particlesAt([][2]float64{
		{1, 1},
		{0, 0}, {0, 0}, {0, 0},
		{2, 2}, {2, 2},
	})
	hm := Analyze(particles)
	for i := 1; i < len(hm.Cells); i++ {
		if hm.Cells[i].Count > hm.Cells[i-1].Count {
			t.Errorf("cells not sorted descending by count: %+v", hm.Cells)
		}
	}
}

func TestAnalyzeIgnoresInactiveParticles(t *testing.T) {
	particles := particlesAt([][2]float64{{0, 0}})
	particles[0].Status = models.StatusBeached
	hm := Analyze(particles)
	if len(hm.Cells) != 0 {
		t.Errorf("expected no cells for an all-beached ensemble, got %+v", hm.Cells)
	}
}

func TestHighDensityThreshold(t *testing.T) {
	particles := particlesAt([][2]float64{
		{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, // 11
		{5, 5}, // 1, below 0.1*11
	})
	hm := Analyze(particles)
	hd := hm.HighDensity()
	if len(hd) != 1 {
		t.Errorf("expected exactly 1 high-density cell, got %d", len(hd))
	}
}

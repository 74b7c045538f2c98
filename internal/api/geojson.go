package api

import (
	"github.com/sardrift/driftsim/internal/models"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// toGeoJSON renders one snapshot's particles as a point-feature
// collection, adapted from the teacher's toGeoJSON (disaster records →
// particle positions).
func toGeoJSON(s models.Snapshot) featureCollection {
	features := make([]feature, 0, len(s.Particles))

	for _, p := range s.Particles {
		features = append(features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type:        "Point",
				Coordinates: []float64{p.Lng, p.Lat},
			},
			Properties: map[string]any{
				"id":      p.ID,
				"status":  string(p.Status),
				"depth_m": p.DepthM,
				"hour":    s.Hour,
			},
		})
	}

	return featureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

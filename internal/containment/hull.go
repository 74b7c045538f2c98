package containment

import (
	"sort"

	"github.com/sardrift/driftsim/internal/models"
)

// cross returns the z-component of (o->a) x (o->b), treating (lat, lng)
// as Cartesian (x=lat, y=lng) — the same small-spatial-extent
// approximation the density grid and shore-direction conventions use
// (spec.md §9: do not "fix" this without revisiting those too).
func cross(o, a, b models.LatLng) float64 {
	return (a.Lat-o.Lat)*(b.Lng-o.Lng) - (a.Lng-o.Lng)*(b.Lat-o.Lat)
}

// ConvexHull computes the Andrew monotone-chain convex hull of pts,
// returning a simple, counter-clockwise polygon with no three
// consecutive collinear vertices (spec.md §4.6/§8). Idempotent: hulling
// a hull's own vertices reproduces the same hull.
func ConvexHull(pts []models.LatLng) []models.LatLng {
	uniq := dedupe(pts)
	if len(uniq) < 3 {
		return uniq
	}

	sort.Slice(uniq, func(i, j int) bool {
		if uniq[i].Lat != uniq[j].Lat {
			return uniq[i].Lat < uniq[j].Lat
		}
		return uniq[i].Lng < uniq[j].Lng
	})

	lower := buildChain(uniq)
	upper := buildChain(reversed(uniq))

	hull := make([]models.LatLng, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

// buildChain builds one monotone chain (lower or upper, depending on the
// input order) of the Andrew chain algorithm.
func buildChain(pts []models.LatLng) []models.LatLng {
	chain := make([]models.LatLng, 0, len(pts))
	for _, p := range pts {
		for len(chain) >= 2 && cross(chain[len(chain)-2], chain[len(chain)-1], p) <= 0 {
			chain = chain[:len(chain)-1]
		}
		chain = append(chain, p)
	}
	return chain
}

func reversed(pts []models.LatLng) []models.LatLng {
	out := make([]models.LatLng, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func dedupe(pts []models.LatLng) []models.LatLng {
	seen := make(map[models.LatLng]struct{}, len(pts))
	out := make([]models.LatLng, 0, len(pts))
	for _, p := range pts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

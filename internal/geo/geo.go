// Package geo provides the pure geodesic math the rest of the engine
// builds on: haversine distance, bearing, destination, midpoint, bounding
// boxes, and the unit conversions spec.md §4.1 specifies.
//
// Grounded on ngmaloney-marine-terminal/internal/zonelookup.go's
// HaversineDistance (same formula, same shape), generalized to the rest
// of the kernel.
package geo

import (
	"math"

	"github.com/sardrift/driftsim/internal/models"
)

// EarthRadiusKm is the mean Earth radius spec.md §4.1 specifies.
const EarthRadiusKm = 6371.0

// LngDegPerKm is the kilometres-per-degree-of-longitude constant used
// throughout the engine without the cos(latitude) correction, exactly as
// spec.md §4.1/§9 directs be preserved for compatibility.
const LngDegPerKm = 111.32

// LatDegPerKm is the kilometres-per-degree-of-latitude constant.
const LatDegPerKm = 111.32

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Haversine returns the great-circle distance between p1 and p2 in km.
func Haversine(p1, p2 models.LatLng) float64 {
	lat1, lat2 := toRad(p1.Lat), toRad(p2.Lat)
	dLat := toRad(p2.Lat - p1.Lat)
	dLng := toRad(p2.Lng - p1.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Bearing returns the initial true bearing in degrees [0, 360) from p1 to
// p2.
func Bearing(p1, p2 models.LatLng) float64 {
	lat1, lat2 := toRad(p1.Lat), toRad(p2.Lat)
	dLng := toRad(p2.Lng - p1.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	brg := toDeg(math.Atan2(y, x))
	return math.Mod(brg+360, 360)
}

// Destination returns the point distKm away from p on bearing brgDeg
// (degrees true).
func Destination(p models.LatLng, distKm, brgDeg float64) models.LatLng {
	lat1 := toRad(p.Lat)
	brg := toRad(brgDeg)
	angularDist := distKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angularDist) +
		math.Cos(lat1)*math.Sin(angularDist)*math.Cos(brg))
	lng2 := toRad(p.Lng) + math.Atan2(
		math.Sin(brg)*math.Sin(angularDist)*math.Cos(lat1),
		math.Cos(angularDist)-math.Sin(lat1)*math.Sin(lat2))

	return models.LatLng{Lat: toDeg(lat2), Lng: toDeg(lng2)}
}

// Midpoint returns the great-circle midpoint between p1 and p2.
func Midpoint(p1, p2 models.LatLng) models.LatLng {
	lat1, lng1 := toRad(p1.Lat), toRad(p1.Lng)
	lat2 := toRad(p2.Lat)
	dLng := toRad(p2.Lng - p1.Lng)

	bx := math.Cos(lat2) * math.Cos(dLng)
	by := math.Cos(lat2) * math.Sin(dLng)

	lat3 := math.Atan2(math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by))
	lng3 := lng1 + math.Atan2(by, math.Cos(lat1)+bx)

	return models.LatLng{Lat: toDeg(lat3), Lng: toDeg(lng3)}
}

// BoundingBox is a lat/lng-aligned rectangle.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBoxOf returns the smallest BoundingBox containing all of pts.
// Returns the zero value if pts is empty.
func BoundingBoxOf(pts []models.LatLng) BoundingBox {
	if len(pts) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{
		MinLat: pts[0].Lat, MaxLat: pts[0].Lat,
		MinLng: pts[0].Lng, MaxLng: pts[0].Lng,
	}
	for _, p := range pts[1:] {
		bb.MinLat = math.Min(bb.MinLat, p.Lat)
		bb.MaxLat = math.Max(bb.MaxLat, p.Lat)
		bb.MinLng = math.Min(bb.MinLng, p.Lng)
		bb.MaxLng = math.Max(bb.MaxLng, p.Lng)
	}
	return bb
}

// AreaKm2 returns the bounding box's approximate area using the flat
// 111.32 km/deg scale, with the longitude side additionally scaled by
// the cosine of the box's mid latitude (spec.md §4.5).
func (bb BoundingBox) AreaKm2() float64 {
	midLat := (bb.MinLat + bb.MaxLat) / 2
	dLat := bb.MaxLat - bb.MinLat
	dLng := bb.MaxLng - bb.MinLng
	return (dLat * LatDegPerKm) * (dLng * LngDegPerKm * math.Cos(toRad(midLat)))
}

// NauticalMilesToKm converts nautical miles to km.
func NauticalMilesToKm(nm float64) float64 { return nm * 1.852 }

// KmToNauticalMiles converts km to nautical miles.
func KmToNauticalMiles(km float64) float64 { return km / 1.852 }

// KnotsToKmh converts knots to km/h (1 knot = 1.852 km/h, spec.md §4.2).
func KnotsToKmh(kn float64) float64 { return kn * 1.852 }

// KmhToKnots converts km/h to knots.
func KmhToKnots(kmh float64) float64 { return kmh / 1.852 }

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return toRad(deg) }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return toDeg(rad) }

// FlatOffsetDeg converts a (dxKm east, dyKm north) displacement at
// latitude latDeg into (Δlat, Δlng) degrees using the flat approximation
// spec.md §4.1/§9 requires: both axes scaled by 111.32 km/deg when
// useLatCorrection is false (the source's behavior, preserved for
// compatibility); the cos(φ) correction is applied to the longitude axis
// only when useLatCorrection is true.
func FlatOffsetDeg(dxKm, dyKm, latDeg float64, useLatCorrection bool) (dLatDeg, dLngDeg float64) {
	dLatDeg = dyKm / LatDegPerKm
	lngScale := LngDegPerKm
	if useLatCorrection {
		lngScale = LngDegPerKm * math.Cos(toRad(latDeg))
		if lngScale == 0 {
			lngScale = LngDegPerKm
		}
	}
	dLngDeg = dxKm / lngScale
	return dLatDeg, dLngDeg
}

// DirOffsetDeg converts a displacement of magnitude distKm in compass
// direction dirDeg (0 = north, clockwise) at latitude latDeg into
// (Δlat, Δlng) degrees, following spec.md §9's required convention:
// lat-component = cos(dir)·d, lng-component = sin(dir)·d.
func DirOffsetDeg(distKm, dirDeg, latDeg float64, useLatCorrection bool) (dLatDeg, dLngDeg float64) {
	rad := toRad(dirDeg)
	dxKm := distKm * math.Sin(rad)
	dyKm := distKm * math.Cos(rad)
	return FlatOffsetDeg(dxKm, dyKm, latDeg, useLatCorrection)
}

// Package geo converts relative latitude/longitude offsets into absolute
// coordinates and measures distances between report and sighting points.
//
// Offsets use a flat-earth approximation: no normalization and no
// wraparound at the poles or the antimeridian. At neighborhood scale the
// error is negligible.
package geo

import (
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/scrypster/lostpaws/pkg/types"
)

// earthRadiusMeters is the mean Earth radius used by s2 distance conversions.
const earthRadiusMeters = 6371010.0

// ApplyOffset returns base shifted by dLat/dLng degrees.
func ApplyOffset(base types.Coordinate, dLat, dLng float64) types.Coordinate {
	return types.Coordinate{
		Latitude:  base.Latitude + dLat,
		Longitude: base.Longitude + dLng,
	}
}

// KmRadiusLabel formats a radius in meters as kilometers with one decimal
// place. Display only.
func KmRadiusLabel(radiusMeters float64) string {
	return fmt.Sprintf("%.1f", radiusMeters/1000)
}

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b types.Coordinate) float64 {
	la := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	lb := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return la.Distance(lb).Radians() * earthRadiusMeters
}

// IsValid reports whether c is a valid point on the sphere.
func IsValid(c types.Coordinate) bool {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude).IsValid()
}

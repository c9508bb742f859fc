// Package geo computes great-circle distances between WGS84 coordinates.
package geo

import "math"

// EarthRadius is the IUGG mean Earth radius in meters.
const EarthRadius = 6371008.8

// Distance returns the haversine distance in meters between (lng1, lat1) and
// (lng2, lat2), all in degrees.
func Distance(lng1, lat1, lng2, lat2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLng/2)*math.Sin(dLng/2)
	if a > 1 {
		a = 1
	}
	return 2 * EarthRadius * math.Asin(math.Sqrt(a))
}

// Package geo provides great-circle distance computation between
// geographic coordinates.
package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance computes the great-circle distance in kilometers between two
// points using the Haversine formula.
func Distance(a, b Point) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	deltaLat := degreesToRadians(b.Lat - a.Lat)
	deltaLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// DistanceBetween returns the distance between two optional coordinates,
// rounded to two decimal places. When either coordinate is missing there is
// no meaningful distance and nil is returned; a missing viewer location must
// never be treated as the origin.
func DistanceBetween(a, b *Point) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := math.Round(Distance(*a, *b)*100) / 100
	return &d
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

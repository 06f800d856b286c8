package search

import (
	"math"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
)

// EarthRadiusKm is the mean radius used for great-circle distances
const EarthRadiusKm = 6371.0

// DistanceKm is the haversine distance between two coordinates
func DistanceKm(a, b filter.Coordinate) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	dLat := lat2 - lat1
	dLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h just past 1 for antipodal points
	h = math.Min(1, h)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

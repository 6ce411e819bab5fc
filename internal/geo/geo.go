// Package geo provides the great-circle helpers used for vessel-to-port
// classification.
package geo

import (
	"math"

	"github.com/cyberport/seatrack/internal/core/domain"
)

const earthRadiusKm = 6371

// DistanceKm returns the haversine great-circle distance in kilometres.
// Pure and total: NaN inputs propagate NaN, callers pass validated
// coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// NearestPort returns the ID of the closest reference point, or "" when the
// set is empty. Ties keep the first point in slice order, so results are
// deterministic for a fixed configuration.
func NearestPort(lat, lon float64, ports []domain.ReferencePoint) string {
	nearest := ""
	minDist := math.Inf(1)
	for _, p := range ports {
		if d := DistanceKm(lat, lon, p.Lat, p.Lon); d < minDist {
			minDist = d
			nearest = p.ID
		}
	}
	return nearest
}

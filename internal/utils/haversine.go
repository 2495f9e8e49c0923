package utils

import (
	"math"

	"github.com/tripplanner/backend/internal/models"
)

const earthRadiusKm = 6371.0

func HaversineKm(from, to models.GeoCoordinate) float64 {
	dLat := degreesToRadians(to.Lat - from.Lat)
	dLon := degreesToRadians(to.Lng - from.Lng)

	lat1R := degreesToRadians(from.Lat)
	lat2R := degreesToRadians(to.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1R)*math.Cos(lat2R)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

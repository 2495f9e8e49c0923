// Package routing estimates driving times between coordinates through a
// chain of routing services, falling back to a straight-line heuristic.
package routing

import (
	"context"
	"errors"
	"math"

	"github.com/tripplanner/backend/internal/models"
	"github.com/tripplanner/backend/internal/utils"
)

var ErrNoRoute = errors.New("no route found")

// Provider returns the raw driving duration in seconds between two points.
type Provider interface {
	Name() string
	Duration(ctx context.Context, from, to models.GeoCoordinate) (float64, error)
}

const (
	heuristicSpeedKmh = 60.0
	heuristicDetour   = 1.2
)

// HeuristicMinutes estimates a drive from the great-circle distance at an
// average speed with a detour factor, rounded to the quarter hour.
func HeuristicMinutes(from, to models.GeoCoordinate) int {
	km := utils.HaversineKm(from, to)
	minutes := math.Round(km / heuristicSpeedKmh * 60 * heuristicDetour)
	return utils.RoundToQuarterHour(minutes)
}

// ProviderMinutes converts a provider duration in seconds into rounded minutes.
func ProviderMinutes(seconds float64) int {
	return utils.RoundToQuarterHour(float64(utils.SecondsToMinutes(seconds)))
}

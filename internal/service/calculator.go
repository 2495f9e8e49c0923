package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripplanner/backend/internal/models"
	"github.com/tripplanner/backend/internal/utils"
)

var (
	ErrPrecondition      = errors.New("itinerary not eligible for calculation")
	ErrTooFewLocations   = fmt.Errorf("%w: need at least 2 locations", ErrPrecondition)
	ErrBlankLocationName = fmt.Errorf("%w: all locations need names", ErrPrecondition)
)

const DefaultCourtesyDelay = 200 * time.Millisecond

type Geocoder interface {
	Resolve(ctx context.Context, name string) (models.GeocodeResult, error)
}

type RouteEstimator interface {
	Estimate(ctx context.Context, from, to models.GeoCoordinate) models.RouteEstimate
}

// DriveTimeCalculator fills in the driving time of every leg of an itinerary.
// Legs are resolved one at a time so that Delay spaces out provider requests
// and later legs reuse cached results from earlier ones.
type DriveTimeCalculator struct {
	Resolver  Geocoder
	Estimator RouteEstimator
	Delay     time.Duration
	Logger    zerolog.Logger
}

type PairResult struct {
	Duration     int                  `json:"duration"`
	Source       string               `json:"source"`
	From         models.GeocodeResult `json:"from"`
	To           models.GeocodeResult `json:"to"`
	RouteSummary string               `json:"route_summary"`
}

func CheckCalculable(it *models.Itinerary) error {
	if it == nil || len(it.Locations) < 2 {
		return ErrTooFewLocations
	}
	for _, loc := range it.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			return ErrBlankLocationName
		}
	}
	return nil
}

// Calculate assigns each location the driving time from its predecessor.
// Durations are committed only when every leg resolves; on error the
// itinerary is returned unchanged.
func (c *DriveTimeCalculator) Calculate(ctx context.Context, it *models.Itinerary) (*models.Itinerary, error) {
	if err := CheckCalculable(it); err != nil {
		return it, err
	}

	staged := make([]int, len(it.Locations))
	for i := 1; i < len(it.Locations); i++ {
		prev, curr := it.Locations[i-1], it.Locations[i]
		res, err := c.Pair(ctx, prev.Name, curr.Name)
		if err != nil {
			return it, fmt.Errorf("leg %d %q → %q: %w", i, prev.Name, curr.Name, err)
		}
		staged[i] = res.Duration
	}

	for i := range it.Locations {
		it.Locations[i].DrivingTime = staged[i]
	}
	it.Locations[0].DrivingTime = 0
	it.UpdateCalculations()
	it.Touch()

	c.Logger.Info().
		Str("itinerary_id", it.ID).
		Int("legs", len(it.Locations)-1).
		Int("total_driving_time", it.TotalDrivingTime).
		Msg("driving times calculated")
	return it, nil
}

// Pair resolves both names and estimates the drive between them.
func (c *DriveTimeCalculator) Pair(ctx context.Context, fromName, toName string) (PairResult, error) {
	if err := c.pause(ctx); err != nil {
		return PairResult{}, err
	}
	from, err := c.Resolver.Resolve(ctx, fromName)
	if err != nil {
		return PairResult{}, err
	}

	if err := c.pause(ctx); err != nil {
		return PairResult{}, err
	}
	to, err := c.Resolver.Resolve(ctx, toName)
	if err != nil {
		return PairResult{}, err
	}

	est := c.Estimator.Estimate(ctx, from.Coordinate, to.Coordinate)
	res := PairResult{
		Duration:     est.Minutes,
		Source:       est.Source,
		From:         from,
		To:           to,
		RouteSummary: from.DisplayName + " → " + to.DisplayName,
	}
	c.Logger.Debug().
		Str("route", res.RouteSummary).
		Str("drive_time", utils.FormatDriveTime(res.Duration)).
		Str("source", res.Source).
		Msg("drive time calculated")
	return res, nil
}

func (c *DriveTimeCalculator) pause(ctx context.Context) error {
	if c.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

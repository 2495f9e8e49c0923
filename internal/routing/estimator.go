package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripplanner/backend/internal/geocache"
	"github.com/tripplanner/backend/internal/models"
)

const DefaultTimeout = 15 * time.Second

// Estimator tries each provider in order and never fails: when every
// provider errors the heuristic estimate is returned and cached.
type Estimator struct {
	Providers []Provider
	Cache     *geocache.Cache
	Timeout   time.Duration
	Logger    zerolog.Logger
}

func (e *Estimator) Estimate(ctx context.Context, from, to models.GeoCoordinate) models.RouteEstimate {
	key := geocache.RouteKey(from, to)
	if e.Cache != nil {
		if cached, ok := e.Cache.Route(ctx, key); ok {
			return cached
		}
	}

	est, ok := e.fromProviders(ctx, from, to)
	if !ok {
		est = models.RouteEstimate{Minutes: HeuristicMinutes(from, to), Source: models.RouteSourceHeuristic}
		e.Logger.Warn().
			Str("from", from.String()).
			Str("to", to.String()).
			Int("minutes", est.Minutes).
			Msg("using estimated driving time")
	}

	// A cancelled caller gets the estimate but it is not cached, so the
	// next request still asks the providers.
	if e.Cache != nil && ctx.Err() == nil {
		e.Cache.SetRoute(ctx, key, est)
	}
	return est
}

func (e *Estimator) fromProviders(ctx context.Context, from, to models.GeoCoordinate) (models.RouteEstimate, bool) {
	for _, p := range e.Providers {
		if ctx.Err() != nil {
			return models.RouteEstimate{}, false
		}
		seconds, err := e.tryProvider(ctx, p, from, to)
		if err != nil {
			e.Logger.Warn().Err(err).Str("provider", p.Name()).Msg("routing service failed")
			continue
		}
		minutes := ProviderMinutes(seconds)
		e.Logger.Info().
			Str("provider", p.Name()).
			Float64("seconds", seconds).
			Int("minutes", minutes).
			Msg("route found")
		return models.RouteEstimate{Minutes: minutes, Source: models.ProviderSource(p.Name())}, true
	}
	return models.RouteEstimate{}, false
}

func (e *Estimator) tryProvider(ctx context.Context, p Provider, from, to models.GeoCoordinate) (float64, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	seconds, err := p.Duration(pctx, from, to)
	if err != nil {
		if errors.Is(pctx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("routing request timed out: %w", err)
		}
		return 0, err
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %v", seconds)
	}
	return seconds, nil
}

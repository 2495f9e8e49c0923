package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripplanner/backend/internal/geocache"
	"github.com/tripplanner/backend/internal/models"
)

const DefaultTimeout = 10 * time.Second

// Resolver turns a free-text place name into the best-scoring coordinate
// offered by the first provider in Providers that returns any candidate.
type Resolver struct {
	Providers []Provider
	Cache     *geocache.Cache
	Scoring   ScoringConfig
	Timeout   time.Duration
	Logger    zerolog.Logger
}

func (r *Resolver) Resolve(ctx context.Context, name string) (models.GeocodeResult, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return models.GeocodeResult{}, ErrInvalidInput
	}

	key := geocache.NormalizeName(query)
	if r.Cache != nil {
		if cached, ok := r.Cache.Geocode(ctx, key); ok {
			return cached, nil
		}
	}

	resErr := &ResolutionError{Query: query}
	for _, p := range r.Providers {
		if err := ctx.Err(); err != nil {
			return models.GeocodeResult{}, err
		}

		result, err := r.tryProvider(ctx, p, query)
		if err != nil {
			r.Logger.Warn().Err(err).Str("provider", p.Name()).Str("query", query).Msg("geocoding service failed")
			resErr.Attempts = append(resErr.Attempts, Attempt{Provider: p.Name(), Error: err.Error()})
			continue
		}

		if r.Cache != nil {
			r.Cache.SetGeocode(ctx, key, result)
		}
		return result, nil
	}

	// A caller deadline that expired during the last attempt is not a
	// resolution failure.
	if err := ctx.Err(); err != nil {
		return models.GeocodeResult{}, err
	}
	return models.GeocodeResult{}, resErr
}

func (r *Resolver) tryProvider(ctx context.Context, p Provider, query string) (models.GeocodeResult, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	candidates, err := p.Search(pctx, query)
	if err != nil {
		if errors.Is(pctx.Err(), context.DeadlineExceeded) {
			return models.GeocodeResult{}, fmt.Errorf("%s: request timed out: %w", p.Name(), err)
		}
		return models.GeocodeResult{}, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if len(candidates) == 0 {
		return models.GeocodeResult{}, fmt.Errorf("%s: location %q: %w", p.Name(), query, ErrNoCandidates)
	}

	best, err := r.selectBest(p, query, candidates)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("%s: %w", p.Name(), err)
	}

	displayName := best.Candidate.DisplayName
	if displayName == "" {
		displayName = query
	}
	return models.GeocodeResult{
		Coordinate:      best.Candidate.Coordinate,
		DisplayName:     displayName,
		SourceType:      best.Candidate.SourceType(),
		ConfidenceScore: best.Score,
		SelectionReason: best.Reason(),
		Provider:        p.Name(),
	}, nil
}

func (r *Resolver) selectBest(p Provider, query string, candidates []Candidate) (Scored, error) {
	score := ScoreCandidate
	if cs, ok := p.(CandidateScorer); ok {
		score = cs.ScoreCandidate
	}

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if !c.Coordinate.Valid() {
			r.Logger.Debug().Str("provider", p.Name()).Str("candidate", c.Name).Msg("dropping candidate with invalid coordinate")
			continue
		}
		scored = append(scored, score(r.Scoring, query, c))
	}
	if len(scored) == 0 {
		return Scored{}, fmt.Errorf("location %q: %w", query, ErrNoCandidates)
	}
	Rank(scored)

	if r.Logger.GetLevel() <= zerolog.DebugLevel {
		for i, s := range scored {
			r.Logger.Debug().
				Str("provider", p.Name()).
				Int("rank", i+1).
				Str("name", s.Candidate.Name).
				Str("type", s.Candidate.SourceType()).
				Float64("score", s.Score).
				Str("location", s.Candidate.Coordinate.String()).
				Str("reasons", s.Reason()).
				Msg("geocode candidate")
		}
	}

	best := scored[0]
	ties := 0
	for _, s := range scored[1:] {
		if s.Score == best.Score {
			ties++
		}
	}
	if ties > 0 {
		r.Logger.Warn().
			Str("query", query).
			Int("tied", ties+1).
			Float64("score", best.Score).
			Msg("several locations share the top score, selected by population and order")
	}

	r.Logger.Info().
		Str("provider", p.Name()).
		Str("query", query).
		Str("selected", best.Candidate.DisplayName).
		Str("location", best.Candidate.Coordinate.String()).
		Float64("score", best.Score).
		Msg("geocoded location")
	return best, nil
}

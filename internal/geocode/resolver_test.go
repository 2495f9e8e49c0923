package geocode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripplanner/backend/internal/geocache"
	"github.com/tripplanner/backend/internal/models"
)

type stubProvider struct {
	name       string
	candidates []Candidate
	err        error
	delay      time.Duration
	calls      int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, _ string) ([]Candidate, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.candidates, s.err
}

func bath() Candidate {
	return Candidate{
		Coordinate:  models.GeoCoordinate{Lat: 51.38, Lng: -2.36},
		Name:        "Bath",
		DisplayName: "Bath, Somerset, United Kingdom",
		Class:       "place",
		Value:       "city",
	}
}

func newResolver(providers ...Provider) *Resolver {
	return &Resolver{
		Providers: providers,
		Cache:     geocache.New(),
		Scoring:   DefaultScoringConfig(),
		Timeout:   time.Second,
		Logger:    zerolog.Nop(),
	}
}

func TestResolve_BlankInput(t *testing.T) {
	p := &stubProvider{name: "p"}
	r := newResolver(p)

	_, err := r.Resolve(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, p.calls)
}

func TestResolve_UsesCacheForEquivalentQueries(t *testing.T) {
	p := &stubProvider{name: "p", candidates: []Candidate{bath()}}
	r := newResolver(p)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "Bath")
	require.NoError(t, err)
	second, err := r.Resolve(ctx, "  bATH ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "place:city", first.SourceType)
	assert.Equal(t, "p", first.Provider)
	assert.True(t, first.Coordinate.Valid())
}

func TestResolve_FallsBackToNextProvider(t *testing.T) {
	failing := &stubProvider{name: "primary", err: errors.New("503")}
	empty := &stubProvider{name: "secondary"}
	good := &stubProvider{name: "tertiary", candidates: []Candidate{bath()}}
	r := newResolver(failing, empty, good)

	got, err := r.Resolve(context.Background(), "Bath")

	require.NoError(t, err)
	assert.Equal(t, "tertiary", got.Provider)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
}

func TestResolve_StopsAtFirstAnsweringProvider(t *testing.T) {
	first := &stubProvider{name: "first", candidates: []Candidate{bath()}}
	second := &stubProvider{name: "second", candidates: []Candidate{bath()}}
	r := newResolver(first, second)

	_, err := r.Resolve(context.Background(), "Bath")

	require.NoError(t, err)
	assert.Zero(t, second.calls)
}

func TestResolve_AllProvidersFail(t *testing.T) {
	r := newResolver(
		&stubProvider{name: "a", err: errors.New("boom")},
		&stubProvider{name: "b"},
	)

	_, err := r.Resolve(context.Background(), "Atlantis")

	require.ErrorIs(t, err, ErrResolution)
	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "Atlantis", resErr.Query)
	assert.Len(t, resErr.Attempts, 2)
	assert.Contains(t, err.Error(), "all services failed")
	assert.Equal(t, 0, r.Cache.Stats().Geocodes)
}

func TestResolve_TimeoutMovesToNextProvider(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: time.Second, candidates: []Candidate{bath()}}
	fast := &stubProvider{name: "fast", candidates: []Candidate{bath()}}
	r := newResolver(slow, fast)
	r.Timeout = 20 * time.Millisecond

	got, err := r.Resolve(context.Background(), "Bath")

	require.NoError(t, err)
	assert.Equal(t, "fast", got.Provider)
}

func TestResolve_CallerDeadlineDuringLastProvider(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: time.Second, candidates: []Candidate{bath()}}
	r := newResolver(slow)
	r.Timeout = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Resolve(ctx, "Bath")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var resErr *ResolutionError
	assert.False(t, errors.As(err, &resErr))
	assert.Equal(t, 0, r.Cache.Stats().Geocodes)
}

func TestResolve_DropsInvalidCoordinates(t *testing.T) {
	bad := bath()
	bad.Coordinate = models.GeoCoordinate{Lat: 123, Lng: 0}
	p := &stubProvider{name: "bad", candidates: []Candidate{bad}}
	r := newResolver(p)

	_, err := r.Resolve(context.Background(), "Bath")

	assert.ErrorIs(t, err, ErrResolution)
}

func TestResolve_UsesProviderScorer(t *testing.T) {
	nom := &NominatimProvider{}
	cands := []Candidate{
		{Coordinate: models.GeoCoordinate{Lat: 1, Lng: 1}, DisplayName: "Cafe Bath", Class: "amenity", Value: "cafe"},
		{Coordinate: models.GeoCoordinate{Lat: 51.38, Lng: -2.36}, DisplayName: "Bath, UK", Class: "place", Value: "city", Address: map[string]string{"city": "Bath", "country": "UK"}, Importance: 0.7},
	}
	best, err := newResolver().selectBest(nom, "Bath", cands)

	require.NoError(t, err)
	assert.Equal(t, "Bath, UK", best.Candidate.DisplayName)
	assert.InDelta(t, 30+10+14+40, best.Score, 1e-9)
}

func TestSuggestions(t *testing.T) {
	s := Suggestions("Ely")
	assert.Len(t, s, 2)
	assert.Contains(t, s[0], "Ely, UK")

	assert.Empty(t, Suggestions("Fleet, UK"))
}

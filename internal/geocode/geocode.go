package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tripplanner/backend/internal/models"
)

var (
	ErrInvalidInput = errors.New("location name is required")
	ErrResolution   = errors.New("all services failed")
	ErrNoCandidates = errors.New("no candidates")
)

// Provider is one geocoding service in the fallback chain. A failed lookup
// returns an error; an empty result set is returned as a nil slice and no error.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Candidate is one possible match returned by a provider, before ranking.
type Candidate struct {
	Coordinate  models.GeoCoordinate
	Name        string
	DisplayName string
	Class       string
	Value       string
	Population  *int
	AdminLevel  *int
	Importance  float64
	Address     map[string]string
}

func (c Candidate) SourceType() string {
	return c.Class + ":" + c.Value
}

type Attempt struct {
	Provider string `json:"provider"`
	Error    string `json:"error"`
}

// ResolutionError reports that every provider failed for Query.
type ResolutionError struct {
	Query    string
	Attempts []Attempt
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not geocode location %q: %s", e.Query, ErrResolution)
}

func (e *ResolutionError) Unwrap() error {
	return ErrResolution
}

// Suggestions returns hints for rephrasing a query that failed to resolve.
func Suggestions(query string) []string {
	query = strings.TrimSpace(query)
	out := []string{}
	if !strings.Contains(query, ",") {
		out = append(out, fmt.Sprintf("Try adding country: %q or %q", query+", UK", query+", USA"))
	}
	if len([]rune(query)) < 4 {
		out = append(out, fmt.Sprintf("Try being more specific: %q or %q", query+" city", query+" town"))
	}
	return out
}

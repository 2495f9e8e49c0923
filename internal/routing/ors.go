package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tripplanner/backend/internal/models"
)

var errORSKey = errors.New("openrouteservice api key required")

// ORSProvider queries OpenRouteService directions. Lookups fail without an
// APIKey so the provider can stay in the chain unconditionally.
type ORSProvider struct {
	BaseURL     string
	APIKey      string
	Profile     string
	Client      *http.Client
	MaxAttempts int
	Backoff     time.Duration
}

type orsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Duration float64 `json:"duration"`
				Distance float64 `json:"distance"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

func (p *ORSProvider) Name() string { return "openrouteservice" }

func (p *ORSProvider) Duration(ctx context.Context, from, to models.GeoCoordinate) (float64, error) {
	if p.APIKey == "" {
		return 0, errORSKey
	}
	base := p.BaseURL
	if base == "" {
		base = "https://api.openrouteservice.org"
	}
	profile := p.Profile
	if profile == "" {
		profile = "driving-car"
	}
	policy := retryPolicy{MaxAttempts: p.MaxAttempts, Backoff: p.Backoff}
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = 3
	}
	if policy.Backoff == 0 {
		policy.Backoff = 200 * time.Millisecond
	}

	q := url.Values{}
	q.Set("start", fmt.Sprintf("%g,%g", from.Lng, from.Lat))
	q.Set("end", fmt.Sprintf("%g,%g", to.Lng, to.Lat))
	endpoint := base + "/v2/directions/" + profile + "?" + q.Encode()

	resp, err := doWithRetry(ctx, p.Client, policy, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", p.APIKey)
		req.Header.Set("Accept", "application/json, application/geo+json")
		return req, nil
	})
	if err != nil {
		return 0, fmt.Errorf("openrouteservice routing failed: %w", err)
	}

	var decoded orsResponse
	if err := decodeJSON(resp, &decoded); err != nil {
		return 0, fmt.Errorf("openrouteservice routing failed: %w", err)
	}
	if len(decoded.Features) == 0 {
		return 0, fmt.Errorf("openrouteservice: %w", ErrNoRoute)
	}
	return decoded.Features[0].Properties.Summary.Duration, nil
}

package routing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tripplanner/backend/internal/models"
)

// OSRMProvider queries the public OSRM demo server or a self-hosted instance.
type OSRMProvider struct {
	BaseURL string
	Client  *http.Client
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

func (p *OSRMProvider) Name() string { return "osrm" }

func (p *OSRMProvider) Duration(ctx context.Context, from, to models.GeoCoordinate) (float64, error) {
	base := p.BaseURL
	if base == "" {
		base = "https://router.project-osrm.org"
	}
	endpoint := fmt.Sprintf("%s/route/v1/driving/%g,%g;%g,%g?overview=false", base, from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := do(p.Client, req)
	if err != nil {
		return 0, fmt.Errorf("osrm routing failed: %w", err)
	}
	var decoded osrmResponse
	if err := decodeJSON(resp, &decoded); err != nil {
		return 0, fmt.Errorf("osrm routing failed: %w", err)
	}
	if len(decoded.Routes) == 0 {
		return 0, fmt.Errorf("osrm: %w", ErrNoRoute)
	}
	return decoded.Routes[0].Duration, nil
}

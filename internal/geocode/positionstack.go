package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tripplanner/backend/internal/models"
)

var errPositionStackKey = errors.New("positionstack geocoding not configured")

// PositionStackProvider is a keyed fallback geocoder. It fails every lookup
// when APIKey is empty so it can sit in the chain unconditionally.
type PositionStackProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type positionStackResponse struct {
	Data []struct {
		Latitude   float64 `json:"latitude"`
		Longitude  float64 `json:"longitude"`
		Label      string  `json:"label"`
		Name       string  `json:"name"`
		Type       string  `json:"type"`
		Confidence float64 `json:"confidence"`
	} `json:"data"`
}

func (p *PositionStackProvider) Name() string { return "positionstack" }

func (p *PositionStackProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	if p.APIKey == "" {
		return nil, errPositionStackKey
	}
	base := p.BaseURL
	if base == "" {
		base = "http://api.positionstack.com"
	}

	q := url.Values{}
	q.Set("access_key", p.APIKey)
	q.Set("query", query)
	q.Set("limit", "5")

	var decoded positionStackResponse
	if err := getJSON(ctx, p.Client, base+"/v1/forward?"+q.Encode(), nil, &decoded); err != nil {
		return nil, fmt.Errorf("positionstack geocoding failed: %w", err)
	}

	out := make([]Candidate, 0, len(decoded.Data))
	for _, d := range decoded.Data {
		class, value := positionStackClass(d.Type)
		out = append(out, Candidate{
			Coordinate:  models.GeoCoordinate{Lat: d.Latitude, Lng: d.Longitude},
			Name:        d.Name,
			DisplayName: d.Label,
			Class:       class,
			Value:       value,
			Importance:  d.Confidence,
		})
	}
	return out, nil
}

// positionStackClass maps a PositionStack result type onto OSM-style tags
// so the default scoring rules apply.
func positionStackClass(t string) (string, string) {
	switch t {
	case "locality", "localadmin":
		return "place", "town"
	case "county", "region", "macroregion":
		return "boundary", "administrative"
	case "venue":
		return "amenity", t
	default:
		return t, ""
	}
}

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tripplanner/backend/internal/models"
)

// PhotonProvider queries a Photon structured POI search (komoot) restricted
// to settlements and administrative boundaries.
type PhotonProvider struct {
	BaseURL string
	BBox    BBox
	Limit   int
	Client  *http.Client
}

type photonResponse struct {
	Features []photonFeature `json:"features"`
}

type photonFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Name       string      `json:"name"`
		OSMKey     string      `json:"osm_key"`
		OSMValue   string      `json:"osm_value"`
		County     string      `json:"county"`
		State      string      `json:"state"`
		Country    string      `json:"country"`
		Population flexibleInt `json:"population"`
		AdminLevel flexibleInt `json:"admin_level"`
	} `json:"properties"`
}

var photonTags = []string{"place:city", "place:town", "place:village", "boundary:administrative"}

func (p *PhotonProvider) Name() string { return "photon" }

func (p *PhotonProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	base := p.BaseURL
	if base == "" {
		base = "https://photon.komoot.io"
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	for _, tag := range photonTags {
		q.Add("osm_tag", tag)
	}
	if !p.BBox.IsZero() {
		q.Set("bbox", fmt.Sprintf("%g,%g,%g,%g", p.BBox.MinLng, p.BBox.MinLat, p.BBox.MaxLng, p.BBox.MaxLat))
	}

	var decoded photonResponse
	if err := getJSON(ctx, p.Client, base+"/api/?"+q.Encode(), nil, &decoded); err != nil {
		return nil, fmt.Errorf("photon geocoding failed: %w", err)
	}
	return parsePhotonFeatures(decoded.Features)
}

func parsePhotonFeatures(features []photonFeature) ([]Candidate, error) {
	out := make([]Candidate, 0, len(features))
	for _, f := range features {
		coords := f.Geometry.Coordinates
		if len(coords) != 2 {
			return nil, fmt.Errorf("invalid coordinate format for %q", f.Properties.Name)
		}
		props := f.Properties
		out = append(out, Candidate{
			Coordinate:  models.GeoCoordinate{Lat: coords[1], Lng: coords[0]},
			Name:        props.Name,
			DisplayName: joinNonEmpty(props.Name, props.County, props.State, props.Country),
			Class:       props.OSMKey,
			Value:       props.OSMValue,
			Population:  props.Population.ptr(),
			AdminLevel:  props.AdminLevel.ptr(),
		})
	}
	return out, nil
}

// flexibleInt accepts a JSON number or a numeric string; anything else is absent.
type flexibleInt struct {
	v  int
	ok bool
}

func (f *flexibleInt) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		f.v, f.ok = int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			f.v, f.ok = n, true
		}
	}
	return nil
}

func (f flexibleInt) ptr() *int {
	if !f.ok {
		return nil
	}
	v := f.v
	return &v
}

func joinNonEmpty(parts ...string) string {
	seen := map[string]bool{}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

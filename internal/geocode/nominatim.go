package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/tripplanner/backend/internal/models"
)

type NominatimProvider struct {
	BaseURL     string
	UserAgent   string
	Referer     string
	MinInterval time.Duration
	Client      *http.Client

	mu        sync.Mutex
	lastReqAt time.Time
}

type nominatimItem struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Class       string            `json:"class"`
	Category    string            `json:"category"`
	Type        string            `json:"type"`
	Importance  float64           `json:"importance"`
	Address     map[string]string `json:"address"`
}

func (g *NominatimProvider) Name() string { return "nominatim" }

func (g *NominatimProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	base := g.BaseURL
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	userAgent := g.UserAgent
	if userAgent == "" {
		userAgent = "TripPlannerApp/1.0"
	}

	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "5")
	q.Set("featureType", "settlement")
	q.Set("addressdetails", "1")

	header := http.Header{}
	header.Set("User-Agent", userAgent)
	if g.Referer != "" {
		header.Set("Referer", g.Referer)
	}

	var items []nominatimItem
	if err := getJSON(ctx, g.Client, base+"/search?"+q.Encode(), header, &items); err != nil {
		return nil, fmt.Errorf("nominatim geocoding failed: %w", err)
	}
	return parseNominatimItems(items)
}

// wait enforces MinInterval between requests, as required by the public
// Nominatim usage policy.
func (g *NominatimProvider) wait(ctx context.Context) error {
	interval := g.MinInterval
	if interval <= 0 {
		interval = time.Second
	}

	g.mu.Lock()
	sleepFor := time.Until(g.lastReqAt.Add(interval))
	g.lastReqAt = time.Now()
	if sleepFor > 0 {
		g.lastReqAt = g.lastReqAt.Add(sleepFor)
	}
	g.mu.Unlock()

	if sleepFor <= 0 {
		return nil
	}
	timer := time.NewTimer(sleepFor)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseNominatimItems(items []nominatimItem) ([]Candidate, error) {
	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		lat, err := strconv.ParseFloat(it.Lat, 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(it.Lon, 64)
		if err != nil {
			return nil, err
		}
		class := it.Class
		if class == "" {
			class = it.Category
		}
		out = append(out, Candidate{
			Coordinate:  models.GeoCoordinate{Lat: lat, Lng: lon},
			Name:        it.Name,
			DisplayName: it.DisplayName,
			Class:       class,
			Value:       it.Type,
			Importance:  it.Importance,
			Address:     it.Address,
		})
	}
	return out, nil
}

// ScoreCandidate is the simplified policy for Nominatim results: address
// detail and the importance rank stand in for the population metadata
// Nominatim does not return.
func (g *NominatimProvider) ScoreCandidate(_ ScoringConfig, _ string, c Candidate) Scored {
	s := Scored{Candidate: c}
	add := func(points float64, reason string) {
		s.Score += points
		s.Reasons = append(s.Reasons, reason)
	}

	addressBonus := []struct {
		field  string
		points float64
	}{
		{"city", 30}, {"town", 25}, {"village", 20}, {"country", 10},
	}
	for _, ab := range addressBonus {
		if c.Address[ab.field] != "" {
			add(ab.points, "address has "+ab.field)
		}
	}

	if c.Importance > 0 {
		add(c.Importance*20, fmt.Sprintf("importance %.2f", c.Importance))
	}

	switch c.Value {
	case "city":
		add(40, "is a city")
	case "town":
		add(35, "is a town")
	case "village":
		add(30, "is a village")
	case "administrative":
		add(25, "is an administrative area")
	case "amenity":
		add(-20, "is an amenity (penalty)")
	}
	if c.Class == "amenity" {
		add(-20, "amenity category (penalty)")
	}
	return s
}

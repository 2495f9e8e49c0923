package models

import "fmt"

// GeoCoordinate is a WGS84 position in degrees.
type GeoCoordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c GeoCoordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c GeoCoordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}

type GeocodeResult struct {
	Coordinate      GeoCoordinate `json:"coordinate"`
	DisplayName     string        `json:"display_name"`
	SourceType      string        `json:"source_type"`
	ConfidenceScore float64       `json:"confidence_score"`
	SelectionReason string        `json:"selection_reason"`
	Provider        string        `json:"provider"`
}

const RouteSourceHeuristic = "heuristic"

// RouteEstimate is a driving duration in minutes, always a multiple of 15.
// Source is "provider:<name>" or RouteSourceHeuristic.
type RouteEstimate struct {
	Minutes int    `json:"minutes"`
	Source  string `json:"source"`
}

func (e RouteEstimate) Heuristic() bool {
	return e.Source == RouteSourceHeuristic
}

func ProviderSource(name string) string {
	return "provider:" + name
}

package geocode

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BBox is a lng/lat rectangle used to favour results in the deployment region.
type BBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

func (b BBox) IsZero() bool {
	return b == BBox{}
}

func (b BBox) Contains(lat, lng float64) bool {
	return lng >= b.MinLng && lng <= b.MaxLng && lat >= b.MinLat && lat <= b.MaxLat
}

// ParseBBox reads "minLng,minLat,maxLng,maxLat".
func ParseBBox(s string) (BBox, error) {
	var b BBox
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox %q: want minLng,minLat,maxLng,maxLat", s)
	}
	dst := []*float64{&b.MinLng, &b.MinLat, &b.MaxLng, &b.MaxLat}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		*dst[i] = v
	}
	if b.MinLng > b.MaxLng || b.MinLat > b.MaxLat {
		return BBox{}, fmt.Errorf("bbox %q: min exceeds max", s)
	}
	return b, nil
}

type Bonuses struct {
	Place    float64
	Boundary float64

	City    float64
	Town    float64
	Village float64

	Region float64

	PopulationLarge  float64 // > 100k
	PopulationMedium float64 // > 30k
	PopulationSmall  float64 // > 10k

	AdminLevelBase float64
	MaxAdminLevel  int

	NameContains float64
	NameExact    float64

	AmenityPenalty float64
	ShopPenalty    float64
	OfficePenalty  float64
}

type ScoringConfig struct {
	Region  BBox
	Bonuses Bonuses
}

func DefaultBonuses() Bonuses {
	return Bonuses{
		Place:            50,
		Boundary:         40,
		City:             30,
		Town:             25,
		Village:          20,
		Region:           25,
		PopulationLarge:  15,
		PopulationMedium: 10,
		PopulationSmall:  5,
		AdminLevelBase:   10,
		MaxAdminLevel:    8,
		NameContains:     20,
		NameExact:        30,
		AmenityPenalty:   20,
		ShopPenalty:      30,
		OfficePenalty:    30,
	}
}

// DefaultRegion covers Great Britain and Ireland.
func DefaultRegion() BBox {
	return BBox{MinLng: -10, MinLat: 49, MaxLng: 2, MaxLat: 61}
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{Region: DefaultRegion(), Bonuses: DefaultBonuses()}
}

type Scored struct {
	Candidate Candidate
	Score     float64
	Reasons   []string
}

// CandidateScorer is implemented by providers whose results are ranked by a
// policy other than ScoreCandidate.
type CandidateScorer interface {
	ScoreCandidate(cfg ScoringConfig, query string, c Candidate) Scored
}

// ScoreCandidate applies every rule additively; none short-circuits.
func ScoreCandidate(cfg ScoringConfig, query string, c Candidate) Scored {
	b := cfg.Bonuses
	s := Scored{Candidate: c}
	add := func(points float64, reason string) {
		s.Score += points
		s.Reasons = append(s.Reasons, reason)
	}

	switch c.Class {
	case "place":
		add(b.Place, "is a place")
	case "boundary":
		add(b.Boundary, "is an administrative boundary")
	}

	switch c.Value {
	case "city":
		add(b.City, "is a city")
	case "town":
		add(b.Town, "is a town")
	case "village":
		add(b.Village, "is a village")
	}

	if !cfg.Region.IsZero() && cfg.Region.Contains(c.Coordinate.Lat, c.Coordinate.Lng) {
		add(b.Region, "in configured region")
	}

	if c.Population != nil {
		pop := *c.Population
		switch {
		case pop > 100000:
			add(b.PopulationLarge, fmt.Sprintf("large town/city (%d)", pop))
		case pop > 30000:
			add(b.PopulationMedium, fmt.Sprintf("substantial town (%d)", pop))
		case pop > 10000:
			add(b.PopulationSmall, fmt.Sprintf("medium town (%d)", pop))
		}
	}

	if c.AdminLevel != nil && *c.AdminLevel > 0 && *c.AdminLevel <= b.MaxAdminLevel {
		bonus := b.AdminLevelBase - float64(*c.AdminLevel)
		if bonus < 0 {
			bonus = 0
		}
		add(bonus, fmt.Sprintf("admin level %d", *c.AdminLevel))
	}

	name := strings.ToLower(c.Name)
	if name == "" {
		name = strings.ToLower(c.DisplayName)
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q != "" && strings.Contains(name, q) {
		add(b.NameContains, "name contains search term")
	}
	if q != "" && name == q {
		add(b.NameExact, "exact name match")
	}

	switch c.Class {
	case "amenity":
		add(-b.AmenityPenalty, "is an amenity (penalty)")
	case "shop":
		add(-b.ShopPenalty, "is a shop (penalty)")
	case "office":
		add(-b.OfficePenalty, "is an office (penalty)")
	}

	return s
}

// Rank orders scored candidates best first. Equal scores prefer candidates
// with a non-zero population, then the larger population; otherwise input
// order holds.
func Rank(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ap, bp := knownPopulation(a.Candidate), knownPopulation(b.Candidate)
		switch {
		case ap > 0 && bp > 0:
			return ap > bp
		default:
			return ap > 0
		}
	})
}

// knownPopulation treats a missing or zero population as unknown.
func knownPopulation(c Candidate) int {
	if c.Population == nil || *c.Population < 0 {
		return 0
	}
	return *c.Population
}

func (s Scored) Reason() string {
	return strings.Join(s.Reasons, ", ")
}

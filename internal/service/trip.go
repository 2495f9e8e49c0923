package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tripplanner/backend/internal/models"
)

// MaxComfortableDriving is the total driving time, in minutes, above which
// an itinerary is flagged.
const MaxComfortableDriving = 480

var ErrTooFewToCompare = errors.New("need at least 2 itineraries to compare")

type ValidationReport struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func ValidateItinerary(it *models.Itinerary, start, end *time.Time) ValidationReport {
	report := ValidationReport{Errors: []string{}, Warnings: []string{}}

	blank, zeroNights := 0, 0
	for _, loc := range it.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			blank++
		}
		if loc.Nights == 0 {
			zeroNights++
		}
	}
	if blank > 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("%d location(s) need names", blank))
	}
	if zeroNights > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d location(s) have 0 nights", zeroNights))
	}
	if start != nil && end != nil {
		if dv := it.ValidateDates(start, end); !dv.IsValid {
			report.Warnings = append(report.Warnings, dv.Message)
		}
	}
	if it.TotalDrivingTime > MaxComfortableDriving {
		report.Warnings = append(report.Warnings, "Total driving time exceeds 8 hours")
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

type ComparisonDetail struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Locations      int    `json:"locations"`
	TotalNights    int    `json:"total_nights"`
	TotalDriveTime int    `json:"total_drive_time"`
	TotalDays      int    `json:"total_days"`
	Efficiency     int    `json:"efficiency"`
}

type ComparisonSummary struct {
	MostLocations   int `json:"most_locations"`
	FewestLocations int `json:"fewest_locations"`
	LongestStay     int `json:"longest_stay"`
	ShortestStay    int `json:"shortest_stay"`
	MostDriving     int `json:"most_driving"`
	LeastDriving    int `json:"least_driving"`
	MostEfficient   int `json:"most_efficient"`
}

type Comparison struct {
	Summary ComparisonSummary  `json:"summary"`
	Details []ComparisonDetail `json:"details"`
}

func CompareItineraries(its []*models.Itinerary) (Comparison, error) {
	if len(its) < 2 {
		return Comparison{}, ErrTooFewToCompare
	}

	cmp := Comparison{Details: make([]ComparisonDetail, 0, len(its))}
	for i, it := range its {
		d := ComparisonDetail{
			ID:             it.ID,
			Name:           it.Name,
			Locations:      len(it.Locations),
			TotalNights:    it.TotalNights,
			TotalDriveTime: it.TotalDrivingTime,
			TotalDays:      it.TotalDays(),
			Efficiency:     Efficiency(it),
		}
		cmp.Details = append(cmp.Details, d)

		s := &cmp.Summary
		if i == 0 {
			*s = ComparisonSummary{
				MostLocations: d.Locations, FewestLocations: d.Locations,
				LongestStay: d.TotalNights, ShortestStay: d.TotalNights,
				MostDriving: d.TotalDriveTime, LeastDriving: d.TotalDriveTime,
				MostEfficient: d.Efficiency,
			}
			continue
		}
		s.MostLocations = max(s.MostLocations, d.Locations)
		s.FewestLocations = min(s.FewestLocations, d.Locations)
		s.LongestStay = max(s.LongestStay, d.TotalNights)
		s.ShortestStay = min(s.ShortestStay, d.TotalNights)
		s.MostDriving = max(s.MostDriving, d.TotalDriveTime)
		s.LeastDriving = min(s.LeastDriving, d.TotalDriveTime)
		s.MostEfficient = max(s.MostEfficient, d.Efficiency)
	}
	return cmp, nil
}

// Efficiency is the share of trip time spent staying rather than driving,
// counting each night as an hour, on a 0-100 scale.
func Efficiency(it *models.Itinerary) int {
	if it.TotalDrivingTime == 0 {
		return 100
	}
	stay := float64(it.TotalNights * 60)
	return int(math.Round(stay / (stay + float64(it.TotalDrivingTime)) * 100))
}

package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/tripplanner/backend/internal/models"
	"github.com/tripplanner/backend/internal/utils"
)

var ErrExportInvalid = errors.New("invalid itinerary data for export")

// dayOffsets returns, for each location, the trip day on which it is reached.
// Every leg takes one day and each intermediate stop adds its nights.
func dayOffsets(it *models.Itinerary) []int {
	out := make([]int, len(it.Locations))
	day := 0
	last := len(it.Locations) - 1
	for i, loc := range it.Locations {
		out[i] = day
		if i != 0 && i != last {
			day += loc.Nights
		}
		day++
	}
	return out
}

// GenerateICS renders a calendar with one all-day event per location, starting
// on start. now stamps each event.
func GenerateICS(it *models.Itinerary, start time.Time, now time.Time) (string, error) {
	if it == nil || start.IsZero() || len(it.Locations) == 0 {
		return "", ErrExportInvalid
	}

	cal := ics.NewCalendarFor("Trip Planner")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)

	offsets := dayOffsets(it)
	for i, loc := range it.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			continue
		}
		first := start.AddDate(0, 0, offsets[i])
		until := first.AddDate(0, 0, 1)
		if i+1 < len(offsets) {
			until = start.AddDate(0, 0, offsets[i+1])
		}

		description := fmt.Sprintf("Day %d of %s", offsets[i]+1, it.Name)
		if loc.DrivingTime > 0 {
			description += "\nDriving time from previous location: " + utils.FormatDriveTime(loc.DrivingTime)
		}
		if loc.Notes != "" {
			description += "\n" + loc.Notes
		}

		event := cal.AddEvent(fmt.Sprintf("trip-%s-day-%d@tripplanner.local", it.ID, i))
		event.SetAllDayStartAt(first)
		event.SetAllDayEndAt(until)
		event.SetSummary(it.Name + " - " + loc.Name)
		event.SetDescription(description)
		event.SetLocation(loc.Name)
		event.SetDtStampTime(now)
		event.SetProperty(ics.ComponentPropertyTransp, "TRANSPARENT")
	}
	return cal.Serialize(), nil
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]`)

// ICSFilename derives a download name such as "summer_trip.ics".
func ICSFilename(name string) string {
	base := unsafeFilename.ReplaceAllString(strings.ToLower(name), "_")
	if base == "" {
		base = "itinerary"
	}
	return base + ".ics"
}

// TextSummary renders a plain-text overview for sharing.
func TextSummary(it *models.Itinerary, start, end *time.Time) string {
	if it == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", it.Name, strings.Repeat("=", len([]rune(it.Name))))
	if start != nil && end != nil {
		fmt.Fprintf(&b, "Dates: %s to %s\n", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	fmt.Fprintf(&b, "Total nights: %d\n", it.TotalNights)
	driving := utils.FormatDriveTime(it.TotalDrivingTime)
	if driving == "" {
		driving = "0m"
	}
	fmt.Fprintf(&b, "Total driving time: %s\n\n", driving)

	b.WriteString("Itinerary:\n")
	offsets := dayOffsets(it)
	for i, loc := range it.Locations {
		name := strings.TrimSpace(loc.Name)
		if name == "" {
			name = "TBD"
		}
		fmt.Fprintf(&b, "  %s: %s\n", dayLabel(start, offsets[i]), name)
		if loc.DrivingTime > 0 {
			fmt.Fprintf(&b, "    (%s drive)\n", utils.FormatDriveTime(loc.DrivingTime))
		}
	}
	return b.String()
}

func dayLabel(start *time.Time, offset int) string {
	if start == nil {
		return fmt.Sprintf("Day %d", offset+1)
	}
	return start.AddDate(0, 0, offset).Format("Monday, Jan 2")
}

package utils

import (
	"fmt"
	"math"
)

// RoundToQuarterHour rounds minutes to the nearest multiple of 15, halves rounding up
// (52.5 -> 60). Negative input is clamped to 0.
func RoundToQuarterHour(minutes float64) int {
	if minutes <= 0 || math.IsNaN(minutes) {
		return 0
	}
	return int(math.Floor(minutes/15+0.5)) * 15
}

// SecondsToMinutes converts a provider duration to whole minutes.
func SecondsToMinutes(seconds float64) int {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int(math.Round(seconds / 60))
}

// FormatDriveTime renders minutes as "45m", "2h" or "2h 30m". Zero renders empty.
func FormatDriveTime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

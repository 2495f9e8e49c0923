package models

import "time"

// TripData holds the overall trip dates the itineraries are planned against.
type TripData struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type Settings struct {
	Units    string `json:"units" validate:"omitempty,oneof=metric imperial"`
	AutoSave bool   `json:"auto_save"`
	Theme    string `json:"theme" validate:"omitempty,oneof=light dark"`
}

func DefaultSettings() Settings {
	return Settings{Units: "metric", AutoSave: true, Theme: "light"}
}

const SnapshotVersion = "1.0.0"

// Snapshot is the full backup document produced by export and accepted by import.
type Snapshot struct {
	Timestamp   time.Time    `json:"timestamp"`
	Version     string       `json:"version"`
	Itineraries []*Itinerary `json:"itineraries"`
	TripData    *TripData    `json:"trip_data,omitempty"`
	Settings    *Settings    `json:"settings,omitempty"`
}

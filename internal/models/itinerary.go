package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type Location struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Day         int    `json:"day"`
	Nights      int    `json:"nights"`
	DrivingTime int    `json:"driving_time"`
	Notes       string `json:"notes"`
}

// LocationPatch carries the optional fields of an in-place location update.
type LocationPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Nights      *int    `json:"nights,omitempty" validate:"omitempty,gte=0,lte=365"`
	DrivingTime *int    `json:"driving_time,omitempty" validate:"omitempty,gte=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type Itinerary struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Locations        []Location `json:"locations"`
	TotalDrivingTime int        `json:"total_driving_time"`
	TotalNights      int        `json:"total_nights"`
	IsSelected       bool       `json:"is_selected"`
	CreatedAt        time.Time  `json:"created_at"`
	LastModified     time.Time  `json:"last_modified"`
}

func NewItinerary(name string) *Itinerary {
	if name == "" {
		name = "New Itinerary"
	}
	now := time.Now().UTC()
	return &Itinerary{
		ID:           uuid.NewString(),
		Name:         name,
		Locations:    []Location{},
		CreatedAt:    now,
		LastModified: now,
	}
}

// AddLocation appends loc, filling defaults for unset fields, and returns the stored copy.
func (it *Itinerary) AddLocation(loc Location) Location {
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	if loc.Name == "" {
		loc.Name = "New Location"
	}
	if loc.Day == 0 {
		loc.Day = len(it.Locations) + 1
	}
	if loc.Nights == 0 {
		loc.Nights = 1
	}
	it.Locations = append(it.Locations, loc)
	it.UpdateCalculations()
	it.Touch()
	return loc
}

func (it *Itinerary) RemoveLocation(id string) bool {
	idx := it.indexOf(id)
	if idx < 0 {
		return false
	}
	it.Locations = append(it.Locations[:idx], it.Locations[idx+1:]...)
	it.ReorderDays()
	it.UpdateCalculations()
	it.Touch()
	return true
}

func (it *Itinerary) UpdateLocation(id string, patch LocationPatch) bool {
	idx := it.indexOf(id)
	if idx < 0 {
		return false
	}
	loc := &it.Locations[idx]
	if patch.Name != nil {
		loc.Name = *patch.Name
	}
	if patch.Nights != nil {
		loc.Nights = *patch.Nights
	}
	if patch.DrivingTime != nil {
		loc.DrivingTime = *patch.DrivingTime
	}
	if patch.Notes != nil {
		loc.Notes = *patch.Notes
	}
	it.UpdateCalculations()
	it.Touch()
	return true
}

// MoveLocation relocates the location at index from to index to.
// Out-of-range indexes leave the itinerary unchanged.
func (it *Itinerary) MoveLocation(from, to int) bool {
	n := len(it.Locations)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	loc := it.Locations[from]
	it.Locations = append(it.Locations[:from], it.Locations[from+1:]...)
	it.Locations = append(it.Locations[:to], append([]Location{loc}, it.Locations[to:]...)...)
	it.ReorderDays()
	it.UpdateCalculations()
	it.Touch()
	return true
}

func (it *Itinerary) ReorderDays() {
	for i := range it.Locations {
		it.Locations[i].Day = i + 1
	}
}

// UpdateCalculations recomputes the aggregate totals. Nights are counted only
// for intermediate stops: the first and last locations are travel endpoints.
func (it *Itinerary) UpdateCalculations() {
	nights, driving := 0, 0
	last := len(it.Locations) - 1
	for i, loc := range it.Locations {
		if i != 0 && i != last {
			nights += loc.Nights
		}
		driving += loc.DrivingTime
	}
	it.TotalNights = nights
	it.TotalDrivingTime = driving
}

func (it *Itinerary) TotalDays() int {
	return len(it.Locations)
}

// Duration is the trip length in days: one travel day per leg plus the nights stayed.
func (it *Itinerary) Duration() int {
	travel := len(it.Locations) - 1
	if travel < 0 {
		travel = 0
	}
	return travel + it.TotalNights
}

type DateValidation struct {
	IsValid           bool   `json:"is_valid"`
	TripDuration      int    `json:"trip_duration"`
	ItineraryDuration int    `json:"itinerary_duration"`
	Message           string `json:"message"`
}

func (it *Itinerary) ValidateDates(start, end *time.Time) DateValidation {
	if start == nil || end == nil {
		return DateValidation{Message: "Trip dates not set"}
	}
	tripDays := int(math.Ceil(end.Sub(*start).Hours() / 24))
	itDays := it.Duration()
	v := DateValidation{
		IsValid:           tripDays == itDays,
		TripDuration:      tripDays,
		ItineraryDuration: itDays,
		Message:           "Dates match perfectly!",
	}
	if !v.IsValid {
		v.Message = fmt.Sprintf("Trip is %d days, itinerary is %d days", tripDays, itDays)
	}
	return v
}

// Clone returns a deep copy with fresh identifiers.
func (it *Itinerary) Clone() *Itinerary {
	c := NewItinerary(it.Name)
	c.Locations = make([]Location, len(it.Locations))
	for i, loc := range it.Locations {
		loc.ID = uuid.NewString()
		c.Locations[i] = loc
	}
	c.UpdateCalculations()
	return c
}

func (it *Itinerary) Touch() {
	it.LastModified = time.Now().UTC()
}

// Normalize repairs records loaded from storage or imported from a backup.
func (it *Itinerary) Normalize() {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Locations == nil {
		it.Locations = []Location{}
	}
	for i := range it.Locations {
		if it.Locations[i].ID == "" {
			it.Locations[i].ID = uuid.NewString()
		}
	}
	now := time.Now().UTC()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	if it.LastModified.IsZero() {
		it.LastModified = now
	}
	it.UpdateCalculations()
}

func (it *Itinerary) indexOf(id string) int {
	for i := range it.Locations {
		if it.Locations[i].ID == id {
			return i
		}
	}
	return -1
}

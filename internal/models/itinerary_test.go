package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trip(names ...string) *Itinerary {
	it := NewItinerary("West Country")
	for _, n := range names {
		it.AddLocation(Location{Name: n, Nights: 2, DrivingTime: 30})
	}
	return it
}

func TestUpdateCalculationsSkipsEndpointNights(t *testing.T) {
	it := trip("Fleet", "Bath", "Bristol", "Fleet")

	assert.Equal(t, 4, it.TotalNights)
	assert.Equal(t, 120, it.TotalDrivingTime)
	assert.Equal(t, 7, it.Duration())

	single := trip("Fleet")
	assert.Zero(t, single.TotalNights)
	assert.Zero(t, single.Duration())
}

func TestMoveLocation(t *testing.T) {
	it := trip("Fleet", "Bath", "Bristol")

	assert.False(t, it.MoveLocation(-1, 0))
	assert.False(t, it.MoveLocation(0, 3))
	assert.Equal(t, "Fleet", it.Locations[0].Name)

	require.True(t, it.MoveLocation(2, 0))
	names := []string{it.Locations[0].Name, it.Locations[1].Name, it.Locations[2].Name}
	assert.Equal(t, []string{"Bristol", "Fleet", "Bath"}, names)
	for i, loc := range it.Locations {
		assert.Equal(t, i+1, loc.Day)
	}
	assert.Equal(t, 2, it.TotalNights)
}

func TestRemoveAndUpdateLocation(t *testing.T) {
	it := trip("Fleet", "Bath", "Bristol")
	bath := it.Locations[1].ID

	nights, notes := 5, "spa"
	require.True(t, it.UpdateLocation(bath, LocationPatch{Nights: &nights, Notes: &notes}))
	assert.Equal(t, 5, it.TotalNights)
	assert.Equal(t, "spa", it.Locations[1].Notes)
	assert.Equal(t, "Bath", it.Locations[1].Name)

	require.True(t, it.RemoveLocation(bath))
	assert.False(t, it.RemoveLocation(bath))
	assert.False(t, it.UpdateLocation(bath, LocationPatch{Notes: &notes}))
	require.Len(t, it.Locations, 2)
	assert.Equal(t, 2, it.Locations[1].Day)
	assert.Zero(t, it.TotalNights)
}

func TestCloneAssignsFreshIDs(t *testing.T) {
	it := trip("Fleet", "Bath", "Bristol")

	c := it.Clone()

	assert.NotEqual(t, it.ID, c.ID)
	require.Len(t, c.Locations, 3)
	for i := range it.Locations {
		assert.NotEqual(t, it.Locations[i].ID, c.Locations[i].ID)
		assert.Equal(t, it.Locations[i].Name, c.Locations[i].Name)
	}
	c.Locations[0].Name = "Farnham"
	assert.Equal(t, "Fleet", it.Locations[0].Name)
	assert.Equal(t, it.TotalNights, c.TotalNights)
}

func TestNormalizeFillsMissingFields(t *testing.T) {
	it := &Itinerary{Locations: []Location{{Name: "Fleet"}, {Name: "Bath", Nights: 1}, {Name: "Bristol"}}}

	it.Normalize()

	assert.NotEmpty(t, it.ID)
	assert.False(t, it.CreatedAt.IsZero())
	for _, loc := range it.Locations {
		assert.NotEmpty(t, loc.ID)
	}
	assert.Equal(t, 1, it.TotalNights)
}

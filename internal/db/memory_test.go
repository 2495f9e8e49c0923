package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripplanner/backend/internal/models"
)

func TestMemoryStore_Itineraries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := models.NewItinerary("First")
	second := models.NewItinerary("Second")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	require.NoError(t, s.SaveItinerary(ctx, second))
	require.NoError(t, s.SaveItinerary(ctx, first))

	list, err := s.ListItineraries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Name)

	got, err := s.GetItinerary(ctx, first.ID)
	require.NoError(t, err)
	got.AddLocation(models.Location{Name: "Bath"})
	stored, err := s.GetItinerary(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Locations)

	require.NoError(t, s.DeleteItinerary(ctx, first.ID))
	assert.ErrorIs(t, s.DeleteItinerary(ctx, first.ID), ErrNotFound)
	_, err = s.GetItinerary(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_StateAndRestore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveTripData(ctx, models.TripData{StartDate: &start}))
	require.NoError(t, s.SaveItinerary(ctx, models.NewItinerary("Old")))

	restored := models.NewItinerary("Restored")
	dark := models.Settings{Units: "imperial", Theme: "dark"}
	require.NoError(t, s.Restore(ctx, []*models.Itinerary{restored}, nil, &dark))

	list, _ := s.ListItineraries(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, restored.ID, list[0].ID)
	td, _ := s.GetTripData(ctx)
	assert.Equal(t, &start, td.StartDate)
	got, _ := s.GetSettings(ctx)
	assert.Equal(t, dark, got)

	require.NoError(t, s.ClearAll(ctx))
	list, _ = s.ListItineraries(ctx)
	assert.Empty(t, list)
	got, _ = s.GetSettings(ctx)
	assert.Equal(t, models.DefaultSettings(), got)
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripplanner/backend/internal/db"
	"github.com/tripplanner/backend/internal/models"
)

func TestSnapshotService_CreateAndImport(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &SnapshotService{Store: db.NewMemoryStore(), Logger: zerolog.Nop(), Now: func() time.Time { return fixed }}

	require.NoError(t, src.Store.SaveItinerary(ctx, sampleItinerary()))
	require.NoError(t, src.Store.SaveSettings(ctx, models.Settings{Units: "imperial", Theme: "dark"}))

	snap, err := src.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotVersion, snap.Version)
	assert.Equal(t, fixed, snap.Timestamp)
	require.Len(t, snap.Itineraries, 1)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded models.Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	dst := &SnapshotService{Store: db.NewMemoryStore(), Logger: zerolog.Nop()}
	require.NoError(t, dst.Import(ctx, decoded))

	its, err := dst.Store.ListItineraries(ctx)
	require.NoError(t, err)
	require.Len(t, its, 1)
	assert.Equal(t, "Summer Trip", its[0].Name)
	assert.Equal(t, 120, its[0].TotalDrivingTime)
	settings, _ := dst.Store.GetSettings(ctx)
	assert.Equal(t, "dark", settings.Theme)
}

func TestSnapshotService_ImportRejectsMissingItineraries(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	require.NoError(t, store.SaveItinerary(ctx, sampleItinerary()))
	svc := &SnapshotService{Store: store, Logger: zerolog.Nop()}

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"version":"1.0.0","settings":{"theme":"dark"}}`), &snap))
	assert.ErrorIs(t, svc.Import(ctx, snap), ErrInvalidSnapshot)

	its, _ := store.ListItineraries(ctx)
	assert.Len(t, its, 1)
}

func TestSnapshotService_ImportEmptyListClears(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	require.NoError(t, store.SaveItinerary(ctx, sampleItinerary()))
	svc := &SnapshotService{Store: store, Logger: zerolog.Nop()}

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"itineraries":[]}`), &snap))
	require.NoError(t, svc.Import(ctx, snap))

	its, _ := store.ListItineraries(ctx)
	assert.Empty(t, its)
	settings, _ := store.GetSettings(ctx)
	assert.Equal(t, models.DefaultSettings(), settings)
}

func TestSnapshotService_ClearAll(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	require.NoError(t, store.SaveItinerary(ctx, sampleItinerary()))
	svc := &SnapshotService{Store: store, Logger: zerolog.Nop()}

	require.NoError(t, svc.ClearAll(ctx))
	its, _ := store.ListItineraries(ctx)
	assert.Empty(t, its)
}

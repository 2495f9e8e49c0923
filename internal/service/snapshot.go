package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripplanner/backend/internal/models"
)

var ErrInvalidSnapshot = errors.New("invalid backup file format")

// Store persists itineraries and the single-user app state.
type Store interface {
	ListItineraries(ctx context.Context) ([]*models.Itinerary, error)
	GetItinerary(ctx context.Context, id string) (*models.Itinerary, error)
	SaveItinerary(ctx context.Context, it *models.Itinerary) error
	DeleteItinerary(ctx context.Context, id string) error
	GetTripData(ctx context.Context) (models.TripData, error)
	SaveTripData(ctx context.Context, td models.TripData) error
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error
	// Restore replaces all itineraries and, when non-nil, trip data and settings.
	Restore(ctx context.Context, its []*models.Itinerary, td *models.TripData, s *models.Settings) error
	ClearAll(ctx context.Context) error
}

type SnapshotService struct {
	Store  Store
	Logger zerolog.Logger
	Now    func() time.Time
}

func (s *SnapshotService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *SnapshotService) Create(ctx context.Context) (models.Snapshot, error) {
	its, err := s.Store.ListItineraries(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	td, err := s.Store.GetTripData(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	settings, err := s.Store.GetSettings(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{
		Timestamp:   s.now(),
		Version:     models.SnapshotVersion,
		Itineraries: its,
		TripData:    &td,
		Settings:    &settings,
	}, nil
}

// Import replaces stored data with the snapshot contents. A snapshot without
// an itineraries array is rejected and nothing is written.
func (s *SnapshotService) Import(ctx context.Context, snap models.Snapshot) error {
	if snap.Itineraries == nil {
		return ErrInvalidSnapshot
	}
	its := make([]*models.Itinerary, 0, len(snap.Itineraries))
	for _, it := range snap.Itineraries {
		if it == nil {
			return ErrInvalidSnapshot
		}
		it.Normalize()
		its = append(its, it)
	}
	if err := s.Store.Restore(ctx, its, snap.TripData, snap.Settings); err != nil {
		return err
	}
	s.Logger.Info().Int("itineraries", len(its)).Str("version", snap.Version).Msg("backup imported")
	return nil
}

func (s *SnapshotService) ClearAll(ctx context.Context) error {
	if err := s.Store.ClearAll(ctx); err != nil {
		return err
	}
	s.Logger.Info().Msg("all data cleared")
	return nil
}

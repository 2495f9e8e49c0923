package db

import (
	"context"
	"sort"
	"sync"

	"github.com/tripplanner/backend/internal/models"
)

// MemoryStore keeps all data in process memory. It is used when no
// database is configured and in handler tests.
type MemoryStore struct {
	mu          sync.RWMutex
	itineraries map[string]*models.Itinerary
	tripData    models.TripData
	settings    models.Settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		itineraries: map[string]*models.Itinerary{},
		settings:    models.DefaultSettings(),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func copyItinerary(it *models.Itinerary) *models.Itinerary {
	c := *it
	c.Locations = append([]models.Location{}, it.Locations...)
	return &c
}

func (m *MemoryStore) ListItineraries(context.Context) ([]*models.Itinerary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Itinerary, 0, len(m.itineraries))
	for _, it := range m.itineraries {
		out = append(out, copyItinerary(it))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) GetItinerary(_ context.Context, id string) (*models.Itinerary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.itineraries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyItinerary(it), nil
}

func (m *MemoryStore) SaveItinerary(_ context.Context, it *models.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itineraries[it.ID] = copyItinerary(it)
	return nil
}

func (m *MemoryStore) DeleteItinerary(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.itineraries[id]; !ok {
		return ErrNotFound
	}
	delete(m.itineraries, id)
	return nil
}

func (m *MemoryStore) GetTripData(context.Context) (models.TripData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tripData, nil
}

func (m *MemoryStore) SaveTripData(_ context.Context, td models.TripData) error {
	m.mu.Lock()
	m.tripData = td
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetSettings(context.Context) (models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *MemoryStore) SaveSettings(_ context.Context, s models.Settings) error {
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Restore(_ context.Context, its []*models.Itinerary, td *models.TripData, s *models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itineraries = make(map[string]*models.Itinerary, len(its))
	for _, it := range its {
		m.itineraries[it.ID] = copyItinerary(it)
	}
	if td != nil {
		m.tripData = *td
	}
	if s != nil {
		m.settings = *s
	}
	return nil
}

func (m *MemoryStore) ClearAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itineraries = map[string]*models.Itinerary{}
	m.tripData = models.TripData{}
	m.settings = models.DefaultSettings()
	return nil
}

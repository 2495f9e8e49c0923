package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripplanner/backend/internal/models"
)

var ErrNotFound = errors.New("not found")

const (
	stateTripData = "trip_data"
	stateSettings = "settings"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const itineraryColumns = `id, name, locations, is_selected, created_at, last_modified`

func scanItinerary(row pgx.Row) (*models.Itinerary, error) {
	var (
		it        models.Itinerary
		locations []byte
	)
	if err := row.Scan(&it.ID, &it.Name, &locations, &it.IsSelected, &it.CreatedAt, &it.LastModified); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(locations, &it.Locations); err != nil {
		return nil, fmt.Errorf("decode locations of itinerary %s: %w", it.ID, err)
	}
	it.Normalize()
	return &it, nil
}

func (s *Store) ListItineraries(ctx context.Context) ([]*models.Itinerary, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+itineraryColumns+` FROM itineraries ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Itinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) GetItinerary(ctx context.Context, id string) (*models.Itinerary, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+itineraryColumns+` FROM itineraries WHERE id = $1`, id)
	it, err := scanItinerary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

func (s *Store) SaveItinerary(ctx context.Context, it *models.Itinerary) error {
	return upsertItinerary(ctx, s.Pool, it)
}

func upsertItinerary(ctx context.Context, q execer, it *models.Itinerary) error {
	locations, err := json.Marshal(it.Locations)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO itineraries (id, name, locations, is_selected, created_at, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			locations = EXCLUDED.locations,
			is_selected = EXCLUDED.is_selected,
			last_modified = EXCLUDED.last_modified
	`, it.ID, it.Name, locations, it.IsSelected, it.CreatedAt, it.LastModified)
	return err
}

func (s *Store) DeleteItinerary(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) loadState(ctx context.Context, key string, out any) (bool, error) {
	var raw []byte
	err := s.Pool.QueryRow(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func saveState(ctx context.Context, q execer, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, raw)
	return err
}

func (s *Store) GetTripData(ctx context.Context) (models.TripData, error) {
	var td models.TripData
	_, err := s.loadState(ctx, stateTripData, &td)
	return td, err
}

func (s *Store) SaveTripData(ctx context.Context, td models.TripData) error {
	return saveState(ctx, s.Pool, stateTripData, td)
}

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	_, err := s.loadState(ctx, stateSettings, &settings)
	return settings, err
}

func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	return saveState(ctx, s.Pool, stateSettings, settings)
}

// Restore replaces every itinerary and, when given, the trip data and
// settings in one transaction.
func (s *Store) Restore(ctx context.Context, its []*models.Itinerary, td *models.TripData, settings *models.Settings) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM itineraries`); err != nil {
			return err
		}
		for _, it := range its {
			if err := upsertItinerary(ctx, tx, it); err != nil {
				return fmt.Errorf("restore itinerary %s: %w", it.ID, err)
			}
		}
		if td != nil {
			if err := saveState(ctx, tx, stateTripData, td); err != nil {
				return err
			}
		}
		if settings != nil {
			if err := saveState(ctx, tx, stateSettings, settings); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ClearAll(ctx context.Context) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM itineraries`); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM app_state`)
		return err
	})
}

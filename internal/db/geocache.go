package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/tripplanner/backend/internal/models"
)

// The methods below make Store a persistent tier for geocache.Cache.

func (s *Store) LoadGeocode(ctx context.Context, key string) (models.GeocodeResult, bool, error) {
	var raw []byte
	err := s.Pool.QueryRow(ctx, `SELECT result FROM geocode_cache WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.GeocodeResult{}, false, nil
	}
	if err != nil {
		return models.GeocodeResult{}, false, err
	}
	var r models.GeocodeResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.GeocodeResult{}, false, err
	}
	return r, true, nil
}

func (s *Store) SaveGeocode(ctx context.Context, key string, r models.GeocodeResult) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO geocode_cache (key, result) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET result = EXCLUDED.result, created_at = now()
	`, key, raw)
	return err
}

func (s *Store) LoadRoute(ctx context.Context, key string) (models.RouteEstimate, bool, error) {
	var e models.RouteEstimate
	err := s.Pool.QueryRow(ctx, `SELECT minutes, source FROM route_cache WHERE key = $1`, key).Scan(&e.Minutes, &e.Source)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RouteEstimate{}, false, nil
	}
	if err != nil {
		return models.RouteEstimate{}, false, err
	}
	return e, true, nil
}

func (s *Store) SaveRoute(ctx context.Context, key string, e models.RouteEstimate) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO route_cache (key, minutes, source) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET minutes = EXCLUDED.minutes, source = EXCLUDED.source, created_at = now()
	`, key, e.Minutes, e.Source)
	return err
}

func (s *Store) ClearGeoCache(ctx context.Context) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM geocode_cache`); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM route_cache`)
		return err
	})
}

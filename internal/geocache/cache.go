// Package geocache keeps resolved geocodes and route estimates for the
// lifetime of the process, optionally backed by a persistent second tier.
package geocache

import (
	"context"
	"strings"
	"sync"

	"github.com/mmcloughlin/geohash"
	"github.com/rs/zerolog"

	"github.com/tripplanner/backend/internal/models"
)

// geohashPrecision 8 is a cell of roughly 38m x 19m, far below the
// resolution at which a driving time changes.
const geohashPrecision = 8

// Backing is a persistent store consulted on memory misses.
type Backing interface {
	LoadGeocode(ctx context.Context, key string) (models.GeocodeResult, bool, error)
	SaveGeocode(ctx context.Context, key string, r models.GeocodeResult) error
	LoadRoute(ctx context.Context, key string) (models.RouteEstimate, bool, error)
	SaveRoute(ctx context.Context, key string, e models.RouteEstimate) error
	ClearGeoCache(ctx context.Context) error
}

type Cache struct {
	geocodes *namespace[models.GeocodeResult]
	routes   *namespace[models.RouteEstimate]
	backing  Backing
	logger   zerolog.Logger
}

type Option func(*Cache)

func WithBacking(b Backing) Option {
	return func(c *Cache) { c.backing = b }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		geocodes: newNamespace[models.GeocodeResult](),
		routes:   newNamespace[models.RouteEstimate](),
		logger:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NormalizeName builds the geocode key for a free-text query.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RouteKey builds an order-sensitive key from geohash-rounded endpoints.
func RouteKey(from, to models.GeoCoordinate) string {
	return geohash.EncodeWithPrecision(from.Lat, from.Lng, geohashPrecision) +
		">" + geohash.EncodeWithPrecision(to.Lat, to.Lng, geohashPrecision)
}

func (c *Cache) Geocode(ctx context.Context, key string) (models.GeocodeResult, bool) {
	if r, ok := c.geocodes.get(key); ok {
		return r, true
	}
	if c.backing == nil {
		return models.GeocodeResult{}, false
	}
	r, ok, err := c.backing.LoadGeocode(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("geocode cache backing read failed")
		return models.GeocodeResult{}, false
	}
	if ok {
		c.geocodes.set(key, r)
	}
	return r, ok
}

func (c *Cache) SetGeocode(ctx context.Context, key string, r models.GeocodeResult) {
	c.geocodes.set(key, r)
	if c.backing == nil {
		return
	}
	if err := c.backing.SaveGeocode(ctx, key, r); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("geocode cache backing write failed")
	}
}

func (c *Cache) Route(ctx context.Context, key string) (models.RouteEstimate, bool) {
	if e, ok := c.routes.get(key); ok {
		return e, true
	}
	if c.backing == nil {
		return models.RouteEstimate{}, false
	}
	e, ok, err := c.backing.LoadRoute(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("route cache backing read failed")
		return models.RouteEstimate{}, false
	}
	if ok {
		c.routes.set(key, e)
	}
	return e, ok
}

func (c *Cache) SetRoute(ctx context.Context, key string, e models.RouteEstimate) {
	c.routes.set(key, e)
	if c.backing == nil {
		return
	}
	if err := c.backing.SaveRoute(ctx, key, e); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("route cache backing write failed")
	}
}

// Clear empties both namespaces, including the backing store when present.
func (c *Cache) Clear(ctx context.Context) error {
	c.geocodes.clear()
	c.routes.clear()
	if c.backing != nil {
		return c.backing.ClearGeoCache(ctx)
	}
	return nil
}

type Stats struct {
	Geocodes int `json:"geocodes"`
	Routes   int `json:"routes"`
}

func (c *Cache) Stats() Stats {
	return Stats{Geocodes: c.geocodes.len(), Routes: c.routes.len()}
}

type namespace[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

func newNamespace[V any]() *namespace[V] {
	return &namespace[V]{m: map[string]V{}}
}

func (n *namespace[V]) get(key string) (V, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.m[key]
	return v, ok
}

func (n *namespace[V]) set(key string, v V) {
	n.mu.Lock()
	n.m[key] = v
	n.mu.Unlock()
}

func (n *namespace[V]) clear() {
	n.mu.Lock()
	n.m = map[string]V{}
	n.mu.Unlock()
}

func (n *namespace[V]) len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.m)
}

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tripplanner/backend/internal/config"
	"github.com/tripplanner/backend/internal/db"
	"github.com/tripplanner/backend/internal/geocache"
	"github.com/tripplanner/backend/internal/geocode"
	"github.com/tripplanner/backend/internal/service"
)

func TestRouter_GuardsDestructiveRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := db.NewMemoryStore()
	resolver := &geocode.Resolver{Cache: geocache.New(), Logger: zerolog.Nop()}
	deps := Deps{
		Store:      store,
		Resolver:   resolver,
		Calculator: &service.DriveTimeCalculator{Resolver: resolver, Logger: zerolog.Nop()},
		Cache:      resolver.Cache,
		Snapshots:  &service.SnapshotService{Store: store, Logger: zerolog.Nop()},
	}
	r := Router(config.Config{AdminKey: "k", CORSAllowed: "*", MaxBodyMB: 1}, deps, zerolog.Nop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/data", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/data", nil)
	req.Header.Set("X-Admin-Key", "k")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/itineraries", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 15*time.Second, cfg.RouteTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.CourtesyDelay)
	assert.Equal(t, "-10,49,2,61", cfg.RegionBBox)
	assert.True(t, cfg.PersistGeoCache)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/trips")
	t.Setenv("ROUTE_TIMEOUT", "3s")
	t.Setenv("ORS_API_KEY", "secret")
	t.Setenv("PERSIST_GEO_CACHE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/trips", cfg.DatabaseURL)
	assert.Equal(t, 3*time.Second, cfg.RouteTimeout)
	assert.Equal(t, "secret", cfg.ORSAPIKey)
	assert.False(t, cfg.PersistGeoCache)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GEOCODE_TIMEOUT", "0s")

	_, err := Load()
	assert.ErrorContains(t, err, "GEOCODE_TIMEOUT must be positive")
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	MaxBodyMB      int64         `mapstructure:"MAX_BODY_MB"`

	GeocodeTimeout time.Duration `mapstructure:"GEOCODE_TIMEOUT"`
	RouteTimeout   time.Duration `mapstructure:"ROUTE_TIMEOUT"`
	CourtesyDelay  time.Duration `mapstructure:"COURTESY_DELAY"`
	RegionBBox     string        `mapstructure:"REGION_BBOX"`

	PhotonURL            string        `mapstructure:"PHOTON_URL"`
	NominatimURL         string        `mapstructure:"NOMINATIM_URL"`
	NominatimUserAgent   string        `mapstructure:"NOMINATIM_USER_AGENT"`
	NominatimMinInterval time.Duration `mapstructure:"NOMINATIM_MIN_INTERVAL"`
	PositionStackAPIKey  string        `mapstructure:"POSITIONSTACK_API_KEY"`

	OSRMURL   string `mapstructure:"OSRM_URL"`
	ORSURL    string `mapstructure:"ORS_URL"`
	ORSAPIKey string `mapstructure:"ORS_API_KEY"`

	PersistGeoCache bool `mapstructure:"PERSIST_GEO_CACHE"`
}

var defaults = map[string]any{
	"ENV":                    "dev",
	"PORT":                   "8080",
	"DATABASE_URL":           "",
	"ADMIN_KEY":              "",
	"REQUEST_TIMEOUT":        "120s",
	"LOG_LEVEL":              "info",
	"CORS_ALLOWED_ORIGINS":   "*",
	"MAX_BODY_MB":            5,
	"GEOCODE_TIMEOUT":        "10s",
	"ROUTE_TIMEOUT":          "15s",
	"COURTESY_DELAY":         "200ms",
	"REGION_BBOX":            "-10,49,2,61",
	"PHOTON_URL":             "https://photon.komoot.io",
	"NOMINATIM_URL":          "https://nominatim.openstreetmap.org",
	"NOMINATIM_USER_AGENT":   "TripPlannerApp/1.0",
	"NOMINATIM_MIN_INTERVAL": "1s",
	"POSITIONSTACK_API_KEY":  "",
	"OSRM_URL":               "https://router.project-osrm.org",
	"ORS_URL":                "https://api.openrouteservice.org",
	"ORS_API_KEY":            "",
	"PERSIST_GEO_CACHE":      true,
}

// Load reads .env when present, then the environment, which takes precedence.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	for name, d := range map[string]time.Duration{
		"REQUEST_TIMEOUT": c.RequestTimeout,
		"GEOCODE_TIMEOUT": c.GeocodeTimeout,
		"ROUTE_TIMEOUT":   c.RouteTimeout,
	} {
		if d <= 0 {
			problems = append(problems, name+" must be positive")
		}
	}
	if c.CourtesyDelay < 0 {
		problems = append(problems, "COURTESY_DELAY must not be negative")
	}
	if c.Port == "" {
		problems = append(problems, "PORT is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tripplanner/backend/internal/config"
	"github.com/tripplanner/backend/internal/db"
	"github.com/tripplanner/backend/internal/geocache"
	"github.com/tripplanner/backend/internal/geocode"
	httpapi "github.com/tripplanner/backend/internal/http"
	"github.com/tripplanner/backend/internal/http/handlers"
	"github.com/tripplanner/backend/internal/routing"
	"github.com/tripplanner/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "trip-planner").Logger()

	ctx := context.Background()

	var (
		store     handlers.Store
		cacheOpts = []geocache.Option{geocache.WithLogger(logger)}
	)
	if cfg.DatabaseURL == "" {
		store = db.NewMemoryStore()
		logger.Info().Msg("DATABASE_URL not set, using in-memory storage")
	} else {
		if err := db.Migrate(ctx, cfg.DatabaseURL, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate db")
		}
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer pg.Close()
		store = pg
		if cfg.PersistGeoCache {
			cacheOpts = append(cacheOpts, geocache.WithBacking(pg))
		}
	}
	cache := geocache.New(cacheOpts...)

	region, err := geocode.ParseBBox(cfg.RegionBBox)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid REGION_BBOX")
	}
	scoring := geocode.DefaultScoringConfig()
	scoring.Region = region

	providers := []geocode.Provider{
		&geocode.PhotonProvider{BaseURL: cfg.PhotonURL, BBox: region},
		&geocode.NominatimProvider{
			BaseURL:     cfg.NominatimURL,
			UserAgent:   cfg.NominatimUserAgent,
			MinInterval: cfg.NominatimMinInterval,
		},
	}
	if cfg.PositionStackAPIKey != "" {
		providers = append(providers, &geocode.PositionStackProvider{APIKey: cfg.PositionStackAPIKey})
	}
	resolver := &geocode.Resolver{
		Providers: providers,
		Cache:     cache,
		Scoring:   scoring,
		Timeout:   cfg.GeocodeTimeout,
		Logger:    logger.With().Str("component", "geocode").Logger(),
	}

	routers := []routing.Provider{&routing.OSRMProvider{BaseURL: cfg.OSRMURL}}
	if cfg.ORSAPIKey != "" {
		routers = append(routers, &routing.ORSProvider{BaseURL: cfg.ORSURL, APIKey: cfg.ORSAPIKey})
	}
	estimator := &routing.Estimator{
		Providers: routers,
		Cache:     cache,
		Timeout:   cfg.RouteTimeout,
		Logger:    logger.With().Str("component", "routing").Logger(),
	}

	deps := httpapi.Deps{
		Store:    store,
		Resolver: resolver,
		Calculator: &service.DriveTimeCalculator{
			Resolver:  resolver,
			Estimator: estimator,
			Delay:     cfg.CourtesyDelay,
			Logger:    logger,
		},
		Cache:     cache,
		Snapshots: &service.SnapshotService{Store: store, Logger: logger},
	}
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.Router(cfg, deps, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

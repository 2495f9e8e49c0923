package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tripplanner/backend/internal/config"
	"github.com/tripplanner/backend/internal/geocache"
	"github.com/tripplanner/backend/internal/http/handlers"
	"github.com/tripplanner/backend/internal/http/middleware"
	"github.com/tripplanner/backend/internal/service"

	_ "github.com/tripplanner/backend/docs"
)

// Deps are the components the router wires into its handlers.
type Deps struct {
	Store      handlers.Store
	Resolver   service.Geocoder
	Calculator *service.DriveTimeCalculator
	Cache      *geocache.Cache
	Snapshots  *service.SnapshotService
}

func Router(cfg config.Config, deps Deps, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.BodyLimit(cfg.MaxBodyMB << 20))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.AdminKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" || cfg.CORSAllowed == "" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CORSAllowed, ",")
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:       deps.Store,
		Resolver:    deps.Resolver,
		Calculator:  deps.Calculator,
		Cache:       deps.Cache,
		Snapshots:   deps.Snapshots,
		Validator:   validator.New(),
		Logger:      logger,
		CalcTimeout: cfg.RequestTimeout,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/geocode", h.Geocode)
		api.GET("/drive-time", h.DriveTime)
		api.GET("/cache/stats", h.CacheStats)

		api.GET("/itineraries", h.ItinerariesList)
		api.POST("/itineraries", h.ItineraryCreate)
		api.GET("/itineraries/:id", h.ItineraryGet)
		api.PUT("/itineraries/:id", h.ItineraryUpdate)
		api.DELETE("/itineraries/:id", h.ItineraryDelete)
		api.POST("/itineraries/:id/duplicate", h.ItineraryDuplicate)
		api.POST("/itineraries/:id/calculate", h.ItineraryCalculate)
		api.GET("/itineraries/:id/validate", h.ItineraryValidate)
		api.GET("/itineraries/:id/export.ics", h.ItineraryExportICS)
		api.GET("/itineraries/:id/summary", h.ItinerarySummary)
		api.POST("/itineraries/:id/locations", h.LocationAdd)
		api.POST("/itineraries/:id/locations/move", h.LocationMove)
		api.PATCH("/itineraries/:id/locations/:lid", h.LocationUpdate)
		api.DELETE("/itineraries/:id/locations/:lid", h.LocationRemove)
		api.POST("/compare", h.Compare)

		api.GET("/trip", h.TripGet)
		api.PUT("/trip", h.TripUpdate)
		api.GET("/settings", h.SettingsGet)
		api.PUT("/settings", h.SettingsUpdate)
		api.GET("/snapshot", h.SnapshotExport)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/cache/clear", h.CacheClear)
		admin.POST("/snapshot", h.SnapshotImport)
		admin.DELETE("/data", h.DataClear)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

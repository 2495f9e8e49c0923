package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tripplanner/backend/internal/db"
	"github.com/tripplanner/backend/internal/geocache"
	"github.com/tripplanner/backend/internal/geocode"
	"github.com/tripplanner/backend/internal/service"
)

// Store is the persistence the handlers need, satisfied by db.Store and db.MemoryStore.
type Store interface {
	service.Store
	Ping(ctx context.Context) error
}

type Handler struct {
	Store      Store
	Resolver   service.Geocoder
	Calculator *service.DriveTimeCalculator
	Cache      *geocache.Cache
	Snapshots  *service.SnapshotService
	Validator  *validator.Validate
	Logger     zerolog.Logger
	// CalcTimeout bounds a whole itinerary calculation.
	CalcTimeout time.Duration
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func writeStoreError(c *gin.Context, err error, notFound string, failed string) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", notFound, nil)
		return
	}
	writeError(c, http.StatusInternalServerError, "DB_ERROR", failed, err.Error())
}

type geocodeFailure struct {
	Query       string            `json:"query"`
	Suggestions []string          `json:"suggestions"`
	Attempts    []geocode.Attempt `json:"attempts"`
}

// writeLookupError maps resolver and calculator errors onto the error envelope.
func writeLookupError(c *gin.Context, err error) {
	var resErr *geocode.ResolutionError
	switch {
	case errors.Is(err, geocode.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, service.ErrPrecondition):
		writeError(c, http.StatusUnprocessableEntity, "PRECONDITION_FAILED", err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "TIMEOUT", "Lookup timed out", err.Error())
	case errors.As(err, &resErr):
		writeError(c, http.StatusUnprocessableEntity, "GEOCODE_FAILED", resErr.Error(), geocodeFailure{
			Query:       resErr.Query,
			Suggestions: geocode.Suggestions(resErr.Query),
			Attempts:    resErr.Attempts,
		})
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Lookup failed", err.Error())
	}
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return false
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return false
	}
	return true
}

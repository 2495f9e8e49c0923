package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tripplanner/backend/internal/models"
	"github.com/tripplanner/backend/internal/service"
)

type TripDataRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil
	}
	return &t
}

func (h *Handler) TripGet(c *gin.Context) {
	td, err := h.Store.GetTripData(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, "", "Failed to load trip data")
		return
	}
	c.JSON(http.StatusOK, td)
}

func (h *Handler) TripUpdate(c *gin.Context) {
	var req TripDataRequest
	if !h.bind(c, &req) {
		return
	}
	td := models.TripData{StartDate: parseDate(req.StartDate), EndDate: parseDate(req.EndDate)}
	if td.StartDate != nil && td.EndDate != nil && td.EndDate.Before(*td.StartDate) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "end_date must not be before start_date", nil)
		return
	}
	if err := h.Store.SaveTripData(c.Request.Context(), td); err != nil {
		writeStoreError(c, err, "", "Failed to save trip data")
		return
	}
	c.JSON(http.StatusOK, td)
}

func (h *Handler) SettingsGet(c *gin.Context) {
	s, err := h.Store.GetSettings(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, "", "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) SettingsUpdate(c *gin.Context) {
	var req models.Settings
	if !h.bind(c, &req) {
		return
	}
	defaults := models.DefaultSettings()
	if req.Units == "" {
		req.Units = defaults.Units
	}
	if req.Theme == "" {
		req.Theme = defaults.Theme
	}
	if err := h.Store.SaveSettings(c.Request.Context(), req); err != nil {
		writeStoreError(c, err, "", "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, req)
}

// @Summary Export backup
// @Tags data
// @Produce json
// @Success 200 {object} models.Snapshot
// @Router /api/snapshot [get]
func (h *Handler) SnapshotExport(c *gin.Context) {
	snap, err := h.Snapshots.Create(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, "", "Failed to create backup")
		return
	}
	filename := "trip-planner-backup-" + snap.Timestamp.Format(time.DateOnly) + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) SnapshotImport(c *gin.Context) {
	var snap models.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Snapshots.Import(c.Request.Context(), snap); err != nil {
		if errors.Is(err, service.ErrInvalidSnapshot) {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}
		writeStoreError(c, err, "", "Failed to import backup")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "itineraries": len(snap.Itineraries)})
}

func (h *Handler) DataClear(c *gin.Context) {
	if err := h.Snapshots.ClearAll(c.Request.Context()); err != nil {
		writeStoreError(c, err, "", "Failed to clear data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

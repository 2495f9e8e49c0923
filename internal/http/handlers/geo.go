package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// @Summary Geocode a place name
// @Tags geo
// @Produce json
// @Param q query string true "place name"
// @Success 200 {object} models.GeocodeResult
// @Failure 422 {object} map[string]any
// @Router /api/geocode [get]
func (h *Handler) Geocode(c *gin.Context) {
	res, err := h.Resolver.Resolve(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Driving time between two place names
// @Tags geo
// @Produce json
// @Param from query string true "origin"
// @Param to query string true "destination"
// @Success 200 {object} service.PairResult
// @Router /api/drive-time [get]
func (h *Handler) DriveTime(c *gin.Context) {
	from, to := strings.TrimSpace(c.Query("from")), strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "from and to are required", nil)
		return
	}
	res, err := h.Calculator.Pair(c.Request.Context(), from, to)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Cache.Stats())
}

func (h *Handler) CacheClear(c *gin.Context) {
	if err := h.Cache.Clear(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to clear cache", err.Error())
		return
	}
	h.Logger.Info().Msg("geo cache cleared")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

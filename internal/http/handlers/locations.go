package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripplanner/backend/internal/models"
)

var (
	errLocationNotFound = errors.New("location not found")
	errMoveOutOfRange   = errors.New("location index out of range")
)

type MoveLocationRequest struct {
	From *int `json:"from" validate:"required,gte=0"`
	To   *int `json:"to" validate:"required,gte=0"`
}

// editItinerary loads the itinerary named by the path, applies edit and
// saves the result, answering with status.
func (h *Handler) editItinerary(c *gin.Context, status int, edit func(*models.Itinerary) error) {
	ctx := c.Request.Context()
	it, err := h.Store.GetItinerary(ctx, c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to load itinerary")
		return
	}
	if err := edit(it); err != nil {
		switch {
		case errors.Is(err, errLocationNotFound):
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Location not found", nil)
		default:
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		}
		return
	}
	if err := h.Store.SaveItinerary(ctx, it); err != nil {
		writeStoreError(c, err, "", "Failed to save itinerary")
		return
	}
	c.JSON(status, it)
}

// @Summary Append a location
// @Tags itineraries
// @Accept json
// @Produce json
// @Param id path string true "itinerary id"
// @Param body body LocationRequest true "location"
// @Success 201 {object} models.Itinerary
// @Router /api/itineraries/{id}/locations [post]
func (h *Handler) LocationAdd(c *gin.Context) {
	var req LocationRequest
	if !h.bind(c, &req) {
		return
	}
	loc := req.location()
	loc.ID = ""
	h.editItinerary(c, http.StatusCreated, func(it *models.Itinerary) error {
		it.AddLocation(loc)
		return nil
	})
}

func (h *Handler) LocationUpdate(c *gin.Context) {
	var patch models.LocationPatch
	if !h.bind(c, &patch) {
		return
	}
	lid := c.Param("lid")
	h.editItinerary(c, http.StatusOK, func(it *models.Itinerary) error {
		if !it.UpdateLocation(lid, patch) {
			return errLocationNotFound
		}
		return nil
	})
}

func (h *Handler) LocationRemove(c *gin.Context) {
	lid := c.Param("lid")
	h.editItinerary(c, http.StatusOK, func(it *models.Itinerary) error {
		if !it.RemoveLocation(lid) {
			return errLocationNotFound
		}
		return nil
	})
}

func (h *Handler) LocationMove(c *gin.Context) {
	var req MoveLocationRequest
	if !h.bind(c, &req) {
		return
	}
	from, to := *req.From, *req.To
	h.editItinerary(c, http.StatusOK, func(it *models.Itinerary) error {
		if !it.MoveLocation(from, to) {
			return errMoveOutOfRange
		}
		return nil
	})
}

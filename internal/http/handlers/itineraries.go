package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tripplanner/backend/internal/models"
	"github.com/tripplanner/backend/internal/service"
)

type LocationRequest struct {
	ID          string `json:"id" validate:"omitempty,max=64"`
	Name        string `json:"name" validate:"max=200"`
	Nights      *int   `json:"nights" validate:"omitempty,gte=0,lte=365"`
	DrivingTime int    `json:"driving_time" validate:"gte=0"`
	Notes       string `json:"notes" validate:"max=2000"`
}

type ItineraryRequest struct {
	Name       string            `json:"name" validate:"max=200"`
	Locations  []LocationRequest `json:"locations" validate:"max=100,dive"`
	IsSelected bool              `json:"is_selected"`
}

type CompareRequest struct {
	IDs []string `json:"ids" validate:"min=2,dive,required"`
}

func (r LocationRequest) location() models.Location {
	loc := models.Location{ID: r.ID, Name: r.Name, DrivingTime: r.DrivingTime, Notes: r.Notes, Nights: 1}
	if r.Nights != nil {
		loc.Nights = *r.Nights
	}
	return loc
}

func (r ItineraryRequest) apply(it *models.Itinerary) {
	if r.Name != "" {
		it.Name = r.Name
	}
	it.IsSelected = r.IsSelected
	it.Locations = make([]models.Location, 0, len(r.Locations))
	for _, lr := range r.Locations {
		it.Locations = append(it.Locations, lr.location())
	}
	it.Normalize()
	it.ReorderDays()
	it.UpdateCalculations()
	it.Touch()
}

func (h *Handler) ItinerariesList(c *gin.Context) {
	its, err := h.Store.ListItineraries(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, "", "Failed to list itineraries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": its})
}

// @Summary Create itinerary
// @Tags itineraries
// @Accept json
// @Produce json
// @Param body body ItineraryRequest true "itinerary"
// @Success 201 {object} models.Itinerary
// @Router /api/itineraries [post]
func (h *Handler) ItineraryCreate(c *gin.Context) {
	var req ItineraryRequest
	if !h.bind(c, &req) {
		return
	}
	it := models.NewItinerary(req.Name)
	req.apply(it)
	if err := h.Store.SaveItinerary(c.Request.Context(), it); err != nil {
		writeStoreError(c, err, "", "Failed to save itinerary")
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *Handler) ItineraryGet(c *gin.Context) {
	it, err := h.Store.GetItinerary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to load itinerary")
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) ItineraryUpdate(c *gin.Context) {
	var req ItineraryRequest
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	it, err := h.Store.GetItinerary(ctx, c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to load itinerary")
		return
	}
	req.apply(it)
	if err := h.Store.SaveItinerary(ctx, it); err != nil {
		writeStoreError(c, err, "", "Failed to save itinerary")
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) ItineraryDelete(c *gin.Context) {
	if err := h.Store.DeleteItinerary(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to delete itinerary")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ItineraryDuplicate(c *gin.Context) {
	ctx := c.Request.Context()
	it, err := h.Store.GetItinerary(ctx, c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to load itinerary")
		return
	}
	dup := it.Clone()
	dup.Name = it.Name + " (Copy)"
	if err := h.Store.SaveItinerary(ctx, dup); err != nil {
		writeStoreError(c, err, "", "Failed to save itinerary")
		return
	}
	c.JSON(http.StatusCreated, dup)
}

// @Summary Calculate driving times
// @Description Geocodes every location and fills in the driving time of each leg
// @Tags itineraries
// @Produce json
// @Param id path string true "itinerary id"
// @Success 200 {object} models.Itinerary
// @Failure 422 {object} map[string]any
// @Router /api/itineraries/{id}/calculate [post]
func (h *Handler) ItineraryCalculate(c *gin.Context) {
	ctx := c.Request.Context()
	it, err := h.Store.GetItinerary(ctx, c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to load itinerary")
		return
	}

	calcCtx := ctx
	if h.CalcTimeout > 0 {
		var cancel context.CancelFunc
		calcCtx, cancel = context.WithTimeout(ctx, h.CalcTimeout)
		defer cancel()
	}
	if _, err := h.Calculator.Calculate(calcCtx, it); err != nil {
		h.Logger.Warn().Err(err).Str("itinerary_id", it.ID).Msg("drive time calculation failed")
		writeLookupError(c, err)
		return
	}
	if err := h.Store.SaveItinerary(ctx, it); err != nil {
		writeStoreError(c, err, "", "Failed to save itinerary")
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) ItineraryValidate(c *gin.Context) {
	ctx := c.Request.Context()
	it, err := h.Store.GetItinerary(ctx, c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to load itinerary")
		return
	}
	td, err := h.Store.GetTripData(ctx)
	if err != nil {
		writeStoreError(c, err, "", "Failed to load trip data")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"validation": service.ValidateItinerary(it, td.StartDate, td.EndDate),
		"dates":      it.ValidateDates(td.StartDate, td.EndDate),
	})
}

// tripDates returns the stored trip dates, with the optional start query
// parameter (YYYY-MM-DD) overriding the stored start.
func (h *Handler) tripDates(c *gin.Context) (start, end *time.Time, ok bool) {
	td, err := h.Store.GetTripData(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, "", "Failed to load trip data")
		return nil, nil, false
	}
	start, end = td.StartDate, td.EndDate
	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "start must be YYYY-MM-DD", err.Error())
			return nil, nil, false
		}
		start = &t
	}
	return start, end, true
}

func (h *Handler) ItineraryExportICS(c *gin.Context) {
	it, err := h.Store.GetItinerary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to load itinerary")
		return
	}
	start, _, ok := h.tripDates(c)
	if !ok {
		return
	}
	if start == nil {
		writeError(c, http.StatusUnprocessableEntity, "PRECONDITION_FAILED", "Trip start date not set", nil)
		return
	}
	ics, err := service.GenerateICS(it, *start, time.Now())
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, "PRECONDITION_FAILED", err.Error(), nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+service.ICSFilename(it.Name)+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

func (h *Handler) ItinerarySummary(c *gin.Context) {
	it, err := h.Store.GetItinerary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Itinerary not found", "Failed to load itinerary")
		return
	}
	start, end, ok := h.tripDates(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, service.TextSummary(it, start, end))
}

func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	its := make([]*models.Itinerary, 0, len(req.IDs))
	for _, id := range req.IDs {
		it, err := h.Store.GetItinerary(ctx, id)
		if err != nil {
			writeStoreError(c, err, "Itinerary not found: "+id, "Failed to load itinerary")
			return
		}
		its = append(its, it)
	}
	cmp, err := service.CompareItineraries(its)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

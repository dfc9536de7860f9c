package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gigmap/internal/calendar"
	"gigmap/internal/domain/entities"
	"gigmap/internal/location"
	"gigmap/internal/markers"
	"gigmap/internal/services"
)

// MapHandler serves the map view: viewport discovery plus marker
// descriptors for the external renderer.
type MapHandler struct {
	discovery     *services.DiscoveryService
	locator       location.Provider
	defaultCenter entities.LatLng
	now           func() time.Time
}

// NewMapHandler wires the discovery pipeline to the HTTP surface. A nil now
// uses the wall clock; tests inject a fixed base date.
func NewMapHandler(discovery *services.DiscoveryService, locator location.Provider, defaultCenter entities.LatLng, now func() time.Time) *MapHandler {
	if now == nil {
		now = time.Now
	}
	return &MapHandler{
		discovery:     discovery,
		locator:       locator,
		defaultCenter: defaultCenter,
		now:           now,
	}
}

type mapEventsQuery struct {
	Lat    *float64 `form:"lat" binding:"omitempty,min=-90,max=90"`
	Lng    *float64 `form:"lng" binding:"omitempty,min=-180,max=180"`
	Filter string   `form:"filter,default=thisWeek"`
}

// MapEvents handles GET /map/events.
//
// Partial tile failures still return 200 with degraded=true and the failed
// cells listed; only a total failure becomes an error status.
func (h *MapHandler) MapEvents(c *gin.Context) {
	var q mapEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter, err := calendar.ParseFilter(q.Filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dateRange, err := calendar.Range(filter, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var center entities.LatLng
	if q.Lat != nil && q.Lng != nil {
		center = entities.NewLatLng(*q.Lat, *q.Lng)
	} else {
		center = location.Resolve(c.Request.Context(), h.locator, h.defaultCenter)
	}

	result, err := h.discovery.Discover(c.Request.Context(), entities.Viewport{Center: center}, dateRange)
	if result != nil {
		resp := gin.H{
			"viewport": result.Viewport,
			"events":   result.Events,
			"markers":  markers.VenueClusters(result.Events),
			"degraded": result.Degraded(),
		}
		if result.Degraded() {
			resp["failed_cells"] = result.FailedCells
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	var ve *entities.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrStaleViewport):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gigmap/internal/calendar"
	"gigmap/internal/domain/entities"
	"gigmap/internal/services"
)

// EventsHandler serves the non-map list view.
type EventsHandler struct {
	list          *services.ListService
	defaultRadius float64
	now           func() time.Time
}

func NewEventsHandler(list *services.ListService, defaultRadius float64, now func() time.Time) *EventsHandler {
	if now == nil {
		now = time.Now
	}
	return &EventsHandler{
		list:          list,
		defaultRadius: defaultRadius,
		now:           now,
	}
}

type listEventsQuery struct {
	Filter string   `form:"filter,default=thisWeek"`
	Lat    *float64 `form:"lat" binding:"omitempty,min=-90,max=90"`
	Lng    *float64 `form:"lng" binding:"omitempty,min=-180,max=180"`
	Radius *float64 `form:"radius" binding:"omitempty,gte=0"`
}

// ListEvents handles GET /events. Without both lat and lng the distance
// filter is skipped and the full window is returned.
func (h *EventsHandler) ListEvents(c *gin.Context) {
	var q listEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter, err := calendar.ParseFilter(q.Filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var center *entities.LatLng
	if q.Lat != nil && q.Lng != nil {
		ll := entities.NewLatLng(*q.Lat, *q.Lng)
		center = &ll
	}
	radius := h.defaultRadius
	if q.Radius != nil {
		radius = *q.Radius
	}

	events, err := h.list.Upcoming(c.Request.Context(), filter, h.now(), center, radius)
	if err != nil {
		var ve *entities.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

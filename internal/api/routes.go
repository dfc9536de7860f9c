package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gigmap/internal/api/handlers"
	"gigmap/internal/api/middleware"
	"gigmap/internal/metrics"
)

type Router struct {
	mapHandler     *handlers.MapHandler
	eventsHandler  *handlers.EventsHandler
	markersHandler *handlers.MarkersHandler
	log            zerolog.Logger
}

func NewRouter(
	mapHandler *handlers.MapHandler,
	eventsHandler *handlers.EventsHandler,
	markersHandler *handlers.MarkersHandler,
	log zerolog.Logger,
) *Router {
	return &Router{
		mapHandler:     mapHandler,
		eventsHandler:  eventsHandler,
		markersHandler: markersHandler,
		log:            log,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	// Health and scrape endpoints, unlogged
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/")
	api.Use(middleware.RequestLogger(r.log))
	{
		// Map view: viewport discovery plus marker descriptors
		api.GET("/map/events", r.mapHandler.MapEvents)

		// List view: broad fetch narrowed client-side
		api.GET("/events", r.eventsHandler.ListEvents)

		// Marker visual policy lookup
		api.GET("/markers", r.markersHandler.Describe)
	}
}

package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gigmap/internal/api"
	"gigmap/internal/api/handlers"
	"gigmap/internal/cache"
	"gigmap/internal/config"
	"gigmap/internal/domain/entities"
	"gigmap/internal/enrich"
	"gigmap/internal/index"
	"gigmap/internal/location"
	"gigmap/internal/logging"
	"gigmap/internal/services"
)

func main() {
	// Load configuration (defaults layered under GIGMAP_* env vars)
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.Component("server")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	logging.Init(cfg.Logging)
	log := logging.Component("server")

	// Initialize the shared read-through caches
	tileCache := cache.New[[]entities.EventSummary]("tiles", cfg.Cache.TTL, cfg.Cache.GCWindow)
	defer tileCache.Stop()
	eventCache := cache.New[[]entities.EventRecord]("events", cfg.Cache.TTL, cfg.Cache.GCWindow)
	defer eventCache.Stop()

	// Initialize the external-service clients
	indexClient := index.New(index.Options{
		BaseURL: cfg.Index.BaseURL,
		Timeout: cfg.Index.Timeout,
	}, tileCache, logging.Component("index"))

	enrichClient := enrich.New(enrich.Options{
		BaseURL: cfg.Enrich.BaseURL,
		Timeout: cfg.Enrich.Timeout,
	}, eventCache, logging.Component("enrich"))

	// Initialize services
	discoveryService := services.NewDiscoveryService(
		cfg.Geo.GeohashPrecision,
		indexClient,
		enrichClient,
		logging.Component("discovery"),
	)
	listService := services.NewListService(enrichClient, logging.Component("list"))

	// No device location provider on the server; handlers fall back to the
	// configured default center.
	defaultCenter := entities.NewLatLng(cfg.Map.DefaultLat, cfg.Map.DefaultLng)
	var locator location.Provider

	// Initialize handlers
	mapHandler := handlers.NewMapHandler(discoveryService, locator, defaultCenter, nil)
	eventsHandler := handlers.NewEventsHandler(listService, cfg.Map.RadiusMiles, nil)
	markersHandler := handlers.NewMarkersHandler()

	// Setup router
	router := api.NewRouter(mapHandler, eventsHandler, markersHandler, logging.Component("http"))

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	router.Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info().Str("addr", cfg.Server.Port).Msg("starting gigmap server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sardrift/driftsim/internal/api"
	"github.com/sardrift/driftsim/internal/broadcaster"
	"github.com/sardrift/driftsim/internal/config"
	"github.com/sardrift/driftsim/internal/coordinator"
	"github.com/sardrift/driftsim/internal/environment"
	"github.com/sardrift/driftsim/internal/geodata"
	"github.com/sardrift/driftsim/internal/logging"
	"github.com/sardrift/driftsim/internal/models"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_OVERLAY_PATH"))
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "geo_source", cfg.Providers.GeoSource, "env_source", cfg.Providers.EnvSource)

	geoFactory, closeGeo, err := buildGeoFactory(cfg.Providers)
	if err != nil {
		logging.Fatalf("Failed to initialize geodata provider: %v", err)
	}
	defer closeGeo()

	envFactory := buildEnvFactory(cfg.Providers)

	bc := broadcaster.New()

	c := coordinator.New(cfg.Worker.Count, cfg.Worker.BufferSize, bc, geoFactory, envFactory)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(20))

	handler := api.NewHandler(c, bc, cfg.Simulation)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	c.Stop()
	bc.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

// buildGeoFactory constructs the coordinator.GeoFactory for the
// configured geo source. For "shapefile" it opens a single shared
// ShapefileProvider (the coastline lives in one SQLite-backed store, not
// per-simulation) wrapped in a bounded depth cache and the spec.md §7
// conservative-default fallback; every simulation run gets its own
// Fallback instance (with its own seeded defaults) over the same shared
// primary. No onMiss hook is passed, so answers served by that Fallback
// do not set a snapshot's synthetic_geo flag.
func buildGeoFactory(p config.ProvidersConfig) (coordinator.GeoFactory, func(), error) {
	if p.GeoSource == "synthetic" {
		return func(seed int64) geodata.Provider { return geodata.NewSyntheticProvider(seed) }, func() {}, nil
	}

	shp, err := geodata.OpenShapefileProvider(p.ShapefileDB, p.ShapefilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening shapefile provider: %w", err)
	}
	cached := &geodata.CachedDepth{Provider: shp, Cache: geodata.NewDepthCache(geodata.DepthCacheCapacity)}

	factory := func(seed int64) geodata.Provider {
		return geodata.NewFallback(cached, seed, nil)
	}
	return factory, func() { shp.Close() }, nil
}

// buildEnvFactory constructs the coordinator.EnvFactory for the
// configured environment source.
func buildEnvFactory(p config.ProvidersConfig) coordinator.EnvFactory {
	base := models.EnvironmentalSnapshot{
		Wind:         models.Wind{SpeedKn: 10, DirDeg: 270},
		Current:      models.Current{SpeedKn: 0.5, DirDeg: 180},
		Waves:        models.Waves{HeightM: 1, PeriodSec: 6, DirDeg: 270},
		WaterTempF:   65,
		AirTempF:     70,
		VisibilityNM: 10,
		SeaState:     3,
		Tidal:        &models.Tidal{Phase: 0, ShoreDirDeg: 0, ShoreNormalDeg: 180},
	}

	if p.EnvSource == "synthetic" {
		return func(seed int64) environment.Provider { return environment.NewSyntheticProvider(base, seed) }
	}

	urls := environment.SourceURLs{
		TideURL:       p.TideURL,
		WaterLevelURL: p.WaterLevelURL,
		CurrentURL:    p.CurrentURL,
		BuoyURL:       p.BuoyURL,
		WeatherURL:    p.WeatherURL,
	}
	return func(seed int64) environment.Provider {
		return environment.NewPollingProvider(urls, base, seed, p.EnvPollInterval)
	}
}

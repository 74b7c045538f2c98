// Package config loads process configuration the way the teacher's
// disaster-alert server does: environment variables with hard-coded
// fallbacks, validated once at startup. Unlike the teacher, the larger
// structured knobs — the leeway table, shore-interaction parameters, and
// provider URLs — come from an optional YAML overlay file instead of a
// flat list of env vars, since those don't fit a KEY=value shape.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sardrift/driftsim/internal/drift"
	"github.com/sardrift/driftsim/internal/models"
	"github.com/sardrift/driftsim/internal/shallow"
)

// Config is the process-wide configuration for both cmd/driftsim-server
// and cmd/driftsim-cli.
type Config struct {
	Server     ServerConfig
	Worker     WorkerConfig
	Providers  ProvidersConfig
	Logging    LoggingConfig
	Simulation SimulationDefaultsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

// ProvidersConfig selects and configures the GeoProvider/EnvironmentalProvider
// implementations a coordinator's GeoFactory/EnvFactory build (spec.md §9).
type ProvidersConfig struct {
	GeoSource     string // "synthetic" or "shapefile"
	ShapefilePath string
	ShapefileDB   string

	EnvSource       string // "synthetic" or "polling"
	TideURL         string
	WaterLevelURL   string
	CurrentURL      string
	BuoyURL         string
	WeatherURL      string
	EnvPollInterval time.Duration
}

type LoggingConfig struct {
	Level string
}

// SimulationDefaultsConfig seeds models.SimulationConfig fields an API
// caller left unset (spec.md §6 "unspecified fields take server
// defaults").
type SimulationDefaultsConfig struct {
	ParticleCount  int
	DurationHours  float64
	TimeStepSec    float64
	SpreadRadiusKm float64
}

// Overlay is the optional YAML file's shape: the leeway table, the
// shore-interaction table, and provider settings too structured for
// env vars. Any table row present here replaces the built-in default
// for that key; rows absent from the file keep their built-in value.
type Overlay struct {
	LeewayTable map[models.ObjectType]drift.LeewayParams `yaml:"leeway_table"`
	ShoreTable  map[models.ShoreKind]shallow.ShoreParams `yaml:"shore_table"`
	Providers   struct {
		ShapefilePath string `yaml:"shapefile_path"`
		TideURL       string `yaml:"tide_url"`
		WaterLevelURL string `yaml:"water_level_url"`
		CurrentURL    string `yaml:"current_url"`
		BuoyURL       string `yaml:"buoy_url"`
		WeatherURL    string `yaml:"weather_url"`
	} `yaml:"providers"`
}

// Load builds a Config from environment variables (precedence: defaults
// < YAML overlay file < environment variables, mirroring the teacher's
// getEnv(key, fallback) layering) and applies any leeway/shore overlay
// rows to their respective package-level tables. overlayPath may be
// empty, in which case only the built-in defaults and env vars apply.
func Load(overlayPath string) (*Config, error) {
	var overlay *Overlay
	if overlayPath != "" {
		o, err := loadOverlay(overlayPath)
		if err != nil {
			return nil, fmt.Errorf("loading config overlay: %w", err)
		}
		overlay = o
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 4),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		Providers: ProvidersConfig{
			GeoSource:       getEnv("GEO_SOURCE", "synthetic"),
			ShapefilePath:   getEnv("SHAPEFILE_PATH", overlayString(overlay, func(o *Overlay) string { return o.Providers.ShapefilePath })),
			ShapefileDB:     getEnv("SHAPEFILE_DB_PATH", "./data/coastline.db"),
			EnvSource:       getEnv("ENV_SOURCE", "synthetic"),
			TideURL:         getEnv("TIDE_URL", overlayString(overlay, func(o *Overlay) string { return o.Providers.TideURL })),
			WaterLevelURL:   getEnv("WATER_LEVEL_URL", overlayString(overlay, func(o *Overlay) string { return o.Providers.WaterLevelURL })),
			CurrentURL:      getEnv("CURRENT_URL", overlayString(overlay, func(o *Overlay) string { return o.Providers.CurrentURL })),
			BuoyURL:         getEnv("BUOY_URL", overlayString(overlay, func(o *Overlay) string { return o.Providers.BuoyURL })),
			WeatherURL:      getEnv("WEATHER_URL", overlayString(overlay, func(o *Overlay) string { return o.Providers.WeatherURL })),
			EnvPollInterval: getEnvDuration("ENV_POLL_INTERVAL", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Simulation: SimulationDefaultsConfig{
			ParticleCount:  getEnvInt("SIM_PARTICLE_COUNT", 5000),
			DurationHours:  getEnvFloat("SIM_DURATION_HOURS", 72),
			TimeStepSec:    getEnvFloat("SIM_TIME_STEP_SECONDS", 600),
			SpreadRadiusKm: getEnvFloat("SIM_SPREAD_RADIUS_KM", 0.1),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if overlay != nil {
		drift.ApplyLeewayOverlay(overlay.LeewayTable)
		shallow.ApplyShoreOverlay(overlay.ShoreTable)
	}

	return cfg, nil
}

func loadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overlay file: %w", err)
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing overlay file: %w", err)
	}
	return &o, nil
}

func overlayString(o *Overlay, get func(*Overlay) string) string {
	if o == nil {
		return ""
	}
	return get(o)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Providers.GeoSource != "synthetic" && c.Providers.GeoSource != "shapefile" {
		return fmt.Errorf("invalid geo source: %s", c.Providers.GeoSource)
	}
	if c.Providers.GeoSource == "shapefile" && c.Providers.ShapefilePath == "" {
		return fmt.Errorf("geo source shapefile requires SHAPEFILE_PATH or providers.shapefile_path")
	}
	if c.Providers.EnvSource != "synthetic" && c.Providers.EnvSource != "polling" {
		return fmt.Errorf("invalid environment source: %s", c.Providers.EnvSource)
	}
	if c.Providers.EnvPollInterval < time.Minute {
		return fmt.Errorf("environment poll interval must be at least 1 minute")
	}

	if c.Simulation.ParticleCount <= 0 {
		return fmt.Errorf("SIM_PARTICLE_COUNT must be positive")
	}
	if c.Simulation.DurationHours <= 0 {
		return fmt.Errorf("SIM_DURATION_HOURS must be positive")
	}
	if c.Simulation.TimeStepSec <= 0 {
		return fmt.Errorf("SIM_TIME_STEP_SECONDS must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

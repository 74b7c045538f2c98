// driftsim-cli runs a single simulation to completion and prints its
// results as JSON, for scripting and smoke-testing without standing up
// the HTTP façade — the much smaller cmd/quake-alert/main.go's
// load-config-and-do-one-thing shape, scaled up to actually do
// something blocking.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sardrift/driftsim/internal/broadcaster"
	"github.com/sardrift/driftsim/internal/config"
	"github.com/sardrift/driftsim/internal/coordinator"
	"github.com/sardrift/driftsim/internal/geodata"
	"github.com/sardrift/driftsim/internal/logging"
	"github.com/sardrift/driftsim/internal/models"
)

func main() {
	_ = godotenv.Load()

	var (
		lat           = flag.Float64("lat", 0, "last known position latitude")
		lng           = flag.Float64("lng", 0, "last known position longitude")
		objectType    = flag.String("object-type", string(models.ObjectPersonInWater), "object type identifier")
		particles     = flag.Int("particles", 0, "particle count (0 = server default)")
		durationHours = flag.Float64("duration-hours", 0, "simulation duration in hours (0 = server default)")
		age           = flag.Int("age", 0, "victim age in years (0 = unknown)")
		hasPFD        = flag.Bool("has-pfd", false, "victim is wearing a personal flotation device")
	)
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_OVERLAY_PATH"))
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	simCfg := models.SimulationConfig{
		LKP:            models.LatLng{Lat: *lat, Lng: *lng},
		ObjectType:     models.ObjectType(*objectType),
		ParticleCount:  cfg.Simulation.ParticleCount,
		DurationHours:  cfg.Simulation.DurationHours,
		TimeStepSec:    cfg.Simulation.TimeStepSec,
		SpreadRadiusKm: cfg.Simulation.SpreadRadiusKm,
	}
	if *particles > 0 {
		simCfg.ParticleCount = *particles
	}
	if *durationHours > 0 {
		simCfg.DurationHours = *durationHours
	}
	if *age > 0 {
		simCfg.Victim.Age = age
	}
	simCfg.Victim.HasPFD = *hasPFD

	geoFactory := func(seed int64) geodata.Provider { return geodata.NewSyntheticProvider(seed) }
	bc := broadcaster.New()
	coord := coordinator.New(1, 1, bc, geoFactory, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coord.Run(ctx)
	defer coord.Stop()

	id, err := coord.StartSimulation(simCfg)
	if err != nil {
		logging.Fatalf("Failed to start simulation: %v", err)
	}
	slog.Info("simulation started", "simulation_id", id)

	for {
		report, err := coord.Status(id)
		if err != nil {
			logging.Fatalf("Failed to fetch status: %v", err)
		}
		if report.Status != models.RunRunning {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	results, err := coord.Results(id)
	if err != nil {
		logging.Fatalf("Simulation did not complete successfully: %v", err)
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		logging.Fatalf("Failed to marshal results: %v", err)
	}
	fmt.Println(string(out))
}

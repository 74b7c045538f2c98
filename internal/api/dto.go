package api

import (
	"time"

	"github.com/sardrift/driftsim/internal/config"
	"github.com/sardrift/driftsim/internal/coordinator"
	"github.com/sardrift/driftsim/internal/models"
)

// latLngDTO is a pointer field in createSimulationRequest so a missing
// "lkp" object can be distinguished from an explicit {0,0} (spec.md §6:
// lkp is required).
type latLngDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type victimProfileDTO struct {
	Age      *int   `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	HasPFD   bool   `json:"has_pfd"`
	Clothing string `json:"clothing,omitempty"`
}

// createSimulationRequest is the POST /simulations body. Every field but
// lkp is optional and falls back to the server's configured simulation
// defaults (spec.md §6).
type createSimulationRequest struct {
	LKP            *latLngDTO        `json:"lkp"`
	ObjectType     string            `json:"object_type,omitempty"`
	ParticleCount  int               `json:"particle_count,omitempty"`
	DurationHours  float64           `json:"duration_hours,omitempty"`
	TimeStepSec    float64           `json:"time_step_seconds,omitempty"`
	SpreadRadiusKm float64           `json:"spread_radius_km,omitempty"`
	VictimProfile  *victimProfileDTO `json:"victim_profile,omitempty"`
}

// toSimulationConfig merges req over defaults, mirroring the teacher's
// getEnv(key, fallback) layering at the API boundary instead of the
// process boundary.
func toSimulationConfig(req createSimulationRequest, defaults config.SimulationDefaultsConfig) (models.SimulationConfig, bool) {
	if req.LKP == nil {
		return models.SimulationConfig{}, false
	}

	cfg := models.SimulationConfig{
		LKP:            models.LatLng{Lat: req.LKP.Lat, Lng: req.LKP.Lng},
		ObjectType:     models.ObjectPersonInWater,
		ParticleCount:  defaults.ParticleCount,
		DurationHours:  defaults.DurationHours,
		TimeStepSec:    defaults.TimeStepSec,
		SpreadRadiusKm: defaults.SpreadRadiusKm,
	}

	if req.ObjectType != "" {
		cfg.ObjectType = models.ObjectType(req.ObjectType)
	}
	if req.ParticleCount > 0 {
		cfg.ParticleCount = req.ParticleCount
	}
	if req.DurationHours > 0 {
		cfg.DurationHours = req.DurationHours
	}
	if req.TimeStepSec > 0 {
		cfg.TimeStepSec = req.TimeStepSec
	}
	if req.SpreadRadiusKm > 0 {
		cfg.SpreadRadiusKm = req.SpreadRadiusKm
	}
	if req.VictimProfile != nil {
		cfg.Victim = models.VictimProfile{
			Age:      req.VictimProfile.Age,
			Gender:   req.VictimProfile.Gender,
			HasPFD:   req.VictimProfile.HasPFD,
			Clothing: models.ClothingCategory(req.VictimProfile.Clothing),
		}
	}

	return cfg, true
}

type createSimulationResponse struct {
	SimulationID     string `json:"simulation_id"`
	Status           string `json:"status"`
	EstimatedDuration string `json:"estimated_duration"`
}

func renderCreated(id string, cfg models.SimulationConfig) createSimulationResponse {
	return createSimulationResponse{
		SimulationID:      id,
		Status:            "started",
		EstimatedDuration: time.Duration(cfg.DurationHours * float64(time.Hour)).String(),
	}
}

type statusResponse struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Progress  int        `json:"progress"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func renderStatus(r models.StatusReport) statusResponse {
	return statusResponse{
		ID:        r.ID,
		Status:    string(r.Status),
		Progress:  r.Progress,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Error:     r.Error,
	}
}

type densityCellDTO struct {
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	Count     int     `json:"count"`
	Weight    float64 `json:"weight"`
}

type containmentZoneDTO struct {
	Percentile float64          `json:"percentile"`
	Polygon    []latLngDTO      `json:"polygon"`
}

type survivalDTO struct {
	P             float64 `json:"p"`
	TimeRemaining float64 `json:"time_remaining_hours"`
	Urgency       string  `json:"urgency"`
	Hypothermia   string  `json:"hypothermia_stage"`
}

type statsDTO struct {
	TotalBeached           int `json:"total_beached"`
	ShallowWaterEncounters int `json:"shallow_water_encounters"`
	SurfZoneEncounters     int `json:"surf_zone_encounters"`
	LandExclusionCount     int `json:"land_exclusion_count"`
	ReflectionCount        int `json:"reflection_count"`
	NumericalDivergences   int `json:"numerical_divergences"`
	PhysicsErrorCount      int `json:"physics_error_count"`
}

type snapshotDTO struct {
	TimeSeconds  float64          `json:"time_seconds"`
	Hour         int              `json:"hour"`
	Active       int              `json:"active"`
	Beached      int              `json:"beached"`
	Total        int              `json:"total"`
	Centroid     *latLngDTO       `json:"centroid,omitempty"`
	SyntheticGeo bool             `json:"synthetic_geo"`
}

func renderSnapshot(s models.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		TimeSeconds:  s.TimeSec,
		Hour:         s.Hour,
		Active:       s.Counts.Active,
		Beached:      s.Counts.Beached,
		Total:        s.Counts.Total,
		SyntheticGeo: s.SyntheticGeo,
	}
	if s.Centroid != nil {
		dto.Centroid = &latLngDTO{Lat: s.Centroid.Lat, Lng: s.Centroid.Lng}
	}
	return dto
}

type resultsResponse struct {
	Density     []densityCellDTO     `json:"density"`
	Containment []containmentZoneDTO `json:"containment"`
	Survival    survivalDTO          `json:"survival"`
	Stats       statsDTO             `json:"stats"`
	Snapshots   []snapshotDTO        `json:"snapshots"`
}

func renderResults(r *coordinator.Results) resultsResponse {
	density := make([]densityCellDTO, len(r.Density.Cells))
	for i, c := range r.Density.Cells {
		density[i] = densityCellDTO{CenterLat: c.CenterLat, CenterLng: c.CenterLng, Count: c.Count, Weight: c.Weight}
	}

	zones := make([]containmentZoneDTO, len(r.Containment.Zones))
	for i, z := range r.Containment.Zones {
		poly := make([]latLngDTO, len(z.Polygon))
		for j, p := range z.Polygon {
			poly[j] = latLngDTO{Lat: p.Lat, Lng: p.Lng}
		}
		zones[i] = containmentZoneDTO{Percentile: z.Percentile, Polygon: poly}
	}

	snapshots := make([]snapshotDTO, len(r.Snapshots))
	for i, s := range r.Snapshots {
		snapshots[i] = renderSnapshot(s)
	}

	return resultsResponse{
		Density:     density,
		Containment: zones,
		Survival: survivalDTO{
			P:             r.Survival.P,
			TimeRemaining: r.Survival.TimeRemaining,
			Urgency:       string(r.Survival.Urgency),
			Hypothermia:   string(r.Survival.Hypothermia),
		},
		Stats: statsDTO{
			TotalBeached:           r.Stats.TotalBeached,
			ShallowWaterEncounters: r.Stats.ShallowWaterEncounters,
			SurfZoneEncounters:     r.Stats.SurfZoneEncounters,
			LandExclusionCount:     r.Stats.LandExclusionCount,
			ReflectionCount:        r.Stats.ReflectionCount,
			NumericalDivergences:   r.Stats.NumericalDivergences,
			PhysicsErrorCount:      r.Stats.PhysicsErrorCount,
		},
		Snapshots: snapshots,
	}
}

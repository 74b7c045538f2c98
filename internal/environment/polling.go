package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

// SourceURLs configures the upstream endpoints a PollingProvider fetches
// from. Any empty URL disables that source; PollingProvider falls back to
// its embedded SyntheticProvider for that field class.
type SourceURLs struct {
	TideURL       string
	WaterLevelURL string
	CurrentURL    string
	BuoyURL       string
	WeatherURL    string
}

// weatherResponse is the wind/visibility JSON shape fetched from
// SourceURLs.WeatherURL.
type weatherResponse struct {
	WindSpeedKn  float64 `json:"wind_speed_kn"`
	WindDirDeg   float64 `json:"wind_dir_deg"`
	AirTempF     float64 `json:"air_temp_f"`
	VisibilityNM float64 `json:"visibility_nm"`
	SeaState     int     `json:"sea_state"`
}

// tideResponse is the tidal-phase JSON shape fetched from SourceURLs.TideURL.
type tideResponse struct {
	Phase          float64 `json:"phase"`
	ShoreDirDeg    float64 `json:"shore_dir_deg"`
	ShoreNormalDeg float64 `json:"shore_normal_deg"`
}

// currentResponse is the surface-current JSON shape fetched from
// SourceURLs.CurrentURL.
type currentResponse struct {
	SpeedKn     float64 `json:"speed_kn"`
	DirDeg      float64 `json:"dir_deg"`
	VariationKn float64 `json:"variation_kn"`
}

// buoyResponse is the wave JSON shape fetched from SourceURLs.BuoyURL.
type buoyResponse struct {
	HeightM   float64 `json:"height_m"`
	PeriodSec float64 `json:"period_sec"`
	DirDeg    float64 `json:"dir_deg"`
}

// waterLevelResponse is the water-temperature JSON shape fetched from
// SourceURLs.WaterLevelURL (NOAA water-level stations report temperature
// alongside tide height).
type waterLevelResponse struct {
	WaterTempF float64 `json:"water_temp_f"`
}

type ttlCache struct {
	mu        sync.Mutex
	fetchedAt time.Time
	ttl       time.Duration
	value     json.RawMessage
}

func (c *ttlCache) stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt.IsZero() || time.Since(c.fetchedAt) > c.ttl
}

func (c *ttlCache) set(v json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.fetchedAt = time.Now()
}

// get returns the last successfully fetched payload, even if stale — a
// slow-to-refresh source still beats discarding a known-good reading.
func (c *ttlCache) get() (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetchedAt.IsZero() {
		return nil, false
	}
	return c.value, true
}

// PollingProvider fetches environmental data from HTTP JSON endpoints,
// grounded directly on internal/ingestion/usgs.go's
// http.Client{Timeout: 15s} + json.NewDecoder + context-aware request
// pattern. All five sources share one TTL (the pollInterval given to
// NewPollingProvider); there are no per-source TTLs. A source whose URL
// is unset, or which has never been fetched successfully, is served from
// the embedded SyntheticProvider; after a failed refresh the source's
// last successful reading stays in use.
type PollingProvider struct {
	urls   SourceURLs
	client *http.Client

	weather *ttlCache
	tide    *ttlCache
	current *ttlCache
	buoy    *ttlCache
	level   *ttlCache

	synthetic *SyntheticProvider
}

// NewPollingProvider constructs a provider that serves base (via an
// embedded SyntheticProvider) for every source that is unconfigured or
// has no successful fetch yet. pollInterval is the shared TTL every
// source's cache is given
// (internal/config validates it at >= 1 minute).
func NewPollingProvider(urls SourceURLs, base models.EnvironmentalSnapshot, seed int64, pollInterval time.Duration) *PollingProvider {
	return &PollingProvider{
		urls:      urls,
		client:    &http.Client{Timeout: 15 * time.Second},
		weather:   &ttlCache{ttl: pollInterval},
		tide:      &ttlCache{ttl: pollInterval},
		current:   &ttlCache{ttl: pollInterval},
		buoy:      &ttlCache{ttl: pollInterval},
		level:     &ttlCache{ttl: pollInterval},
		synthetic: NewSyntheticProvider(base, seed),
	}
}

// ConditionsAt starts from the embedded synthetic field (which carries
// the tidal-phase advance and any source never configured) and overlays
// whatever each poller last fetched successfully.
func (p *PollingProvider) ConditionsAt(pos models.LatLng, t time.Time) models.EnvironmentalSnapshot {
	snap := p.synthetic.ConditionsAt(pos, t)

	if raw, ok := p.weather.get(); ok {
		var w weatherResponse
		if err := json.Unmarshal(raw, &w); err != nil {
			slog.Warn("decoding cached weather payload failed", "error", err)
		} else {
			snap.Wind.SpeedKn = w.WindSpeedKn
			snap.Wind.DirDeg = w.WindDirDeg
			snap.AirTempF = w.AirTempF
			snap.VisibilityNM = w.VisibilityNM
			snap.SeaState = w.SeaState
		}
	}

	if raw, ok := p.tide.get(); ok {
		var td tideResponse
		if err := json.Unmarshal(raw, &td); err != nil {
			slog.Warn("decoding cached tide payload failed", "error", err)
		} else {
			tidal := models.Tidal{}
			if snap.Tidal != nil {
				tidal = *snap.Tidal
			}
			tidal.Phase = td.Phase
			tidal.ShoreDirDeg = td.ShoreDirDeg
			tidal.ShoreNormalDeg = td.ShoreNormalDeg
			snap.Tidal = &tidal
		}
	}

	if raw, ok := p.current.get(); ok {
		var c currentResponse
		if err := json.Unmarshal(raw, &c); err != nil {
			slog.Warn("decoding cached current payload failed", "error", err)
		} else {
			snap.Current.SpeedKn = c.SpeedKn
			snap.Current.DirDeg = c.DirDeg
			snap.Current.VariationKn = c.VariationKn
		}
	}

	if raw, ok := p.buoy.get(); ok {
		var b buoyResponse
		if err := json.Unmarshal(raw, &b); err != nil {
			slog.Warn("decoding cached buoy payload failed", "error", err)
		} else {
			snap.Waves.HeightM = b.HeightM
			snap.Waves.PeriodSec = b.PeriodSec
			snap.Waves.DirDeg = b.DirDeg
		}
	}

	if raw, ok := p.level.get(); ok {
		var wl waterLevelResponse
		if err := json.Unmarshal(raw, &wl); err != nil {
			slog.Warn("decoding cached water level payload failed", "error", err)
		} else {
			snap.WaterTempF = wl.WaterTempF
		}
	}

	return snap
}

// Advance polls any stale, configured sources, caching successful
// responses for ConditionsAt to overlay on the embedded synthetic field,
// and then advances that synthetic field. A failed poll leaves the
// source's cache as it was: its last successful reading if it has one,
// otherwise the synthetic value (spec.md §7).
func (p *PollingProvider) Advance(t time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	p.pollIfStale(ctx, p.urls.WeatherURL, p.weather)
	p.pollIfStale(ctx, p.urls.TideURL, p.tide)
	p.pollIfStale(ctx, p.urls.CurrentURL, p.current)
	p.pollIfStale(ctx, p.urls.BuoyURL, p.buoy)
	p.pollIfStale(ctx, p.urls.WaterLevelURL, p.level)

	p.synthetic.Advance(t)
}

func (p *PollingProvider) pollIfStale(ctx context.Context, url string, cache *ttlCache) {
	if url == "" || !cache.stale() {
		return
	}
	body, err := p.fetch(ctx, url)
	if err != nil {
		slog.Warn("environmental poll failed, retaining last known value", "url", url, "error", err)
		return
	}
	cache.set(body)
}

func (p *PollingProvider) fetch(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	return raw, nil
}

package environment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sardrift/driftsim/internal/models"
)

func TestPollingProviderFetchesAndAppliesRealData(t *testing.T) {
	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(weatherResponse{WindSpeedKn: 22, WindDirDeg: 95, AirTempF: 68, VisibilityNM: 6, SeaState: 4})
	}))
	defer weather.Close()

	buoy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(buoyResponse{HeightM: 2.5, PeriodSec: 8, DirDeg: 210})
	}))
	defer buoy.Close()

	base := models.EnvironmentalSnapshot{Wind: models.Wind{SpeedKn: 1, DirDeg: 1}}
	p := NewPollingProvider(SourceURLs{WeatherURL: weather.URL, BuoyURL: buoy.URL}, base, 1, 10*time.Minute)

	p.Advance(time.Now())

	snap := p.ConditionsAt(models.LatLng{}, time.Now())
	if snap.Wind.SpeedKn != 22 || snap.Wind.DirDeg != 95 {
		t.Errorf("expected polled wind to override synthetic base, got %+v", snap.Wind)
	}
	if snap.AirTempF != 68 || snap.VisibilityNM != 6 || snap.SeaState != 4 {
		t.Errorf("expected polled weather fields applied, got airTemp=%v vis=%v seaState=%v", snap.AirTempF, snap.VisibilityNM, snap.SeaState)
	}
	if snap.Waves.HeightM != 2.5 || snap.Waves.PeriodSec != 8 || snap.Waves.DirDeg != 210 {
		t.Errorf("expected polled buoy wave data applied, got %+v", snap.Waves)
	}
}

func TestPollingProviderFallsBackToSyntheticOnFetchFailure(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	base := models.EnvironmentalSnapshot{Wind: models.Wind{SpeedKn: 9, DirDeg: 180}}
	p := NewPollingProvider(SourceURLs{WeatherURL: down.URL}, base, 1, 10*time.Minute)

	p.Advance(time.Now())

	// The embedded synthetic field advances one tick on every Advance, so
	// the expected wind is that of an identically seeded SyntheticProvider
	// after one tick.
	want := NewSyntheticProvider(base, 1)
	want.Advance(time.Now())
	wantWind := want.ConditionsAt(models.LatLng{}, time.Now()).Wind

	snap := p.ConditionsAt(models.LatLng{}, time.Now())
	if snap.Wind.SpeedKn != wantWind.SpeedKn || snap.Wind.DirDeg != wantWind.DirDeg {
		t.Errorf("expected the synthetic field to survive a failed poll, got %+v want %+v", snap.Wind, wantWind)
	}
}

func TestPollingProviderUnconfiguredSourceUsesSynthetic(t *testing.T) {
	base := models.EnvironmentalSnapshot{Current: models.Current{SpeedKn: 0.5, DirDeg: 180}}
	p := NewPollingProvider(SourceURLs{}, base, 1, 10*time.Minute)

	p.Advance(time.Now())

	snap := p.ConditionsAt(models.LatLng{}, time.Now())
	if snap.Current.SpeedKn != 0.5 {
		t.Errorf("expected unconfigured current source to fall back to synthetic, got %+v", snap.Current)
	}
}

func TestPollingProviderRetainsLastKnownValueUntilTTLExpires(t *testing.T) {
	calls := 0
	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(weatherResponse{WindSpeedKn: 15, WindDirDeg: 45})
	}))
	defer weather.Close()

	base := models.EnvironmentalSnapshot{}
	p := NewPollingProvider(SourceURLs{WeatherURL: weather.URL}, base, 1, 10*time.Minute)

	p.Advance(time.Now())
	p.Advance(time.Now())

	if calls != 1 {
		t.Errorf("expected only one fetch within the weather TTL, got %d", calls)
	}
}

func TestPollingProviderReFetchesOncePollIntervalElapses(t *testing.T) {
	calls := 0
	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(weatherResponse{WindSpeedKn: 15, WindDirDeg: 45})
	}))
	defer weather.Close()

	base := models.EnvironmentalSnapshot{}
	p := NewPollingProvider(SourceURLs{WeatherURL: weather.URL}, base, 1, time.Millisecond)

	p.Advance(time.Now())
	time.Sleep(5 * time.Millisecond)
	p.Advance(time.Now())

	if calls != 2 {
		t.Errorf("expected a second fetch once the configured poll interval elapsed, got %d calls", calls)
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sardrift/driftsim/internal/broadcaster"
	"github.com/sardrift/driftsim/internal/config"
	"github.com/sardrift/driftsim/internal/coordinator"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *coordinator.Coordinator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bc := broadcaster.New()
	c := coordinator.New(2, 8, bc, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	c.Run(ctx)
	t.Cleanup(func() {
		cancel()
		c.Stop()
		bc.Close()
	})

	defaults := config.SimulationDefaultsConfig{
		ParticleCount:  200,
		DurationHours:  1,
		TimeStepSec:    600,
		SpreadRadiusKm: 0.1,
	}

	router := gin.New()
	NewHandler(c, bc, defaults).RegisterRoutes(router)
	return router, c
}

func doRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCreateSimulationRequiresLKP(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/simulations", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing lkp, got %d", w.Code)
	}
}

func TestCreateSimulationRejectsInvalidObjectType(t *testing.T) {
	router, _ := setupTestRouter(t)

	body := []byte(`{"lkp":{"lat":29.3,"lng":-94.8},"object_type":"unicorn"}`)
	w := doRequest(router, http.MethodPost, "/simulations", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown object_type, got %d", w.Code)
	}
}

func TestSimulationLifecycle(t *testing.T) {
	router, _ := setupTestRouter(t)

	body := []byte(`{"lkp":{"lat":29.3,"lng":-94.8},"victim_profile":{"age":40,"has_pfd":false,"clothing":"light"}}`)
	w := doRequest(router, http.MethodPost, "/simulations", body)
	if w.Code != http.StatusOK {
		t.Fatalf("create simulation: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var created createSimulationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.Status != "started" {
		t.Errorf("expected status started, got %s", created.Status)
	}

	deadline := time.Now().Add(5 * time.Second)
	var status statusResponse
	for time.Now().Before(deadline) {
		w = doRequest(router, http.MethodGet, "/simulations/"+created.SimulationID+"/status", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status: expected 200, got %d", w.Code)
		}
		json.Unmarshal(w.Body.Bytes(), &status)
		if status.Status == "completed" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if status.Status != "completed" {
		t.Fatalf("simulation did not complete in time, last status %s", status.Status)
	}

	w = doRequest(router, http.MethodGet, "/simulations/"+created.SimulationID+"/results", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("results: expected 200, got %d", w.Code)
	}
	var results resultsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("decoding results: %v", err)
	}
	if len(results.Snapshots) == 0 {
		t.Error("expected at least one snapshot")
	}

	// Snapshots are recorded on crossing an hour boundary, so the 1h
	// default run's only snapshot is hour 1.
	w = doRequest(router, http.MethodGet, "/simulations/"+created.SimulationID+"/snapshot/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("snapshot: expected 200, got %d", w.Code)
	}
	var fc featureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("decoding snapshot geojson: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection, got %s", fc.Type)
	}

	w = doRequest(router, http.MethodDelete, "/simulations/"+created.SimulationID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/simulations/"+created.SimulationID+"/status", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete: expected 404, got %d", w.Code)
	}
}

func TestGetStatusUnknownID(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/simulations/not-a-uuid/status", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed id, got %d", w.Code)
	}
}

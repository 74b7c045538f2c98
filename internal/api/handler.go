// Package api is the gin-based Simulation HTTP façade of spec.md §6,
// grounded on internal/api/handler.go's route registration shape and
// query-parameter parsing style in the teacher.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sardrift/driftsim/internal/broadcaster"
	"github.com/sardrift/driftsim/internal/config"
	"github.com/sardrift/driftsim/internal/coordinator"
	"github.com/sardrift/driftsim/internal/errkind"
)

// Handler wires the Simulation API onto a coordinator and, for the
// streaming endpoint, a snapshot broadcaster.
type Handler struct {
	coordinator *coordinator.Coordinator
	broadcaster *broadcaster.Broadcaster
	defaults    config.SimulationDefaultsConfig
}

func NewHandler(c *coordinator.Coordinator, bc *broadcaster.Broadcaster, defaults config.SimulationDefaultsConfig) *Handler {
	return &Handler{coordinator: c, broadcaster: bc, defaults: defaults}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.POST("/simulations", h.createSimulation)
	r.GET("/simulations", h.listSimulations)
	r.GET("/simulations/:id/status", h.getStatus)
	r.GET("/simulations/:id/results", h.getResults)
	r.GET("/simulations/:id/snapshot/:hour", h.getSnapshot)
	r.GET("/simulations/:id/stream", h.streamSnapshots)
	r.POST("/simulations/:id/stop", h.stopSimulation)
	r.DELETE("/simulations/:id", h.deleteSimulation)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) createSimulation(c *gin.Context) {
	var req createSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cfg, ok := toSimulationConfig(req, h.defaults)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lkp is required"})
		return
	}

	id, err := h.coordinator.StartSimulation(cfg)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, renderCreated(id.String(), cfg))
}

func (h *Handler) listSimulations(c *gin.Context) {
	reports := h.coordinator.List()
	out := make([]statusResponse, len(reports))
	for i, r := range reports {
		out[i] = renderStatus(r)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	report, err := h.coordinator.Status(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderStatus(report))
}

func (h *Handler) getResults(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	results, err := h.coordinator.Results(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderResults(results))
}

func (h *Handler) getSnapshot(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	hour, err := strconv.Atoi(c.Param("hour"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hour must be an integer"})
		return
	}
	snap, err := h.coordinator.Snapshot(id, hour)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, toGeoJSON(*snap))
}

func (h *Handler) stopSimulation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.coordinator.StopSimulation(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stop requested"})
}

func (h *Handler) deleteSimulation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.coordinator.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// streamSnapshots is the supplemental SSE endpoint (spec.md §6 is
// silent on streaming; see SPEC_FULL.md's supplemental-features
// section). Subscribes to the shared broadcaster and forwards every
// snapshot broadcast while the client stays connected — it does not
// filter by simulation id, matching the broadcaster's single shared
// fan-out.
func (h *Handler) streamSnapshots(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live stream not configured"})
		return
	}
	if _, err := parseID(c); err != nil {
		return
	}

	subID, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(subID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", renderSnapshot(*snap))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid simulation id"})
		return uuid.Nil, err
	}
	return id, nil
}

func writeError(c *gin.Context, err error) {
	var ke *errkind.Error
	if errors.As(err, &ke) {
		c.JSON(statusFor(ke.Kind), gin.H{"error": ke.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func statusFor(k errkind.Kind) int {
	switch k {
	case errkind.ConfigurationInvalid:
		return http.StatusBadRequest
	case errkind.NotFound:
		return http.StatusNotFound
	case errkind.NotReady:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

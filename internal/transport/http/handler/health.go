package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
)

// IndexState is the part of the search service health reporting needs.
type IndexState interface {
	Ready() bool
	ChunkCount() int
}

// CircuitState exposes the embeddings provider's circuit breaker.
type CircuitState interface {
	State() gobreaker.State
}

type HealthHandler struct {
	name      string
	startedAt time.Time
	index     IndexState
	circuit   CircuitState
}

// NewHealthHandler reports the search index when index is non-nil and liveness only otherwise.
func NewHealthHandler(name string, startedAt time.Time, index IndexState) *HealthHandler {
	return &HealthHandler{name: name, startedAt: startedAt, index: index}
}

// WithCircuit adds the breaker state to the index health body.
func (h *HealthHandler) WithCircuit(circuit CircuitState) *HealthHandler {
	h.circuit = circuit
	return h
}

func (h *HealthHandler) Check(c *gin.Context) {
	body := gin.H{
		"app":        h.name,
		"uptime_sec": int(time.Since(h.startedAt).Seconds()),
	}
	if h.index == nil {
		c.JSON(http.StatusOK, body)
		return
	}

	ready := h.index.Ready()
	body["index"] = gin.H{
		"ready":  ready,
		"chunks": h.index.ChunkCount(),
	}
	if h.circuit != nil {
		body["embedder_circuit"] = h.circuit.State().String()
	}
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}

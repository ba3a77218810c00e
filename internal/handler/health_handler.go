package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wahajaslm/tarco/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	refs  port.ReferenceRepository
	index port.VectorIndex
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(refs port.ReferenceRepository, index port.VectorIndex) *HealthHandler {
	return &HealthHandler{refs: refs, index: index}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.refs.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "reference store not reachable"})
		return
	}
	if _, err := h.index.Count(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "vector index not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

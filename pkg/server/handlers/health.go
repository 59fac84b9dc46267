// Package handlers implements the gin HTTP handlers for the knowledge API.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/patternbase"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	client *patternbase.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(client *patternbase.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "patternbase",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ReadinessCheck handles GET /ready. The store is in-memory, so readiness
// only verifies the client is wired.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if h.client == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	stats := h.client.StoreStats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"service":   "patternbase",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"records": stats.Patterns + stats.Examples + stats.SecurityRules +
			stats.Dialects + stats.LearningPaths,
	})
}

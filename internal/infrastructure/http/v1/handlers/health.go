package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

// Pinger checks that storage answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	app     string
	version string
	driver  string
	storage Pinger
	pool    *postgres.Pool
}

// HealthConfig configures the health handler. Pool is nil for the memory backend.
type HealthConfig struct {
	App     string
	Version string
	Driver  string
	Storage Pinger
	Pool    *postgres.Pool
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cfg HealthConfig) *HealthHandler {
	return &HealthHandler{
		app:     cfg.App,
		version: cfg.Version,
		driver:  cfg.Driver,
		storage: cfg.Storage,
		pool:    cfg.Pool,
	}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.storage.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"storage": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"storage": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     h.app,
		"version": h.version,
		"storage": h.driver,
	}

	if h.pool != nil {
		info["database"] = h.pool.Stats()
	}

	c.JSON(http.StatusOK, info)
}

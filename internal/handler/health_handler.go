package handler

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	drv *entsql.Driver
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(drv *entsql.Driver) *HealthHandler {
	return &HealthHandler{
		drv: drv,
	}
}

// Ping is the basic health check.
// GET /ping
func (h *HealthHandler) Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status":  "ok",
		"message": "pong",
	})
}

// Readiness checks the service and its dependencies.
// GET /health/ready
func (h *HealthHandler) Readiness(ctx context.Context, c *app.RequestContext) {
	if err := h.drv.DB().PingContext(ctx); err != nil {
		c.JSON(503, utils.H{
			"status":   "not_ready",
			"database": "unhealthy",
			"error":    err.Error(),
		})
		return
	}

	c.JSON(200, utils.H{
		"status":   "ready",
		"database": "healthy",
	})
}

// Liveness reports that the process is alive.
// GET /health/live
func (h *HealthHandler) Liveness(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status": "alive",
	})
}

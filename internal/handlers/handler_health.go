package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/philodia/gescom-core/internal/middleware"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck checks one dependency of the service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func registerHealthRoutes(r *gin.Engine, checks []HealthCheck) {
	r.GET("/healthz", func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				logger.Error("Health check failed", slog.String("check", hc.Name), slog.String("error", err.Error()))
				results[hc.Name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[hc.Name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "checks": results})
	})
}

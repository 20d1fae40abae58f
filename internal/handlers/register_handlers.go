package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/dto"
	"github.com/philodia/gescom-core/internal/middleware"
	"github.com/philodia/gescom-core/internal/platform/config"
)

// RetryPolicyFromConfig builds the caller-side retry policy of write endpoints.
func RetryPolicyFromConfig(cfg *config.Config) RetryPolicy {
	return RetryPolicy{
		MaxRetries:      uint64(cfg.TxMaxRetries),
		InitialInterval: cfg.TxRetryInitialInterval,
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	retry RetryPolicy,
	services *portssvc.ServiceContainer,
	checks ...HealthCheck,
) error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return fmt.Errorf("failed to register request validators: %w", err)
		}
	}

	registerHealthRoutes(r, checks)

	setupAPIV1Routes(r, retry, services)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	retry RetryPolicy,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	registerPostingRoutes(v1, services.Posting, retry)
	registerInventoryRoutes(v1, services.Inventory, retry)
	registerReportingRoutes(v1, services.Reporting)
	registerAdminRoutes(v1, services.Resolver, services.Reporting)
}

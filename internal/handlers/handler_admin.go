package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/middleware"
)

type adminHandler struct {
	resolver  portssvc.ResolverSvc
	reporting portssvc.ReportingService
}

func registerAdminRoutes(rg *gin.RouterGroup, resolver portssvc.ResolverSvc, reporting portssvc.ReportingService) {
	h := &adminHandler{resolver: resolver, reporting: reporting}

	admin := rg.Group("/admin")
	admin.POST("/reference-data/reload", h.reloadReferenceData)
}

// reloadReferenceData godoc
// @Summary Reload reference data
// @Description Drops the resolved accounts and journals and the cached reports, so chart changes made outside this service are picked up
// @Tags admin
// @Produce  json
// @Success 200 {object} map[string]string "Reference data reloaded"
// @Failure 500 {object} map[string]string "Failed to reload reference data"
// @Router /admin/reference-data/reload [post]
func (h *adminHandler) reloadReferenceData(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.resolver.Reload(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to reload reference data")
		return
	}
	if err := h.reporting.InvalidateCache(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to invalidate report cache")
		return
	}

	logger.Info("Reference data reloaded")
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/dto"
	"github.com/philodia/gescom-core/internal/middleware"
)

// reportingHandler handles HTTP requests related to sales reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs, now: time.Now}
}

// registerReportingRoutes registers routes related to sales reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/sales", h.getSalesReport)
	}
}

// getSalesReport godoc
// @Summary Generate the sales report
// @Description Builds the sales report of invoices issued between from and to, both inclusive.
// @Description from defaults to the first day of the current month and to defaults to today.
// @Tags reports
// @Produce  json
// @Param   from query string false "First day (YYYY-MM-DD)"
// @Param   to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} dto.SalesReportResponse
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 500 {object} map[string]string "Failed to generate sales report"
// @Router /reports/sales [get]
func (h *reportingHandler) getSalesReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SalesReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid sales report parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	now := h.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if params.From != "" {
		// Already validated by the binding
		from, _ = time.Parse(dto.ReportDateLayout, params.From)
	}
	if params.To != "" {
		to, _ = time.Parse(dto.ReportDateLayout, params.To)
	}
	if from.After(to) {
		logger.Warn("Invalid date range", slog.String("from", params.From), slog.String("to", params.To))
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before or equal to to"})
		return
	}
	// The whole last day is included
	end := to.Add(24*time.Hour - time.Nanosecond)

	logger = logger.With(
		slog.String("from", from.Format(dto.ReportDateLayout)),
		slog.String("to", to.Format(dto.ReportDateLayout)),
	)

	report, err := h.reportingService.SalesReport(c.Request.Context(), from, end)
	if err != nil {
		respondError(c, logger, err, "Failed to generate sales report")
		return
	}

	logger.Info("Sales report generated successfully", slog.Int("invoice_count", report.KPIs.InvoiceCount))
	c.JSON(http.StatusOK, dto.ToSalesReportResponse(*report))
}

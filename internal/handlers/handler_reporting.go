package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
	"github.com/retailtrack/retail_mgmt_app/internal/middleware"
)

// reportingHandler handles HTTP requests for read-only reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/sales-summary", h.getSalesSummary)
		reports.GET("/low-stock", h.getLowStockReport)
	}
}

// getSalesSummary godoc
// @Summary Get a sales summary
// @Description Aggregates completed sales over a date range
// @Tags reports
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.SalesSummaryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to build sales summary"
// @Router /reports/sales-summary [get]
func (h *reportingHandler) getSalesSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.SalesSummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetSalesSummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.reportingService.GetSalesSummary(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error building sales summary", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to build sales summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build sales summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSalesSummaryResponse(summary))
}

// getLowStockReport godoc
// @Summary Get the low stock report
// @Description Lists active products at or below their minimum stock
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.LowStockReportResponse
// @Failure 500 {object} map[string]string "Failed to build low stock report"
// @Router /reports/low-stock [get]
func (h *reportingHandler) getLowStockReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	alerts, err := h.reportingService.GetLowStockReport(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build low stock report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build low stock report"})
		return
	}

	responses := make([]dto.LowStockAlertResponse, len(alerts))
	for i, a := range alerts {
		responses[i] = dto.ToLowStockAlertResponse(a)
	}
	c.JSON(http.StatusOK, dto.LowStockReportResponse{Alerts: responses, Count: len(responses)})
}

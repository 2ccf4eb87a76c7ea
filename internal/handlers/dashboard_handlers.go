package handlers

import (
	"net/http"

	"salon_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the revenue and popularity reports.
type DashboardHandler struct {
	reportService services.ReportService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(rs services.ReportService) *DashboardHandler {
	return &DashboardHandler{reportService: rs}
}

// GetSummary returns counts, revenue today/total and the top five services.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportService.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetRevenue returns daily revenue for the last 7 days (period=weekly) or 30 days.
func (h *DashboardHandler) GetRevenue(c *gin.Context) {
	period := c.DefaultQuery("period", services.PeriodMonthly)
	points, err := h.reportService.DailyRevenue(c.Request.Context(), period)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch revenue data.")
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetMonthlyRevenue returns completed revenue grouped by month.
func (h *DashboardHandler) GetMonthlyRevenue(c *gin.Context) {
	points, err := h.reportService.MonthlyRevenue(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch monthly revenue.")
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetReports returns the full reporting view.
func (h *DashboardHandler) GetReports(c *gin.Context) {
	report, err := h.reportService.DetailedReport(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to build reports.")
		return
	}
	c.JSON(http.StatusOK, report)
}

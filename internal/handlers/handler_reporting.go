package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/dto"
	"github.com/telemedix/ledger-backend/internal/middleware"
)

// reportingHandler handles HTTP requests for the financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/revenue", h.getRevenueReport)
		reports.GET("/reconciliation", h.getReconciliation)
	}

	rg.GET("/dashboard", h.getDashboard)
}

// getTrialBalance godoc
// @Summary Trial balance report
// @Description Lists every active account with its balance split into debit and credit columns
// @Tags reports
// @Produce json
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build trial balance"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.GetTrialBalance(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(rows, time.Now()))
}

// getRevenueReport godoc
// @Summary Revenue report
// @Description Aggregates posted batch volume by category and day over a date window
// @Tags reports
// @Produce json
// @Param from query string true "Window start (YYYY-MM-DD)"
// @Param to query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} dto.RevenueReportResponse
// @Failure 400 {object} ErrorResponse "Missing or inverted window"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build revenue report"
// @Security BearerAuth
// @Router /reports/revenue [get]
func (h *reportingHandler) getRevenueReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.RevenueReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetRevenueReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.GetRevenueReport(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build revenue report")
		return
	}

	c.JSON(http.StatusOK, dto.ToRevenueReportResponse(report))
}

// getReconciliation godoc
// @Summary Wallet reconciliation report
// @Description Compares wallet projections against the wallet liability accounts per owner type
// @Tags reports
// @Produce json
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build reconciliation report"
// @Security BearerAuth
// @Router /reports/reconciliation [get]
func (h *reportingHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.GetReconciliation(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build reconciliation report")
		return
	}

	resp := dto.ToReconciliationResponse(rows, time.Now())
	if !resp.Reconciled {
		logger.Warn("Wallet projections out of sync with ledger")
	}

	c.JSON(http.StatusOK, resp)
}

// getDashboard godoc
// @Summary Admin dashboard metrics
// @Description Summarises wallet counts, total liability and today's posting activity
// @Tags reports
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build dashboard"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	metrics, err := h.reportingService.GetDashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		WalletsByOwnerType: metrics.WalletsByOwnerType,
		TotalLiability:     metrics.TotalLiability,
		BatchesToday:       metrics.BatchesToday,
		VolumeToday:        metrics.VolumeToday,
	})
}

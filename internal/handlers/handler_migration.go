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

// migrationHandler handles HTTP requests for the legacy data importer.
type migrationHandler struct {
	migrationService portssvc.MigrationSvc
}

// registerMigrationRoutes registers routes related to the legacy importer.
func registerMigrationRoutes(rg *gin.RouterGroup, migrationService portssvc.MigrationSvc) {
	h := &migrationHandler{migrationService: migrationService}

	migration := rg.Group("/migration")
	{
		migration.GET("/status", h.getStatus)
		migration.POST("/run", h.run)
	}
}

// getStatus godoc
// @Summary Legacy migration status
// @Description Reports whether legacy wallet transactions are still pending import
// @Tags migration
// @Produce json
// @Success 200 {object} dto.MigrationStatusResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to read migration status"
// @Security BearerAuth
// @Router /migration/status [get]
func (h *migrationHandler) getStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, err := h.migrationService.Status(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to read migration status")
		return
	}

	c.JSON(http.StatusOK, dto.ToMigrationStatusResponse(status))
}

// run godoc
// @Summary Run the legacy importer
// @Description Imports every legacy wallet transaction as a balanced batch. Optionally drops the legacy table after a clean run.
// @Tags migration
// @Accept json
// @Produce json
// @Param run body dto.MigrationRunRequest true "Run options"
// @Success 200 {object} dto.MigrationRunResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "No legacy table present"
// @Failure 500 {object} ErrorResponse "Migration run failed"
// @Security BearerAuth
// @Router /migration/run [post]
func (h *migrationHandler) run(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MigrationRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MigrationRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.Bool("drop_legacy", req.DropLegacy))
	logger.Info("Received request to run legacy migration")

	summary, err := h.migrationService.Run(c.Request.Context(), req.DropLegacy, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Migration run failed")
		return
	}

	logger.Info("Migration run finished",
		slog.Int("migrated", summary.Migrated),
		slog.Int("failed", summary.Failed),
		slog.Int("uncategorized", summary.Uncategorized))

	c.JSON(http.StatusOK, dto.MigrationRunResponse{
		Migrated:      summary.Migrated,
		Failed:        summary.Failed,
		Uncategorized: summary.Uncategorized,
		LegacyDropped: summary.LegacyDropped,
		StartedAt:     summary.StartedAt.Format(time.RFC3339),
		FinishedAt:    summary.FinishedAt.Format(time.RFC3339),
	})
}

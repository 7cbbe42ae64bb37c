package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/dto"
	"github.com/telemedix/ledger-backend/internal/middleware"
)

// transactionHandler handles HTTP requests for transaction batches and
// ledger entries.
type transactionHandler struct {
	batchService portssvc.BatchSvcFacade
}

// registerTransactionRoutes registers routes related to batches and entries.
func registerTransactionRoutes(rg *gin.RouterGroup, batchService portssvc.BatchSvcFacade) {
	h := &transactionHandler{batchService: batchService}

	batches := rg.Group("/batches")
	{
		batches.POST("", h.recordTransaction)
		batches.GET("", h.listBatches)
		batches.GET("/:id", h.getBatch)
		batches.POST("/:id/reverse", h.reverseBatch)
	}

	rg.GET("/entries", h.listEntries)
	rg.POST("/journal-entries", h.createJournalEntry)
	rg.POST("/operating-fund", h.fundOperatingAccount)
}

// recordTransaction godoc
// @Summary Record a transaction batch
// @Description Validates and atomically posts a balanced transaction batch
// @Tags batches
// @Accept json
// @Produce json
// @Param batch body dto.RecordTransactionRequest true "Batch details"
// @Success 201 {object} dto.BatchResponse
// @Failure 400 {object} ErrorResponse "Unbalanced or malformed batch"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Insufficient funds or inactive account"
// @Failure 500 {object} ErrorResponse "Failed to record transaction"
// @Security BearerAuth
// @Router /batches [post]
func (h *transactionHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if req.PerformedBy == "" {
		req.PerformedBy = userID
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("category", string(req.Category)))
	logger.Info("Received request to record transaction", slog.Int("entry_count", len(req.Entries)))

	batch, err := h.batchService.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record transaction")
		return
	}

	logger.Info("Transaction recorded successfully", slog.String("batch_id", batch.BatchID))
	c.JSON(http.StatusCreated, dto.ToBatchResponse(batch))
}

// getBatch godoc
// @Summary Get a batch by ID
// @Description Retrieves a transaction batch together with its ledger entries
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} dto.BatchResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Batch not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve batch"
// @Security BearerAuth
// @Router /batches/{id} [get]
func (h *transactionHandler) getBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("id")

	logger = logger.With(slog.String("batch_id", batchID))

	batch, err := h.batchService.GetBatchByID(c.Request.Context(), batchID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve batch")
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchResponse(batch))
}

// listBatches godoc
// @Summary List transaction batches
// @Description Retrieves a token-paginated list of batches, newest first, with optional filters
// @Tags batches
// @Produce json
// @Param category query string false "Filter by batch category"
// @Param status query string false "Filter by batch status"
// @Param walletID query string false "Filter by tagged wallet"
// @Param userID query string false "Filter by tagged user"
// @Param from query string false "Posted on or after (YYYY-MM-DD)"
// @Param to query string false "Posted before (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListBatchesResponse
// @Failure 400 {object} ErrorResponse "Invalid filters or pagination token"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list batches"
// @Security BearerAuth
// @Router /batches [get]
func (h *transactionHandler) listBatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListBatchesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBatches", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	batches, nextToken, err := h.batchService.ListBatches(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list batches")
		return
	}

	resp := dto.ListBatchesResponse{
		Batches:   make([]dto.BatchResponse, len(batches)),
		NextToken: nextToken,
	}
	for i := range batches {
		resp.Batches[i] = dto.ToBatchResponse(&batches[i])
	}

	c.JSON(http.StatusOK, resp)
}

// reverseBatch godoc
// @Summary Reverse a posted batch
// @Description Posts a mirror-image batch undoing a posted batch. A batch can be reversed at most once.
// @Tags batches
// @Accept json
// @Produce json
// @Param id path string true "Batch ID to reverse"
// @Param reversal body dto.ReverseBatchRequest true "Reversal reason"
// @Success 201 {object} dto.BatchResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Batch not found"
// @Failure 409 {object} ErrorResponse "Batch already reversed or not reversible"
// @Failure 500 {object} ErrorResponse "Failed to reverse batch"
// @Security BearerAuth
// @Router /batches/{id}/reverse [post]
func (h *transactionHandler) reverseBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("id")

	var req dto.ReverseBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("batch_id", batchID), slog.String("user_id", userID))
	logger.Info("Received request to reverse batch")

	reversal, err := h.batchService.ReverseBatch(c.Request.Context(), batchID, req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse batch")
		return
	}

	logger.Info("Batch reversed successfully", slog.String("reversal_batch_id", reversal.BatchID))
	c.JSON(http.StatusCreated, dto.ToBatchResponse(reversal))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Retrieves a token-paginated list of ledger entries with optional filters
// @Tags entries
// @Produce json
// @Param accountCode query string false "Filter by account code"
// @Param walletID query string false "Filter by tagged wallet"
// @Param batchID query string false "Filter by batch"
// @Param entryType query string false "Filter by DEBIT or CREDIT"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid filters or pagination token"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list entries"
// @Security BearerAuth
// @Router /entries [get]
func (h *transactionHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.batchService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	})
}

// createJournalEntry godoc
// @Summary Create a manual journal entry
// @Description Posts an arbitrary balanced batch for manual corrections
// @Tags batches
// @Accept json
// @Produce json
// @Param journal body dto.CreateJournalEntryRequest true "Journal details"
// @Success 201 {object} dto.BatchResponse
// @Failure 400 {object} ErrorResponse "Unbalanced or malformed journal"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Inactive account"
// @Failure 500 {object} ErrorResponse "Failed to create journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *transactionHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to create journal entry", slog.Int("entry_count", len(req.Entries)))

	batch, err := h.batchService.CreateJournalEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created successfully", slog.String("batch_id", batch.BatchID))
	c.JSON(http.StatusCreated, dto.ToBatchResponse(batch))
}

// fundOperatingAccount godoc
// @Summary Fund the operating account
// @Description Moves value from retained earnings into the operating fund asset account
// @Tags batches
// @Accept json
// @Produce json
// @Param funding body dto.FundOperatingAccountRequest true "Funding amount"
// @Success 201 {object} dto.BatchResponse
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to fund operating account"
// @Security BearerAuth
// @Router /operating-fund [post]
func (h *transactionHandler) fundOperatingAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FundOperatingAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FundOperatingAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to fund operating account", slog.String("amount", req.Amount.String()))

	batch, err := h.batchService.FundOperatingAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to fund operating account")
		return
	}

	logger.Info("Operating account funded successfully", slog.String("batch_id", batch.BatchID))
	c.JSON(http.StatusCreated, dto.ToBatchResponse(batch))
}

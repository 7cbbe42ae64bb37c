package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemedix/ledger-backend/internal/core/domain"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/dto"
	"github.com/telemedix/ledger-backend/internal/middleware"
)

// walletHandler handles HTTP requests for wallet projections. Admin money
// movements delegate to the batch service; the wallet service never posts.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
	batchService  portssvc.BatchAdminSvc
}

// registerWalletRoutes registers routes related to wallets.
func registerWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade, batchService portssvc.BatchAdminSvc) {
	h := &walletHandler{walletService: walletService, batchService: batchService}

	wallets := rg.Group("/wallets")
	{
		wallets.POST("", h.ensureWallet)
		wallets.GET("", h.listWallets)
		wallets.GET("/:id", h.getWallet)
		wallets.GET("/owner/:ownerType/:ownerID", h.getWalletByOwner)
		wallets.PATCH("/:id/status", h.updateWalletStatus)
		wallets.POST("/:id/credit", h.creditWallet)
		wallets.POST("/:id/debit", h.debitWallet)
	}
}

// ensureWallet godoc
// @Summary Ensure a wallet exists
// @Description Returns the owner's wallet, creating an empty active one on first use
// @Tags wallets
// @Accept json
// @Produce json
// @Param wallet body dto.EnsureWalletRequest true "Owner details"
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to ensure wallet"
// @Security BearerAuth
// @Router /wallets [post]
func (h *walletHandler) ensureWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EnsureWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EnsureWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("owner_id", req.OwnerID), slog.String("owner_type", string(req.OwnerType)))

	wallet, err := h.walletService.EnsureWallet(c.Request.Context(), req.OwnerID, req.OwnerType, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to ensure wallet")
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// getWallet godoc
// @Summary Get a wallet by ID
// @Description Retrieves a wallet projection by its identifier
// @Tags wallets
// @Produce json
// @Param id path string true "Wallet ID"
// @Success 200 {object} dto.WalletResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wallet not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve wallet"
// @Security BearerAuth
// @Router /wallets/{id} [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")

	logger = logger.With(slog.String("wallet_id", walletID))

	wallet, err := h.walletService.GetWalletByID(c.Request.Context(), walletID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve wallet")
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// getWalletByOwner godoc
// @Summary Get a wallet by owner
// @Description Retrieves the wallet belonging to an owner, if one exists
// @Tags wallets
// @Produce json
// @Param ownerType path string true "Owner type (PATIENT, SPECIALIST, PHARMACY, PLATFORM)"
// @Param ownerID path string true "Owner ID"
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} ErrorResponse "Unknown owner type"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wallet not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve wallet"
// @Security BearerAuth
// @Router /wallets/owner/{ownerType}/{ownerID} [get]
func (h *walletHandler) getWalletByOwner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerType := domain.OwnerType(c.Param("ownerType"))
	ownerID := c.Param("ownerID")

	if !domain.KnownOwnerType(ownerType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown owner type: " + string(ownerType)})
		return
	}

	logger = logger.With(slog.String("owner_id", ownerID), slog.String("owner_type", string(ownerType)))

	wallet, err := h.walletService.GetWalletByOwner(c.Request.Context(), ownerID, ownerType)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve wallet")
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// listWallets godoc
// @Summary List wallets
// @Description Retrieves a paginated list of wallets with the total count
// @Tags wallets
// @Produce json
// @Param ownerType query string false "Filter by owner type"
// @Param status query string false "Filter by wallet status"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListWalletsResponse
// @Failure 400 {object} ErrorResponse "Invalid filters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list wallets"
// @Security BearerAuth
// @Router /wallets [get]
func (h *walletHandler) listWallets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListWalletsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListWallets", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	wallets, total, err := h.walletService.ListWallets(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list wallets")
		return
	}

	resp := dto.ListWalletsResponse{
		Wallets: make([]dto.WalletResponse, len(wallets)),
		Total:   total,
	}
	for i := range wallets {
		resp.Wallets[i] = dto.ToWalletResponse(&wallets[i])
	}

	c.JSON(http.StatusOK, resp)
}

// updateWalletStatus godoc
// @Summary Update a wallet's status
// @Description Transitions a wallet between ACTIVE, SUSPENDED, FROZEN and CLOSED. CLOSED is terminal.
// @Tags wallets
// @Accept json
// @Produce json
// @Param id path string true "Wallet ID"
// @Param status body dto.UpdateWalletStatusRequest true "New status and reason"
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wallet not found"
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Failure 500 {object} ErrorResponse "Failed to update wallet status"
// @Security BearerAuth
// @Router /wallets/{id}/status [patch]
func (h *walletHandler) updateWalletStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")

	var req dto.UpdateWalletStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateWalletStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("wallet_id", walletID), slog.String("new_status", string(req.Status)), slog.String("user_id", userID))
	logger.Info("Received request to update wallet status")

	wallet, err := h.walletService.UpdateWalletStatus(c.Request.Context(), walletID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update wallet status")
		return
	}

	logger.Info("Wallet status updated successfully")
	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// creditWallet godoc
// @Summary Credit a wallet
// @Description Posts a batch crediting the wallet from an admin-chosen source account
// @Tags wallets
// @Accept json
// @Produce json
// @Param id path string true "Wallet ID"
// @Param credit body dto.CreditWalletRequest true "Credit details"
// @Success 201 {object} dto.BatchResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wallet or account not found"
// @Failure 422 {object} ErrorResponse "Wallet not active"
// @Failure 500 {object} ErrorResponse "Failed to credit wallet"
// @Security BearerAuth
// @Router /wallets/{id}/credit [post]
func (h *walletHandler) creditWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")

	var req dto.CreditWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreditWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("wallet_id", walletID), slog.String("user_id", userID))
	logger.Info("Received request to credit wallet", slog.String("amount", req.Amount.String()))

	batch, err := h.batchService.AdminCreditWallet(c.Request.Context(), walletID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to credit wallet")
		return
	}

	logger.Info("Wallet credited successfully", slog.String("batch_id", batch.BatchID))
	c.JSON(http.StatusCreated, dto.ToBatchResponse(batch))
}

// debitWallet godoc
// @Summary Debit a wallet
// @Description Posts a batch debiting the wallet into an admin-chosen destination account
// @Tags wallets
// @Accept json
// @Produce json
// @Param id path string true "Wallet ID"
// @Param debit body dto.DebitWalletRequest true "Debit details"
// @Success 201 {object} dto.BatchResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wallet or account not found"
// @Failure 422 {object} ErrorResponse "Insufficient funds or wallet not active"
// @Failure 500 {object} ErrorResponse "Failed to debit wallet"
// @Security BearerAuth
// @Router /wallets/{id}/debit [post]
func (h *walletHandler) debitWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("id")

	var req dto.DebitWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DebitWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("wallet_id", walletID), slog.String("user_id", userID))
	logger.Info("Received request to debit wallet", slog.String("amount", req.Amount.String()))

	batch, err := h.batchService.AdminDebitWallet(c.Request.Context(), walletID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to debit wallet")
		return
	}

	logger.Info("Wallet debited successfully", slog.String("batch_id", batch.BatchID))
	c.JSON(http.StatusCreated, dto.ToBatchResponse(batch))
}

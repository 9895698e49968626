package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for the immutable ledger.
type ledgerHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

func newLedgerHandler(svc portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerSvc: svc}
}

// registerLedgerRoutes registers transaction and card import routes. Posting
// requires the transactions.create permission. PUT and DELETE are registered
// deliberately and left unguarded: they always answer 405 through the service
// so clients get an explicit immutability error, not a router 404.
func registerLedgerRoutes(rg *gin.RouterGroup, svc portssvc.LedgerSvcFacade, checker middleware.PermissionChecker) {
	h := newLedgerHandler(svc)
	post := middleware.RequirePermission(checker, "transactions.create")

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", post, h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}

	cards := rg.Group("/credit-card-transactions")
	{
		cards.POST("", post, h.importCreditCardTransaction)
		cards.GET("", h.listCreditCardTransactions)
	}
}

// createTransaction godoc
// @Summary Post a ledger transaction
// @Description Posts a balanced double-entry transaction; debits and credits must match exactly
// @Tags ledger
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction with records"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *ledgerHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.ledgerSvc.CreateTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post transaction")
		return
	}

	logger.Info("Transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn, nil))
}

func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txn, records, err := h.ledgerSvc.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, records))
}

func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query struct {
		OrganizationID string  `form:"organizationID" binding:"required"`
		Limit          int     `form:"limit,default=20"`
		NextToken      *string `form:"nextToken"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, nextToken, err := h.ledgerSvc.ListTransactions(c.Request.Context(), query.OrganizationID, query.Limit, query.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	})
}

// updateTransaction godoc
// @Summary Update a ledger transaction
// @Description Always fails with 405; ledger records are immutable and corrections are posted as offsetting transactions
// @Tags ledger
// @Param id path string true "Transaction ID"
// @Failure 405 {object} map[string]string "Ledger transactions are immutable"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *ledgerHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	err := h.ledgerSvc.UpdateTransaction(c.Request.Context(), c.Param("id"), userID)
	respondError(c, logger, err, "Failed to update transaction")
}

// deleteTransaction godoc
// @Summary Delete a ledger transaction
// @Description Always fails with 405; ledger records are immutable
// @Tags ledger
// @Param id path string true "Transaction ID"
// @Failure 405 {object} map[string]string "Ledger transactions are immutable"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *ledgerHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	err := h.ledgerSvc.DeleteTransaction(c.Request.Context(), c.Param("id"), userID)
	respondError(c, logger, err, "Failed to delete transaction")
}

func (h *ledgerHandler) importCreditCardTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportCreditCardTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cct, err := h.ledgerSvc.ImportCreditCardTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to import card transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreditCardTransactionResponse(cct))
}

func (h *ledgerHandler) listCreditCardTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query struct {
		OrganizationID string `form:"organizationID" binding:"required"`
		UnmatchedOnly  bool   `form:"unmatchedOnly"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ccts, err := h.ledgerSvc.ListCreditCardTransactions(c.Request.Context(), query.OrganizationID, query.UnmatchedOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list card transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditCardTransactionResponses(ccts))
}

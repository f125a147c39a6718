package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// ledgerHandler handles HTTP requests related to ledger transactions.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerLedgerRoutes registers transaction routes under an organization group.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.postTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.PUT("/:transaction_id", h.updateTransaction)
		txns.DELETE("/:transaction_id", h.voidTransaction)
	}
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Posts a balanced transaction. Debits must equal credits across all entries.
// @Tags transactions
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Unbalanced or invalid entries"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions [post]
func (h *ledgerHandler) postTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	txn, err := h.ledgerService.PostTransaction(c.Request.Context(), c.Param("org_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to post transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first with token-based pagination.
// @Tags transactions
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	page, err := h.ledgerService.ListTransactions(c.Request.Context(), c.Param("org_id"), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions/{transaction_id} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), c.Param("org_id"), c.Param("transaction_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Replaces the transaction's fields and its full entry set. The
// @Description replacement must balance like a new posting.
// @Tags transactions
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param transaction_id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Replacement details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions/{transaction_id} [put]
func (h *ledgerHandler) updateTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	txn, err := h.ledgerService.UpdateTransaction(c.Request.Context(), c.Param("org_id"), c.Param("transaction_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// voidTransaction godoc
// @Summary Void a transaction
// @Description Removes the transaction and all of its journal entries.
// @Tags transactions
// @Param org_id path string true "Organization ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions/{transaction_id} [delete]
func (h *ledgerHandler) voidTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.ledgerService.VoidTransaction(c.Request.Context(), c.Param("org_id"), c.Param("transaction_id"), userID); err != nil {
		respondError(c, err, "Failed to void transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

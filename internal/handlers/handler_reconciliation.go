package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// reconciliationHandler handles HTTP requests related to bank feeds, staged
// transactions and reconciliation rules.
type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

// registerReconciliationRoutes registers reconciliation routes under an
// organization group.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconService portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconService: reconService}

	feeds := rg.Group("/bank-feeds")
	{
		feeds.GET("", h.listBankFeeds)
		feeds.POST("/:feed_id/sync", h.syncBankFeed)
	}

	rg.POST("/bank-statements/import", h.importBankStatement)

	staged := rg.Group("/staged-transactions")
	{
		staged.GET("", h.listStagedTransactions)
		staged.POST("/:staged_id/match", h.matchStagedTransaction)
		staged.POST("/:staged_id/create-transaction", h.createTransactionFromStaged)
	}

	rules := rg.Group("/rules")
	{
		rules.GET("", h.listRules)
		rules.POST("", h.createRule)
		rules.PUT("/:rule_id", h.updateRule)
		rules.DELETE("/:rule_id", h.deleteRule)
		rules.POST("/run", h.runRules)
	}
}

// listBankFeeds godoc
// @Summary List connected bank feeds
// @Tags reconciliation
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {array} domain.BankFeedItem
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/bank-feeds [get]
func (h *reconciliationHandler) listBankFeeds(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	feeds, err := h.reconService.ListBankFeedItems(c.Request.Context(), c.Param("org_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list bank feeds")
		return
	}
	c.JSON(http.StatusOK, feeds)
}

// syncBankFeed godoc
// @Summary Sync a bank feed
// @Description Pulls new transactions from the feed provider and stages them
// @Description for reconciliation.
// @Tags reconciliation
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param feed_id path string true "Bank feed item ID"
// @Success 200 {object} dto.BankFeedSyncResult
// @Failure 400 {object} ErrorResponse "Feed provider not configured"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/bank-feeds/{feed_id}/sync [post]
func (h *reconciliationHandler) syncBankFeed(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	result, err := h.reconService.SyncBankFeedItem(c.Request.Context(), c.Param("org_id"), c.Param("feed_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to sync bank feed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// importBankStatement godoc
// @Summary Import a CSV bank statement
// @Description Stages transactions parsed from an uploaded CSV statement.
// @Description Row-level failures are itemized in the result, not fatal.
// @Tags reconciliation
// @Accept multipart/form-data
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param file formData file true "CSV statement file"
// @Param sourceAccountName formData string true "Bank account name for the staged rows"
// @Success 200 {object} dto.CSVImportResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/bank-statements/import [post]
func (h *reconciliationHandler) importBankStatement(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sourceAccountName := c.PostForm("sourceAccountName")
	if sourceAccountName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "sourceAccountName is required"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A CSV file upload is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.reconService.ImportBankStatementCSV(c.Request.Context(), c.Param("org_id"), sourceAccountName, file, userID)
	if err != nil {
		respondError(c, err, "Failed to import bank statement")
		return
	}
	c.JSON(http.StatusOK, result)
}

// listStagedTransactions godoc
// @Summary List staged bank transactions
// @Tags reconciliation
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param status query string false "Filter by reconciliation status" Enums(UNMATCHED, MATCHED, RULE_APPLIED, CREATED_TRANSACTION)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} domain.StagedBankTransaction
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/staged-transactions [get]
func (h *reconciliationHandler) listStagedTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListStagedTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	staged, err := h.reconService.ListStagedTransactions(c.Request.Context(), c.Param("org_id"), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list staged transactions")
		return
	}
	c.JSON(http.StatusOK, staged)
}

// matchStagedTransaction godoc
// @Summary Match a staged transaction to a ledger transaction
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param staged_id path string true "Staged transaction ID"
// @Param match body dto.MatchStagedTransactionRequest true "Ledger transaction to link"
// @Success 200 {object} domain.StagedBankTransaction
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Staged transaction is not unmatched"
// @Security BearerAuth
// @Router /organizations/{org_id}/staged-transactions/{staged_id}/match [post]
func (h *reconciliationHandler) matchStagedTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.MatchStagedTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	staged, err := h.reconService.MatchStagedTransaction(c.Request.Context(), c.Param("org_id"), c.Param("staged_id"), req.TransactionID, userID)
	if err != nil {
		respondError(c, err, "Failed to match staged transaction")
		return
	}
	c.JSON(http.StatusOK, staged)
}

// createTransactionFromStaged godoc
// @Summary Post a ledger transaction from a staged transaction
// @Description Creates a balanced two-line ledger transaction mirroring the
// @Description staged bank transaction and links the two.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param staged_id path string true "Staged transaction ID"
// @Param accounts body dto.CreateLedgerFromStagedRequest true "GL accounts for the posting"
// @Success 200 {object} domain.StagedBankTransaction
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Staged transaction is not unmatched"
// @Security BearerAuth
// @Router /organizations/{org_id}/staged-transactions/{staged_id}/create-transaction [post]
func (h *reconciliationHandler) createTransactionFromStaged(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateLedgerFromStagedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	staged, err := h.reconService.CreateLedgerTransactionFromStaged(c.Request.Context(), c.Param("org_id"), c.Param("staged_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create ledger transaction")
		return
	}
	c.JSON(http.StatusOK, staged)
}

// listRules godoc
// @Summary List reconciliation rules in evaluation order
// @Tags reconciliation
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {array} domain.ReconciliationRule
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/rules [get]
func (h *reconciliationHandler) listRules(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rules, err := h.reconService.ListRules(c.Request.Context(), c.Param("org_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

// createRule godoc
// @Summary Create a reconciliation rule
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param rule body dto.SaveRuleRequest true "Rule details"
// @Success 201 {object} domain.ReconciliationRule
// @Failure 400 {object} ErrorResponse "Unknown field, operator or action type"
// @Failure 409 {object} ErrorResponse "Duplicate rule name"
// @Security BearerAuth
// @Router /organizations/{org_id}/rules [post]
func (h *reconciliationHandler) createRule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.SaveRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	rule, err := h.reconService.CreateRule(c.Request.Context(), c.Param("org_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create rule")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// updateRule godoc
// @Summary Update a reconciliation rule
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param rule_id path string true "Rule ID"
// @Param rule body dto.SaveRuleRequest true "Replacement rule details"
// @Success 200 {object} domain.ReconciliationRule
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/rules/{rule_id} [put]
func (h *reconciliationHandler) updateRule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.SaveRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	rule, err := h.reconService.UpdateRule(c.Request.Context(), c.Param("org_id"), c.Param("rule_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

// deleteRule godoc
// @Summary Delete a reconciliation rule
// @Tags reconciliation
// @Param org_id path string true "Organization ID"
// @Param rule_id path string true "Rule ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/rules/{rule_id} [delete]
func (h *reconciliationHandler) deleteRule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.reconService.DeleteRule(c.Request.Context(), c.Param("org_id"), c.Param("rule_id"), userID); err != nil {
		respondError(c, err, "Failed to delete rule")
		return
	}
	c.Status(http.StatusNoContent)
}

// runRules godoc
// @Summary Run reconciliation rules
// @Description Evaluates active rules against a batch of unmatched staged
// @Description transactions. The first matching rule wins per transaction.
// @Tags reconciliation
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {object} dto.RuleRunResult
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/rules/run [post]
func (h *reconciliationHandler) runRules(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	result, err := h.reconService.RunRulesForOrganization(c.Request.Context(), c.Param("org_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to run rules")
		return
	}
	c.JSON(http.StatusOK, result)
}

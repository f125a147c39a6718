package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// invoiceHandler handles HTTP requests related to customers and invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// registerInvoiceRoutes registers customer and invoice routes under an
// organization group.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:customer_id", h.getCustomer)
		customers.PUT("/:customer_id", h.updateCustomer)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoice_id", h.getInvoice)
		invoices.PUT("/:invoice_id", h.updateInvoice)
		invoices.PATCH("/:invoice_id/status", h.updateInvoiceStatus)
		invoices.POST("/:invoice_id/send", h.sendInvoice)
		invoices.GET("/:invoice_id/pdf", h.getInvoicePDF)
	}
}

// createCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate customer name"
// @Security BearerAuth
// @Router /organizations/{org_id}/customers [post]
func (h *invoiceHandler) createCustomer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	customer, err := h.invoiceService.CreateCustomer(c.Request.Context(), c.Param("org_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// listCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} domain.Customer
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/customers [get]
func (h *invoiceHandler) listCustomers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	customers, err := h.invoiceService.ListCustomers(c.Request.Context(), c.Param("org_id"), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// getCustomer godoc
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/customers/{customer_id} [get]
func (h *invoiceHandler) getCustomer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	customer, err := h.invoiceService.GetCustomerByID(c.Request.Context(), c.Param("org_id"), c.Param("customer_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// updateCustomer godoc
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param customer_id path string true "Customer ID"
// @Param customer body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/customers/{customer_id} [put]
func (h *invoiceHandler) updateCustomer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	customer, err := h.invoiceService.UpdateCustomer(c.Request.Context(), c.Param("org_id"), c.Param("customer_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Creates an invoice with its items. Totals are recomputed
// @Description server-side. Creating directly as SENT posts to the general ledger.
// @Tags invoices
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate invoice number"
// @Security BearerAuth
// @Router /organizations/{org_id}/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), c.Param("org_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param status query string false "Filter by status" Enums(DRAFT, SENT, PAID, VOID)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} domain.Invoice
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Param("org_id"), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/invoices/{invoice_id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("org_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// updateInvoice godoc
// @Summary Update a draft invoice
// @Description Replaces the invoice fields and item set. Only DRAFT invoices
// @Description may be edited.
// @Tags invoices
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Replacement details"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse "Invoice is not a draft"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/invoices/{invoice_id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("org_id"), c.Param("invoice_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// updateInvoiceStatus godoc
// @Summary Transition an invoice's status
// @Description Moves the invoice through its status machine. DRAFT to SENT
// @Description posts the invoice to the general ledger.
// @Tags invoices
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Param status body dto.UpdateInvoiceStatusRequest true "Target status"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /organizations/{org_id}/invoices/{invoice_id}/status [patch]
func (h *invoiceHandler) updateInvoiceStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), c.Param("org_id"), c.Param("invoice_id"), req.Status, userID)
	if err != nil {
		respondError(c, err, "Failed to update invoice status")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// sendInvoice godoc
// @Summary Email an invoice to the customer
// @Description Renders the invoice PDF and emails it to the customer. A DRAFT
// @Description invoice becomes SENT on successful delivery.
// @Tags invoices
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse "Customer has no email or invoice not sendable"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/invoices/{invoice_id}/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), c.Param("org_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to send invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// getInvoicePDF godoc
// @Summary Download an invoice as PDF
// @Tags invoices
// @Produce application/pdf
// @Param org_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/invoices/{invoice_id}/pdf [get]
func (h *invoiceHandler) getInvoicePDF(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	pdf, err := h.invoiceService.RenderInvoicePDF(c.Request.Context(), c.Param("org_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to render invoice PDF")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=invoice-"+c.Param("invoice_id")+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

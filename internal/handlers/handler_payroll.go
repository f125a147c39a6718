package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// payrollHandler handles HTTP requests related to employees and pay runs.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// listEmployeesParams adds the activeOnly filter on top of paging.
type listEmployeesParams struct {
	ActiveOnly bool `form:"activeOnly"`
	Limit      int  `form:"limit,default=20"`
	Offset     int  `form:"offset,default=0"`
}

// listPayRunsParams carries paging for pay run listings.
type listPayRunsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// registerPayrollRoutes registers payroll routes under an organization group.
func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: payrollService}

	employees := rg.Group("/employees")
	{
		employees.POST("", h.createEmployee)
		employees.GET("", h.listEmployees)
		employees.GET("/:employee_id", h.getEmployee)
		employees.PUT("/:employee_id", h.updateEmployee)
	}

	deductions := rg.Group("/deduction-types")
	{
		deductions.GET("", h.listDeductionTypes)
		deductions.POST("", h.createDeductionType)
	}

	payruns := rg.Group("/payruns")
	{
		payruns.POST("", h.createPayRun)
		payruns.GET("", h.listPayRuns)
		payruns.GET("/:payrun_id", h.getPayRun)
		payruns.POST("/:payrun_id/process", h.processPayRun)
	}
}

// createEmployee godoc
// @Summary Create an employee
// @Tags payroll
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param employee body dto.CreateEmployeeRequest true "Employee details"
// @Success 201 {object} domain.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate employee email"
// @Security BearerAuth
// @Router /organizations/{org_id}/employees [post]
func (h *payrollHandler) createEmployee(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	employee, err := h.payrollService.CreateEmployee(c.Request.Context(), c.Param("org_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create employee")
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// listEmployees godoc
// @Summary List employees
// @Tags payroll
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param activeOnly query bool false "Only active employees"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} domain.Employee
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/employees [get]
func (h *payrollHandler) listEmployees(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params listEmployeesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	employees, err := h.payrollService.ListEmployees(c.Request.Context(), c.Param("org_id"), userID, params.ActiveOnly, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list employees")
		return
	}
	c.JSON(http.StatusOK, employees)
}

// getEmployee godoc
// @Summary Get an employee
// @Tags payroll
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param employee_id path string true "Employee ID"
// @Success 200 {object} domain.Employee
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/employees/{employee_id} [get]
func (h *payrollHandler) getEmployee(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	employee, err := h.payrollService.GetEmployeeByID(c.Request.Context(), c.Param("org_id"), c.Param("employee_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// updateEmployee godoc
// @Summary Update an employee
// @Tags payroll
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param employee_id path string true "Employee ID"
// @Param employee body dto.UpdateEmployeeRequest true "Fields to update"
// @Success 200 {object} domain.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/employees/{employee_id} [put]
func (h *payrollHandler) updateEmployee(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	employee, err := h.payrollService.UpdateEmployee(c.Request.Context(), c.Param("org_id"), c.Param("employee_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// listDeductionTypes godoc
// @Summary List deduction types
// @Tags payroll
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {array} domain.DeductionType
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/deduction-types [get]
func (h *payrollHandler) listDeductionTypes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	types, err := h.payrollService.ListDeductionTypes(c.Request.Context(), c.Param("org_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list deduction types")
		return
	}
	c.JSON(http.StatusOK, types)
}

// createDeductionType godoc
// @Summary Create a deduction type
// @Tags payroll
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param deductionType body dto.CreateDeductionTypeRequest true "Deduction type details"
// @Success 201 {object} domain.DeductionType
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate deduction type name"
// @Security BearerAuth
// @Router /organizations/{org_id}/deduction-types [post]
func (h *payrollHandler) createDeductionType(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateDeductionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	deductionType, err := h.payrollService.CreateDeductionType(c.Request.Context(), c.Param("org_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create deduction type")
		return
	}
	c.JSON(http.StatusCreated, deductionType)
}

// createPayRun godoc
// @Summary Create a draft pay run
// @Tags payroll
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param payrun body dto.CreatePayRunRequest true "Pay run details"
// @Success 201 {object} domain.PayRun
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/payruns [post]
func (h *payrollHandler) createPayRun(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreatePayRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	payRun, err := h.payrollService.CreatePayRun(c.Request.Context(), c.Param("org_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create pay run")
		return
	}
	c.JSON(http.StatusCreated, payRun)
}

// listPayRuns godoc
// @Summary List pay runs
// @Tags payroll
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} domain.PayRun
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/payruns [get]
func (h *payrollHandler) listPayRuns(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params listPayRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	payRuns, err := h.payrollService.ListPayRuns(c.Request.Context(), c.Param("org_id"), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list pay runs")
		return
	}
	c.JSON(http.StatusOK, payRuns)
}

// getPayRun godoc
// @Summary Get a pay run with its payslips
// @Tags payroll
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param payrun_id path string true "Pay run ID"
// @Success 200 {object} domain.PayRun
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/payruns/{payrun_id} [get]
func (h *payrollHandler) getPayRun(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	payRun, err := h.payrollService.GetPayRunByID(c.Request.Context(), c.Param("org_id"), c.Param("payrun_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve pay run")
		return
	}
	c.JSON(http.StatusOK, payRun)
}

// processPayRun godoc
// @Summary Process a pay run
// @Description Generates payslips for the given employees and posts one
// @Description balanced payroll transaction to the general ledger.
// @Tags payroll
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param payrun_id path string true "Pay run ID"
// @Param processing body dto.ProcessPayRunRequest true "Per-employee inputs"
// @Success 200 {object} domain.PayRun
// @Failure 400 {object} ErrorResponse "Missing hours or no valid employees"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Pay run already posted"
// @Security BearerAuth
// @Router /organizations/{org_id}/payruns/{payrun_id}/process [post]
func (h *payrollHandler) processPayRun(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.ProcessPayRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	payRun, err := h.payrollService.ProcessPayRun(c.Request.Context(), c.Param("org_id"), c.Param("payrun_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to process pay run")
		return
	}
	c.JSON(http.StatusOK, payRun)
}

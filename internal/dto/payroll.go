package dto

import (
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest defines the data needed to create an employee.
type CreateEmployeeRequest struct {
	FirstName string          `json:"firstName" binding:"required"`
	LastName  string          `json:"lastName" binding:"required"`
	Email     string          `json:"email" binding:"required,email"`
	PayType   domain.PayType  `json:"payType" binding:"required,oneof=SALARY HOURLY"`
	PayRate   decimal.Decimal `json:"payRate" binding:"required"`
	HireDate  *time.Time      `json:"hireDate"`
}

// UpdateEmployeeRequest defines the data allowed for updating an employee.
type UpdateEmployeeRequest struct {
	FirstName       *string          `json:"firstName"`
	LastName        *string          `json:"lastName"`
	Email           *string          `json:"email" binding:"omitempty,email"`
	PayType         *domain.PayType  `json:"payType" binding:"omitempty,oneof=SALARY HOURLY"`
	PayRate         *decimal.Decimal `json:"payRate"`
	IsActive        *bool            `json:"isActive"`
	TerminationDate *time.Time       `json:"terminationDate"`
}

// CreateDeductionTypeRequest defines the data needed to create a deduction type.
type CreateDeductionTypeRequest struct {
	Name         string              `json:"name" binding:"required"`
	TaxTreatment domain.TaxTreatment `json:"taxTreatment" binding:"required,oneof=PRE_TAX POST_TAX"`
}

// CreatePayRunRequest defines the data needed to create a draft pay run.
type CreatePayRunRequest struct {
	PayPeriodStart time.Time `json:"payPeriodStart" binding:"required"`
	PayPeriodEnd   time.Time `json:"payPeriodEnd" binding:"required"`
	PaymentDate    time.Time `json:"paymentDate" binding:"required"`
	Notes          string    `json:"notes"`
}

// PayslipDeductionInput is one deduction to apply to an employee's payslip.
type PayslipDeductionInput struct {
	DeductionTypeID string          `json:"deductionTypeID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
}

// PayRunEmployeeInput is the per-employee input for processing a pay run.
// HoursWorked is required for hourly employees.
type PayRunEmployeeInput struct {
	EmployeeID  string                  `json:"employeeID" binding:"required"`
	HoursWorked *decimal.Decimal        `json:"hoursWorked"`
	Deductions  []PayslipDeductionInput `json:"deductions" binding:"dive"`
}

// ProcessPayRunRequest defines the inputs for processing a pay run.
type ProcessPayRunRequest struct {
	Employees []PayRunEmployeeInput `json:"employees" binding:"required,min=1,dive"`
}

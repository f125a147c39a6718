package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee represents a row of the employees table.
type Employee struct {
	EmployeeID      string          `db:"employee_id"`
	OrganizationID  string          `db:"organization_id"`
	FirstName       string          `db:"first_name"`
	LastName        string          `db:"last_name"`
	Email           string          `db:"email"`
	PayType         string          `db:"pay_type"`
	PayRate         decimal.Decimal `db:"pay_rate"`
	IsActive        bool            `db:"is_active"`
	HireDate        *time.Time      `db:"hire_date"`
	TerminationDate *time.Time      `db:"termination_date"`
	AuditFields
}

// DeductionType represents a row of the deduction_types table.
type DeductionType struct {
	DeductionTypeID string `db:"deduction_type_id"`
	OrganizationID  string `db:"organization_id"`
	Name            string `db:"name"`
	TaxTreatment    string `db:"tax_treatment"`
	IsActive        bool   `db:"is_active"`
}

// PayRun represents a row of the pay_runs table.
type PayRun struct {
	PayRunID       string     `db:"pay_run_id"`
	OrganizationID string     `db:"organization_id"`
	PayPeriodStart time.Time  `db:"pay_period_start"`
	PayPeriodEnd   time.Time  `db:"pay_period_end"`
	PaymentDate    time.Time  `db:"payment_date"`
	Status         string     `db:"status"`
	Notes          string     `db:"notes"`
	TransactionID  *string    `db:"transaction_id"`
	ProcessedBy    *string    `db:"processed_by"`
	ProcessedAt    *time.Time `db:"processed_at"`
	AuditFields
}

// Payslip represents a row of the payslips table.
type Payslip struct {
	PayslipID       string          `db:"payslip_id"`
	PayRunID        string          `db:"pay_run_id"`
	EmployeeID      string          `db:"employee_id"`
	GrossPay        decimal.Decimal `db:"gross_pay"`
	TotalDeductions decimal.Decimal `db:"total_deductions"`
	NetPay          decimal.Decimal `db:"net_pay"`
	Notes           string          `db:"notes"`
	CreatedAt       time.Time       `db:"created_at"`
}

// PayslipDeduction represents a row of the payslip_deductions table.
type PayslipDeduction struct {
	PayslipDeductionID string          `db:"payslip_deduction_id"`
	PayslipID          string          `db:"payslip_id"`
	DeductionTypeID    string          `db:"deduction_type_id"`
	DeductionTypeName  string          `db:"deduction_type_name"`
	Amount             decimal.Decimal `db:"amount"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayType distinguishes salaried from hourly employees.
type PayType string

const (
	PaySalary PayType = "SALARY"
	PayHourly PayType = "HOURLY"
)

// PayPeriodsPerYear is the fixed bi-weekly pay cycle assumption used to
// derive per-period gross pay from an annual salary. No proration by
// calendar period length.
const PayPeriodsPerYear = 26

// Employee represents a payable employee of an organization.
// PayRate is the annual salary for SALARY employees and the hourly rate for
// HOURLY employees.
type Employee struct {
	EmployeeID      string          `json:"employeeID"`     // Primary Key (UUID)
	OrganizationID  string          `json:"organizationID"` // FK -> organizations (NON-NULL)
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"` // Unique within organization
	PayType         PayType         `json:"payType"`
	PayRate         decimal.Decimal `json:"payRate"`
	IsActive        bool            `json:"isActive"`
	HireDate        *time.Time      `json:"hireDate,omitempty"`
	TerminationDate *time.Time      `json:"terminationDate,omitempty"`
	AuditFields
}

// FullName returns the employee's display name.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// TaxTreatment classifies a deduction type for tax purposes.
type TaxTreatment string

const (
	PreTax  TaxTreatment = "PRE_TAX"
	PostTax TaxTreatment = "POST_TAX"
)

// DeductionType is an organization-defined payroll deduction category.
type DeductionType struct {
	DeductionTypeID string       `json:"deductionTypeID"` // Primary Key (UUID)
	OrganizationID  string       `json:"organizationID"`  // FK -> organizations (NON-NULL)
	Name            string       `json:"name"`            // Unique within organization
	TaxTreatment    TaxTreatment `json:"taxTreatment"`
	IsActive        bool         `json:"isActive"`
}

// PayRunStatus is the lifecycle state of a pay run.
type PayRunStatus string

const (
	PayRunDraft      PayRunStatus = "DRAFT"
	PayRunProcessing PayRunStatus = "PROCESSING"
	PayRunCompleted  PayRunStatus = "COMPLETED"
	PayRunVoided     PayRunStatus = "VOIDED"
)

// PayRun represents one payroll cycle for a group of employees. Once
// processed, TransactionID links the generated GL transaction.
type PayRun struct {
	PayRunID       string       `json:"payRunID"`       // Primary Key (UUID)
	OrganizationID string       `json:"organizationID"` // FK -> organizations (NON-NULL)
	PayPeriodStart time.Time    `json:"payPeriodStart"`
	PayPeriodEnd   time.Time    `json:"payPeriodEnd"`
	PaymentDate    time.Time    `json:"paymentDate"` // Date employees will be paid
	Status         PayRunStatus `json:"status"`
	Notes          string       `json:"notes"`

	TransactionID *string    `json:"transactionID,omitempty"` // Set once after GL posting
	ProcessedBy   *string    `json:"processedBy,omitempty"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	AuditFields
	Payslips []Payslip `json:"payslips,omitempty"`
}

// Payslip is the per-employee result of a pay run; (pay run, employee) is unique.
// NetPay = GrossPay - TotalDeductions.
type Payslip struct {
	PayslipID       string          `json:"payslipID"` // Primary Key (UUID)
	PayRunID        string          `json:"payRunID"`  // FK -> pay_runs (owned, cascade)
	EmployeeID      string          `json:"employeeID"`
	GrossPay        decimal.Decimal `json:"grossPay"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`
	Notes           string          `json:"notes"` // e.g. hours worked if hourly
	CreatedAt       time.Time       `json:"createdAt"`
	Deductions      []PayslipDeduction `json:"deductions,omitempty"`
}

// PayslipDeduction is a single deduction applied to a payslip.
type PayslipDeduction struct {
	PayslipDeductionID string          `json:"payslipDeductionID"` // Primary Key (UUID)
	PayslipID          string          `json:"payslipID"`          // FK -> payslips (owned, cascade)
	DeductionTypeID    string          `json:"deductionTypeID"`    // FK -> deduction_types (reference-protected)
	DeductionTypeName  string          `json:"deductionTypeName"`  // Denormalized for reporting
	Amount             decimal.Decimal `json:"amount"`
}

package services

import (
	"context"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// EmployeeSvc defines operations for employee data
type EmployeeSvc interface {
	// GetEmployeeByID retrieves a specific employee.
	GetEmployeeByID(ctx context.Context, organizationID string, employeeID string, userID string) (*domain.Employee, error)

	// ListEmployees retrieves a paginated list of employees.
	ListEmployees(ctx context.Context, organizationID string, userID string, activeOnly bool, limit int, offset int) ([]domain.Employee, error)

	// CreateEmployee persists a new employee.
	CreateEmployee(ctx context.Context, organizationID string, req dto.CreateEmployeeRequest, userID string) (*domain.Employee, error)

	// UpdateEmployee updates an existing employee.
	UpdateEmployee(ctx context.Context, organizationID string, employeeID string, req dto.UpdateEmployeeRequest, userID string) (*domain.Employee, error)
}

// DeductionTypeSvc defines operations for payroll deduction types
type DeductionTypeSvc interface {
	// ListDeductionTypes retrieves the deduction types of an organization.
	ListDeductionTypes(ctx context.Context, organizationID string, userID string) ([]domain.DeductionType, error)

	// CreateDeductionType persists a new deduction type.
	CreateDeductionType(ctx context.Context, organizationID string, req dto.CreateDeductionTypeRequest, userID string) (*domain.DeductionType, error)
}

// PayRunReaderSvc defines read operations for pay runs
type PayRunReaderSvc interface {
	// GetPayRunByID retrieves a pay run with its payslips.
	GetPayRunByID(ctx context.Context, organizationID string, payRunID string, userID string) (*domain.PayRun, error)

	// ListPayRuns retrieves a paginated list of pay runs.
	ListPayRuns(ctx context.Context, organizationID string, userID string, limit int, offset int) ([]domain.PayRun, error)
}

// PayRunWriterSvc defines write and processing operations for pay runs
type PayRunWriterSvc interface {
	// CreatePayRun persists a new draft pay run.
	CreatePayRun(ctx context.Context, organizationID string, req dto.CreatePayRunRequest, userID string) (*domain.PayRun, error)

	// ProcessPayRun generates payslips for the given employee inputs and posts
	// one balanced payroll transaction to the general ledger.
	ProcessPayRun(ctx context.Context, organizationID string, payRunID string, req dto.ProcessPayRunRequest, userID string) (*domain.PayRun, error)
}

// GrossPayCalculatorSvc defines the per-employee gross pay computation
type GrossPayCalculatorSvc interface {
	// CalculateGrossPay computes gross pay for one pay period. Salaried employees
	// earn rate/26; hourly employees earn rate*hours and require hoursWorked.
	CalculateGrossPay(ctx context.Context, employee domain.Employee, hoursWorked *decimal.Decimal) (decimal.Decimal, error)
}

// PayrollSvcFacade combines all payroll-related service interfaces
type PayrollSvcFacade interface {
	EmployeeSvc
	DeductionTypeSvc
	PayRunReaderSvc
	PayRunWriterSvc
	GrossPayCalculatorSvc
}

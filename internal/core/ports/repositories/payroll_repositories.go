package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// EmployeeReader defines read operations for employee data
type EmployeeReader interface {
	// FindEmployeeByID retrieves a specific employee by their unique identifier.
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// ListEmployees retrieves a paginated list of employees for an organization.
	ListEmployees(ctx context.Context, organizationID string, activeOnly bool, limit int, offset int) ([]domain.Employee, error)
}

// EmployeeWriter defines write operations for employee data
type EmployeeWriter interface {
	// SaveEmployee persists a new employee.
	SaveEmployee(ctx context.Context, employee domain.Employee) error

	// UpdateEmployee updates an existing employee's details.
	UpdateEmployee(ctx context.Context, employee domain.Employee) error
}

// DeductionTypeRepository defines operations for payroll deduction types
type DeductionTypeRepository interface {
	// FindDeductionTypeByID retrieves a deduction type by its unique identifier.
	FindDeductionTypeByID(ctx context.Context, deductionTypeID string) (*domain.DeductionType, error)

	// FindDeductionTypesByIDs retrieves multiple deduction types by their IDs.
	FindDeductionTypesByIDs(ctx context.Context, deductionTypeIDs []string) (map[string]domain.DeductionType, error)

	// ListDeductionTypes retrieves the deduction types of an organization.
	ListDeductionTypes(ctx context.Context, organizationID string) ([]domain.DeductionType, error)

	// SaveDeductionType persists a new deduction type.
	SaveDeductionType(ctx context.Context, dt domain.DeductionType) error

	// UpdateDeductionType updates an existing deduction type.
	UpdateDeductionType(ctx context.Context, dt domain.DeductionType) error
}

// PayRunReader defines read operations for pay run data
type PayRunReader interface {
	// FindPayRunByID retrieves a pay run, optionally with its payslips.
	FindPayRunByID(ctx context.Context, payRunID string, withPayslips bool) (*domain.PayRun, error)

	// ListPayRuns retrieves a paginated list of pay runs for an organization.
	ListPayRuns(ctx context.Context, organizationID string, limit int, offset int) ([]domain.PayRun, error)

	// ListPayslipsByPayRun retrieves the payslips of a pay run with their deductions.
	ListPayslipsByPayRun(ctx context.Context, payRunID string) ([]domain.Payslip, error)
}

// PayRunWriter defines write operations for pay run data
type PayRunWriter interface {
	// SavePayRun persists a new pay run.
	SavePayRun(ctx context.Context, payRun domain.PayRun) error

	// UpdatePayRun updates an existing pay run's details.
	UpdatePayRun(ctx context.Context, payRun domain.PayRun) error

	// UpdatePayRunInTx updates a pay run within a caller-owned database transaction.
	UpdatePayRunInTx(ctx context.Context, tx pgx.Tx, payRun domain.PayRun) error

	// SavePayslipInTx persists a payslip and its deductions within a caller-owned
	// database transaction.
	SavePayslipInTx(ctx context.Context, tx pgx.Tx, payslip domain.Payslip) error
}

// PayrollRepositoryFacade combines all payroll-related repository interfaces
type PayrollRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
	DeductionTypeRepository
	PayRunReader
	PayRunWriter
}

// PayrollRepositoryWithTx extends PayrollRepositoryFacade with transaction capabilities
type PayrollRepositoryWithTx interface {
	PayrollRepositoryFacade
	TransactionManager
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	"github.com/ledgerpro/ledgerpro_backend/internal/models"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/mapping"
)

type PgxPayrollRepository struct {
	BaseRepository
}

// newPgxPayrollRepository creates a new repository for payroll data.
func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryWithTx {
	return &PgxPayrollRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PayrollRepositoryWithTx = (*PgxPayrollRepository)(nil)

const employeeColumns = `employee_id, organization_id, first_name, last_name, email, pay_type, pay_rate, is_active, hire_date, termination_date, created_at, created_by, last_updated_at, last_updated_by`
const deductionTypeColumns = `deduction_type_id, organization_id, name, tax_treatment, is_active`
const payRunColumns = `pay_run_id, organization_id, pay_period_start, pay_period_end, payment_date, status, notes, transaction_id, processed_by, processed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var m models.Employee
	err := row.Scan(
		&m.EmployeeID,
		&m.OrganizationID,
		&m.FirstName,
		&m.LastName,
		&m.Email,
		&m.PayType,
		&m.PayRate,
		&m.IsActive,
		&m.HireDate,
		&m.TerminationDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanDeductionType(row pgx.Row) (*models.DeductionType, error) {
	var m models.DeductionType
	err := row.Scan(
		&m.DeductionTypeID,
		&m.OrganizationID,
		&m.Name,
		&m.TaxTreatment,
		&m.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanPayRun(row pgx.Row) (*models.PayRun, error) {
	var m models.PayRun
	err := row.Scan(
		&m.PayRunID,
		&m.OrganizationID,
		&m.PayPeriodStart,
		&m.PayPeriodEnd,
		&m.PaymentDate,
		&m.Status,
		&m.Notes,
		&m.TransactionID,
		&m.ProcessedBy,
		&m.ProcessedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveEmployee persists a new employee.
func (r *PgxPayrollRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	modelEmployee := mapping.ToModelEmployee(employee)
	query := `
		INSERT INTO employees (employee_id, organization_id, first_name, last_name, email, pay_type, pay_rate, is_active, hire_date, termination_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelEmployee.EmployeeID,
		modelEmployee.OrganizationID,
		modelEmployee.FirstName,
		modelEmployee.LastName,
		modelEmployee.Email,
		modelEmployee.PayType,
		modelEmployee.PayRate,
		modelEmployee.IsActive,
		modelEmployee.HireDate,
		modelEmployee.TerminationDate,
		modelEmployee.CreatedAt,
		modelEmployee.CreatedBy,
		modelEmployee.LastUpdatedAt,
		modelEmployee.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: employee with email %s already exists in organization", apperrors.ErrDuplicate, employee.Email)
		}
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// FindEmployeeByID retrieves an employee by their ID.
func (r *PgxPayrollRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE employee_id = $1;`, employeeColumns)
	modelEmployee, err := scanEmployee(r.Pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find employee %s: %w", employeeID, err)
	}
	domainEmployee := mapping.ToDomainEmployee(*modelEmployee)
	return &domainEmployee, nil
}

// ListEmployees retrieves a paginated list of employees for an organization.
func (r *PgxPayrollRepository) ListEmployees(ctx context.Context, organizationID string, activeOnly bool, limit int, offset int) ([]domain.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE organization_id = $1 AND ($2 = FALSE OR is_active = TRUE)
		ORDER BY last_name ASC, first_name ASC
		LIMIT $3 OFFSET $4;
	`, employeeColumns)
	rows, err := r.Pool.Query(ctx, query, organizationID, activeOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	modelEmployees := make([]models.Employee, 0, limit)
	for rows.Next() {
		m, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		modelEmployees = append(modelEmployees, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", err)
	}
	return mapping.ToDomainEmployeeSlice(modelEmployees), nil
}

// UpdateEmployee updates an existing employee's details.
func (r *PgxPayrollRepository) UpdateEmployee(ctx context.Context, employee domain.Employee) error {
	modelEmployee := mapping.ToModelEmployee(employee)
	query := `
		UPDATE employees
		SET first_name = $2,
			last_name = $3,
			email = $4,
			pay_type = $5,
			pay_rate = $6,
			is_active = $7,
			hire_date = $8,
			termination_date = $9,
			last_updated_at = $10,
			last_updated_by = $11
		WHERE employee_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelEmployee.EmployeeID,
		modelEmployee.FirstName,
		modelEmployee.LastName,
		modelEmployee.Email,
		modelEmployee.PayType,
		modelEmployee.PayRate,
		modelEmployee.IsActive,
		modelEmployee.HireDate,
		modelEmployee.TerminationDate,
		modelEmployee.LastUpdatedAt,
		modelEmployee.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee %s: %w", employee.EmployeeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveDeductionType persists a new deduction type.
func (r *PgxPayrollRepository) SaveDeductionType(ctx context.Context, dt domain.DeductionType) error {
	modelDT := mapping.ToModelDeductionType(dt)
	query := `
		INSERT INTO deduction_types (deduction_type_id, organization_id, name, tax_treatment, is_active)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelDT.DeductionTypeID,
		modelDT.OrganizationID,
		modelDT.Name,
		modelDT.TaxTreatment,
		modelDT.IsActive,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: deduction type %q already exists in organization", apperrors.ErrDuplicate, dt.Name)
		}
		return fmt.Errorf("failed to insert deduction type: %w", err)
	}
	return nil
}

// FindDeductionTypeByID retrieves a deduction type by its ID.
func (r *PgxPayrollRepository) FindDeductionTypeByID(ctx context.Context, deductionTypeID string) (*domain.DeductionType, error) {
	query := fmt.Sprintf(`SELECT %s FROM deduction_types WHERE deduction_type_id = $1;`, deductionTypeColumns)
	modelDT, err := scanDeductionType(r.Pool.QueryRow(ctx, query, deductionTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find deduction type %s: %w", deductionTypeID, err)
	}
	domainDT := mapping.ToDomainDeductionType(*modelDT)
	return &domainDT, nil
}

// FindDeductionTypesByIDs retrieves multiple deduction types keyed by their ID.
func (r *PgxPayrollRepository) FindDeductionTypesByIDs(ctx context.Context, deductionTypeIDs []string) (map[string]domain.DeductionType, error) {
	if len(deductionTypeIDs) == 0 {
		return map[string]domain.DeductionType{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM deduction_types WHERE deduction_type_id = ANY($1);`, deductionTypeColumns)
	rows, err := r.Pool.Query(ctx, query, deductionTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query deduction types by ids: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.DeductionType, len(deductionTypeIDs))
	for rows.Next() {
		m, err := scanDeductionType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction type row: %w", err)
		}
		result[m.DeductionTypeID] = mapping.ToDomainDeductionType(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deduction type rows: %w", err)
	}
	return result, nil
}

// ListDeductionTypes retrieves the deduction types of an organization.
func (r *PgxPayrollRepository) ListDeductionTypes(ctx context.Context, organizationID string) ([]domain.DeductionType, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM deduction_types
		WHERE organization_id = $1
		ORDER BY name ASC;
	`, deductionTypeColumns)
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deduction types for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	var modelDTs []models.DeductionType
	for rows.Next() {
		m, err := scanDeductionType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction type row: %w", err)
		}
		modelDTs = append(modelDTs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deduction type rows: %w", err)
	}
	return mapping.ToDomainDeductionTypeSlice(modelDTs), nil
}

// UpdateDeductionType updates an existing deduction type.
func (r *PgxPayrollRepository) UpdateDeductionType(ctx context.Context, dt domain.DeductionType) error {
	modelDT := mapping.ToModelDeductionType(dt)
	query := `
		UPDATE deduction_types
		SET name = $2,
			tax_treatment = $3,
			is_active = $4
		WHERE deduction_type_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelDT.DeductionTypeID,
		modelDT.Name,
		modelDT.TaxTreatment,
		modelDT.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update deduction type %s: %w", dt.DeductionTypeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SavePayRun persists a new pay run.
func (r *PgxPayrollRepository) SavePayRun(ctx context.Context, payRun domain.PayRun) error {
	modelPayRun := mapping.ToModelPayRun(payRun)
	query := `
		INSERT INTO pay_runs (pay_run_id, organization_id, pay_period_start, pay_period_end, payment_date, status, notes, transaction_id, processed_by, processed_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelPayRun.PayRunID,
		modelPayRun.OrganizationID,
		modelPayRun.PayPeriodStart,
		modelPayRun.PayPeriodEnd,
		modelPayRun.PaymentDate,
		modelPayRun.Status,
		modelPayRun.Notes,
		modelPayRun.TransactionID,
		modelPayRun.ProcessedBy,
		modelPayRun.ProcessedAt,
		modelPayRun.CreatedAt,
		modelPayRun.CreatedBy,
		modelPayRun.LastUpdatedAt,
		modelPayRun.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pay run %s: %w", payRun.PayRunID, err)
	}
	return nil
}

// FindPayRunByID retrieves a pay run, optionally with its payslips.
func (r *PgxPayrollRepository) FindPayRunByID(ctx context.Context, payRunID string, withPayslips bool) (*domain.PayRun, error) {
	query := fmt.Sprintf(`SELECT %s FROM pay_runs WHERE pay_run_id = $1;`, payRunColumns)
	modelPayRun, err := scanPayRun(r.Pool.QueryRow(ctx, query, payRunID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pay run %s: %w", payRunID, err)
	}
	domainPayRun := mapping.ToDomainPayRun(*modelPayRun)
	if withPayslips {
		payslips, err := r.ListPayslipsByPayRun(ctx, payRunID)
		if err != nil {
			return nil, err
		}
		domainPayRun.Payslips = payslips
	}
	return &domainPayRun, nil
}

// ListPayRuns retrieves a paginated list of pay runs for an organization,
// most recent payment date first.
func (r *PgxPayrollRepository) ListPayRuns(ctx context.Context, organizationID string, limit int, offset int) ([]domain.PayRun, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pay_runs
		WHERE organization_id = $1
		ORDER BY payment_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`, payRunColumns)
	rows, err := r.Pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query pay runs for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	modelPayRuns := make([]models.PayRun, 0, limit)
	for rows.Next() {
		m, err := scanPayRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay run row: %w", err)
		}
		modelPayRuns = append(modelPayRuns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pay run rows: %w", err)
	}
	return mapping.ToDomainPayRunSlice(modelPayRuns), nil
}

// ListPayslipsByPayRun retrieves the payslips of a pay run with their deductions.
func (r *PgxPayrollRepository) ListPayslipsByPayRun(ctx context.Context, payRunID string) ([]domain.Payslip, error) {
	query := `
		SELECT payslip_id, pay_run_id, employee_id, gross_pay, total_deductions, net_pay, notes, created_at
		FROM payslips
		WHERE pay_run_id = $1
		ORDER BY created_at ASC, payslip_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, payRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslips for pay run %s: %w", payRunID, err)
	}
	defer rows.Close()

	var modelPayslips []models.Payslip
	for rows.Next() {
		var m models.Payslip
		err := rows.Scan(
			&m.PayslipID,
			&m.PayRunID,
			&m.EmployeeID,
			&m.GrossPay,
			&m.TotalDeductions,
			&m.NetPay,
			&m.Notes,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip row: %w", err)
		}
		modelPayslips = append(modelPayslips, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payslip rows: %w", err)
	}
	if len(modelPayslips) == 0 {
		return []domain.Payslip{}, nil
	}

	payslipIDs := make([]string, len(modelPayslips))
	for i, m := range modelPayslips {
		payslipIDs[i] = m.PayslipID
	}
	deductionQuery := `
		SELECT payslip_deduction_id, payslip_id, deduction_type_id, deduction_type_name, amount
		FROM payslip_deductions
		WHERE payslip_id = ANY($1)
		ORDER BY deduction_type_name ASC;
	`
	deductionRows, err := r.Pool.Query(ctx, deductionQuery, payslipIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslip deductions for pay run %s: %w", payRunID, err)
	}
	defer deductionRows.Close()

	deductionsByPayslip := make(map[string][]domain.PayslipDeduction)
	for deductionRows.Next() {
		var m models.PayslipDeduction
		err := deductionRows.Scan(
			&m.PayslipDeductionID,
			&m.PayslipID,
			&m.DeductionTypeID,
			&m.DeductionTypeName,
			&m.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip deduction row: %w", err)
		}
		deductionsByPayslip[m.PayslipID] = append(deductionsByPayslip[m.PayslipID], mapping.ToDomainPayslipDeduction(m))
	}
	if err := deductionRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payslip deduction rows: %w", err)
	}

	payslips := make([]domain.Payslip, len(modelPayslips))
	for i, m := range modelPayslips {
		payslips[i] = mapping.ToDomainPayslip(m)
		payslips[i].Deductions = deductionsByPayslip[m.PayslipID]
	}
	return payslips, nil
}

// UpdatePayRun updates an existing pay run's details.
func (r *PgxPayrollRepository) UpdatePayRun(ctx context.Context, payRun domain.PayRun) error {
	return r.updatePayRun(ctx, r.Pool, payRun)
}

// UpdatePayRunInTx updates a pay run within a caller-owned database transaction.
func (r *PgxPayrollRepository) UpdatePayRunInTx(ctx context.Context, tx pgx.Tx, payRun domain.PayRun) error {
	return r.updatePayRun(ctx, tx, payRun)
}

type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *PgxPayrollRepository) updatePayRun(ctx context.Context, exec pgxExecutor, payRun domain.PayRun) error {
	modelPayRun := mapping.ToModelPayRun(payRun)
	query := `
		UPDATE pay_runs
		SET pay_period_start = $2,
			pay_period_end = $3,
			payment_date = $4,
			status = $5,
			notes = $6,
			transaction_id = $7,
			processed_by = $8,
			processed_at = $9,
			last_updated_at = $10,
			last_updated_by = $11
		WHERE pay_run_id = $1;
	`
	cmdTag, err := exec.Exec(ctx, query,
		modelPayRun.PayRunID,
		modelPayRun.PayPeriodStart,
		modelPayRun.PayPeriodEnd,
		modelPayRun.PaymentDate,
		modelPayRun.Status,
		modelPayRun.Notes,
		modelPayRun.TransactionID,
		modelPayRun.ProcessedBy,
		modelPayRun.ProcessedAt,
		modelPayRun.LastUpdatedAt,
		modelPayRun.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update pay run %s: %w", payRun.PayRunID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SavePayslipInTx persists a payslip and its deductions within a caller-owned
// database transaction. Reprocessing a pay run replaces the employee's
// previous payslip for that run.
func (r *PgxPayrollRepository) SavePayslipInTx(ctx context.Context, tx pgx.Tx, payslip domain.Payslip) error {
	deleteQuery := `
		DELETE FROM payslip_deductions
		WHERE payslip_id IN (SELECT payslip_id FROM payslips WHERE pay_run_id = $1 AND employee_id = $2);
	`
	if _, err := tx.Exec(ctx, deleteQuery, payslip.PayRunID, payslip.EmployeeID); err != nil {
		return fmt.Errorf("failed to clear previous payslip deductions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM payslips WHERE pay_run_id = $1 AND employee_id = $2;`, payslip.PayRunID, payslip.EmployeeID); err != nil {
		return fmt.Errorf("failed to clear previous payslip: %w", err)
	}

	modelPayslip := mapping.ToModelPayslip(payslip)
	query := `
		INSERT INTO payslips (payslip_id, pay_run_id, employee_id, gross_pay, total_deductions, net_pay, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		modelPayslip.PayslipID,
		modelPayslip.PayRunID,
		modelPayslip.EmployeeID,
		modelPayslip.GrossPay,
		modelPayslip.TotalDeductions,
		modelPayslip.NetPay,
		modelPayslip.Notes,
		modelPayslip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payslip %s: %w", payslip.PayslipID, err)
	}

	deductionQuery := `
		INSERT INTO payslip_deductions (payslip_deduction_id, payslip_id, deduction_type_id, deduction_type_name, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, deduction := range payslip.Deductions {
		modelDeduction := mapping.ToModelPayslipDeduction(deduction)
		batch.Queue(deductionQuery,
			modelDeduction.PayslipDeductionID,
			modelDeduction.PayslipID,
			modelDeduction.DeductionTypeID,
			modelDeduction.DeductionTypeName,
			modelDeduction.Amount,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range payslip.Deductions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert payslip deduction: %w", err)
		}
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/accounting"
)

var (
	ErrMissingHours        = errors.New("hours worked are required for hourly employees")
	ErrNoValidEmployees    = errors.New("no valid employees produced payslips")
	ErrInvalidPayRunStatus = errors.New("pay run cannot be processed from its current status")
	ErrPayRunAlreadyPosted = errors.New("pay run already has a linked ledger transaction")
)

// payrollService manages employees, deduction types and pay runs, including
// the posting of processed pay runs into the general ledger.
type payrollService struct {
	BaseService
	payrollRepo portsrepo.PayrollRepositoryWithTx
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
	resolver    portssvc.AccountResolverSvc
}

// PayrollServiceOption configures the payroll service.
type PayrollServiceOption func(*payrollService)

// WithPayrollAuthorizer sets the organization authorizer.
func WithPayrollAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) PayrollServiceOption {
	return func(s *payrollService) {
		s.OrgAuthorizer = authorizer
	}
}

// NewPayrollService creates a new payroll service.
func NewPayrollService(
	payrollRepo portsrepo.PayrollRepositoryWithTx,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
	resolver portssvc.AccountResolverSvc,
	opts ...PayrollServiceOption,
) portssvc.PayrollSvcFacade {
	svc := &payrollService{
		payrollRepo: payrollRepo,
		ledgerRepo:  ledgerRepo,
		resolver:    resolver,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

// GetEmployeeByID retrieves a specific employee.
func (s *payrollService) GetEmployeeByID(ctx context.Context, organizationID string, employeeID string, userID string) (*domain.Employee, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	employee, err := s.payrollRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return employee, nil
}

// ListEmployees retrieves a paginated list of employees.
func (s *payrollService) ListEmployees(ctx context.Context, organizationID string, userID string, activeOnly bool, limit int, offset int) ([]domain.Employee, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	employees, err := s.payrollRepo.ListEmployees(ctx, organizationID, activeOnly, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list employees", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// CreateEmployee persists a new employee.
func (s *payrollService) CreateEmployee(ctx context.Context, organizationID string, req dto.CreateEmployeeRequest, userID string) (*domain.Employee, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	employee := domain.Employee{
		EmployeeID:     uuid.NewString(),
		OrganizationID: organizationID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PayType:        req.PayType,
		PayRate:        req.PayRate,
		IsActive:       true,
		HireDate:       req.HireDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.payrollRepo.SaveEmployee(ctx, employee); err != nil {
		s.LogError(ctx, err, "Failed to save employee", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return &employee, nil
}

// UpdateEmployee updates an existing employee.
func (s *payrollService) UpdateEmployee(ctx context.Context, organizationID string, employeeID string, req dto.UpdateEmployeeRequest, userID string) (*domain.Employee, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	employee, err := s.payrollRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.PayType != nil {
		employee.PayType = *req.PayType
	}
	if req.PayRate != nil {
		employee.PayRate = *req.PayRate
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}
	if req.TerminationDate != nil {
		employee.TerminationDate = req.TerminationDate
	}
	employee.LastUpdatedAt = time.Now().UTC()
	employee.LastUpdatedBy = userID

	if err := s.payrollRepo.UpdateEmployee(ctx, *employee); err != nil {
		s.LogError(ctx, err, "Failed to update employee", slog.String("employee_id", employeeID))
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee, nil
}

// ListDeductionTypes retrieves the deduction types of an organization.
func (s *payrollService) ListDeductionTypes(ctx context.Context, organizationID string, userID string) ([]domain.DeductionType, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	types, err := s.payrollRepo.ListDeductionTypes(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list deduction types", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list deduction types: %w", err)
	}
	return types, nil
}

// CreateDeductionType persists a new deduction type.
func (s *payrollService) CreateDeductionType(ctx context.Context, organizationID string, req dto.CreateDeductionTypeRequest, userID string) (*domain.DeductionType, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	dt := domain.DeductionType{
		DeductionTypeID: uuid.NewString(),
		OrganizationID:  organizationID,
		Name:            req.Name,
		TaxTreatment:    req.TaxTreatment,
		IsActive:        true,
	}
	if err := s.payrollRepo.SaveDeductionType(ctx, dt); err != nil {
		s.LogError(ctx, err, "Failed to save deduction type", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save deduction type: %w", err)
	}
	return &dt, nil
}

// GetPayRunByID retrieves a pay run with its payslips.
func (s *payrollService) GetPayRunByID(ctx context.Context, organizationID string, payRunID string, userID string) (*domain.PayRun, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	payRun, err := s.payrollRepo.FindPayRunByID(ctx, payRunID, true)
	if err != nil {
		return nil, err
	}
	if payRun.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return payRun, nil
}

// ListPayRuns retrieves a paginated list of pay runs.
func (s *payrollService) ListPayRuns(ctx context.Context, organizationID string, userID string, limit int, offset int) ([]domain.PayRun, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	payRuns, err := s.payrollRepo.ListPayRuns(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pay runs", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list pay runs: %w", err)
	}
	return payRuns, nil
}

// CreatePayRun persists a new draft pay run.
func (s *payrollService) CreatePayRun(ctx context.Context, organizationID string, req dto.CreatePayRunRequest, userID string) (*domain.PayRun, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if req.PayPeriodEnd.Before(req.PayPeriodStart) {
		return nil, fmt.Errorf("pay period end precedes start: %w", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	payRun := domain.PayRun{
		PayRunID:       uuid.NewString(),
		OrganizationID: organizationID,
		PayPeriodStart: req.PayPeriodStart,
		PayPeriodEnd:   req.PayPeriodEnd,
		PaymentDate:    req.PaymentDate,
		Status:         domain.PayRunDraft,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.payrollRepo.SavePayRun(ctx, payRun); err != nil {
		s.LogError(ctx, err, "Failed to save pay run", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save pay run: %w", err)
	}
	return &payRun, nil
}

// CalculateGrossPay computes gross pay for one pay period.
// SALARY employees earn annual rate / 26 pay periods. HOURLY employees earn
// rate * hours and fail with ErrMissingHours when hours are not provided.
func (s *payrollService) CalculateGrossPay(ctx context.Context, employee domain.Employee, hoursWorked *decimal.Decimal) (decimal.Decimal, error) {
	switch employee.PayType {
	case domain.PaySalary:
		periods := decimal.NewFromInt(domain.PayPeriodsPerYear)
		return accounting.Round2(employee.PayRate.Div(periods)), nil
	case domain.PayHourly:
		if hoursWorked == nil {
			return decimal.Zero, fmt.Errorf("employee %s: %w", employee.EmployeeID, ErrMissingHours)
		}
		if hoursWorked.IsNegative() {
			return decimal.Zero, fmt.Errorf("employee %s: negative hours: %w", employee.EmployeeID, apperrors.ErrValidation)
		}
		return accounting.Round2(employee.PayRate.Mul(*hoursWorked)), nil
	default:
		return decimal.Zero, fmt.Errorf("employee %s: unknown pay type %q", employee.EmployeeID, employee.PayType)
	}
}

// ProcessPayRun generates payslips for the given employee inputs and posts one
// balanced payroll transaction to the general ledger. Invalid rows are skipped
// with a warning; a run producing zero payslips is reverted.
func (s *payrollService) ProcessPayRun(ctx context.Context, organizationID string, payRunID string, req dto.ProcessPayRunRequest, userID string) (*domain.PayRun, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	payRun, err := s.payrollRepo.FindPayRunByID(ctx, payRunID, false)
	if err != nil {
		return nil, err
	}
	if payRun.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if payRun.TransactionID != nil {
		return nil, ErrPayRunAlreadyPosted
	}
	if payRun.Status != domain.PayRunDraft && payRun.Status != domain.PayRunProcessing {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayRunStatus, payRun.Status)
	}

	originalStatus := payRun.Status
	payRun.Status = domain.PayRunProcessing
	payRun.LastUpdatedAt = time.Now().UTC()
	payRun.LastUpdatedBy = userID
	if err := s.payrollRepo.UpdatePayRun(ctx, *payRun); err != nil {
		s.LogError(ctx, err, "Failed to mark pay run processing", slog.String("pay_run_id", payRunID))
		return nil, fmt.Errorf("failed to start pay run processing: %w", err)
	}

	tx, err := s.payrollRepo.Begin(ctx)
	if err != nil {
		s.revertPayRun(ctx, payRun, originalStatus, "processing failed to start", userID)
		return nil, fmt.Errorf("failed to begin pay run transaction: %w", err)
	}

	// Deduplicate by employee, last input wins. SavePayslipInTx replaces an
	// existing payslip for the same employee, so summing duplicates would
	// post GL totals the persisted payslips no longer add up to.
	inputs := make([]dto.PayRunEmployeeInput, 0, len(req.Employees))
	inputIndexByEmployee := make(map[string]int, len(req.Employees))
	for _, input := range req.Employees {
		if i, ok := inputIndexByEmployee[input.EmployeeID]; ok {
			s.LogWarn(ctx, "Duplicate pay run input for employee, keeping the last",
				slog.String("pay_run_id", payRunID),
				slog.String("employee_id", input.EmployeeID))
			inputs[i] = input
			continue
		}
		inputIndexByEmployee[input.EmployeeID] = len(inputs)
		inputs = append(inputs, input)
	}

	totalGross := decimal.Zero
	totalNet := decimal.Zero
	totalDeductions := decimal.Zero
	payslips := make([]domain.Payslip, 0, len(inputs))
	deductionTotalsByName := make(map[string]decimal.Decimal)

	for _, input := range inputs {
		employee, err := s.payrollRepo.FindEmployeeByID(ctx, input.EmployeeID)
		if err != nil || employee.OrganizationID != organizationID || !employee.IsActive {
			s.LogWarn(ctx, "Skipping pay run input: employee unavailable",
				slog.String("pay_run_id", payRunID),
				slog.String("employee_id", input.EmployeeID))
			continue
		}

		grossPay, err := s.CalculateGrossPay(ctx, *employee, input.HoursWorked)
		if err != nil {
			s.LogWarn(ctx, "Skipping pay run input: gross pay calculation failed",
				slog.String("pay_run_id", payRunID),
				slog.String("employee_id", input.EmployeeID),
				slog.String("reason", err.Error()))
			continue
		}

		payslip := domain.Payslip{
			PayslipID:  uuid.NewString(),
			PayRunID:   payRunID,
			EmployeeID: employee.EmployeeID,
			GrossPay:   grossPay,
			CreatedAt:  time.Now().UTC(),
		}
		if employee.PayType == domain.PayHourly && input.HoursWorked != nil {
			payslip.Notes = fmt.Sprintf("Hours worked: %s", input.HoursWorked.String())
		}

		slipDeductions := decimal.Zero
		for _, d := range input.Deductions {
			dt, err := s.payrollRepo.FindDeductionTypeByID(ctx, d.DeductionTypeID)
			if err != nil || dt.OrganizationID != organizationID || !dt.IsActive {
				s.LogWarn(ctx, "Skipping deduction: deduction type unavailable",
					slog.String("pay_run_id", payRunID),
					slog.String("employee_id", employee.EmployeeID),
					slog.String("deduction_type_id", d.DeductionTypeID))
				continue
			}
			if d.Amount.IsNegative() {
				s.LogWarn(ctx, "Skipping deduction: negative amount",
					slog.String("pay_run_id", payRunID),
					slog.String("employee_id", employee.EmployeeID),
					slog.String("deduction_type_id", d.DeductionTypeID),
					slog.String("amount", d.Amount.String()))
				continue
			}
			amount := accounting.Round2(d.Amount)
			payslip.Deductions = append(payslip.Deductions, domain.PayslipDeduction{
				PayslipDeductionID: uuid.NewString(),
				PayslipID:          payslip.PayslipID,
				DeductionTypeID:    dt.DeductionTypeID,
				DeductionTypeName:  dt.Name,
				Amount:             amount,
			})
			slipDeductions = slipDeductions.Add(amount)
			deductionTotalsByName[dt.Name] = deductionTotalsByName[dt.Name].Add(amount)
		}

		payslip.TotalDeductions = slipDeductions
		payslip.NetPay = payslip.GrossPay.Sub(slipDeductions)

		if err := s.payrollRepo.SavePayslipInTx(ctx, tx, payslip); err != nil {
			_ = s.payrollRepo.Rollback(ctx, tx)
			s.revertPayRun(ctx, payRun, originalStatus, "payslip persistence failed", userID)
			s.LogError(ctx, err, "Failed to save payslip",
				slog.String("pay_run_id", payRunID),
				slog.String("employee_id", employee.EmployeeID))
			return nil, fmt.Errorf("failed to save payslip: %w", err)
		}

		payslips = append(payslips, payslip)
		totalGross = totalGross.Add(payslip.GrossPay)
		totalNet = totalNet.Add(payslip.NetPay)
		totalDeductions = totalDeductions.Add(payslip.TotalDeductions)
	}

	if len(payslips) == 0 {
		_ = s.payrollRepo.Rollback(ctx, tx)
		s.revertPayRun(ctx, payRun, originalStatus, "no valid employees produced payslips", userID)
		return nil, ErrNoValidEmployees
	}

	payrollExpense, err := s.resolver.ResolveOrCreateDefault(ctx, organizationID, domain.Expense,
		"Payroll Expense", "Payroll Expenses (Default)", "payroll expense", userID)
	if err != nil {
		_ = s.payrollRepo.Rollback(ctx, tx)
		s.revertPayRun(ctx, payRun, originalStatus, "failed to resolve payroll expense account", userID)
		return nil, fmt.Errorf("failed to resolve payroll expense account: %w", err)
	}
	wagesPayable, err := s.resolver.ResolveOrCreateDefault(ctx, organizationID, domain.Liability,
		"Wages Payable", "Wages Payable (Default)", "wages payable", userID)
	if err != nil {
		_ = s.payrollRepo.Rollback(ctx, tx)
		s.revertPayRun(ctx, payRun, originalStatus, "failed to resolve wages payable account", userID)
		return nil, fmt.Errorf("failed to resolve wages payable account: %w", err)
	}
	deductionsPayable, err := s.resolver.ResolveOrCreateDefault(ctx, organizationID, domain.Liability,
		"Deductions Payable", "Deductions Payable (Default)", "deductions payable", userID)
	if err != nil {
		_ = s.payrollRepo.Rollback(ctx, tx)
		s.revertPayRun(ctx, payRun, originalStatus, "failed to resolve deductions payable account", userID)
		return nil, fmt.Errorf("failed to resolve deductions payable account: %w", err)
	}

	transactionID := uuid.NewString()
	entries := []domain.JournalEntry{
		{
			JournalEntryID: uuid.NewString(),
			TransactionID:  transactionID,
			AccountID:      payrollExpense.AccountID,
			DebitAmount:    totalGross,
		},
		{
			JournalEntryID: uuid.NewString(),
			TransactionID:  transactionID,
			AccountID:      wagesPayable.AccountID,
			CreditAmount:   totalNet,
		},
	}
	if totalDeductions.IsPositive() {
		entries = append(entries, domain.JournalEntry{
			JournalEntryID: uuid.NewString(),
			TransactionID:  transactionID,
			AccountID:      deductionsPayable.AccountID,
			CreditAmount:   totalDeductions,
		})
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:  transactionID,
		OrganizationID: organizationID,
		Date:           payRun.PaymentDate,
		Description: fmt.Sprintf("Payroll for period %s to %s",
			payRun.PayPeriodStart.Format("2006-01-02"), payRun.PayPeriodEnd.Format("2006-01-02")),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Entries: entries,
	}

	if !txn.IsBalanced() {
		_ = s.payrollRepo.Rollback(ctx, tx)
		s.revertPayRun(ctx, payRun, originalStatus, "payroll transaction did not balance", userID)
		return nil, fmt.Errorf("%w: debits %s, credits %s",
			ErrUnbalancedTransaction, txn.TotalDebits().String(), txn.TotalCredits().String())
	}

	if err := s.ledgerRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		_ = s.payrollRepo.Rollback(ctx, tx)
		s.revertPayRun(ctx, payRun, originalStatus, "GL transaction persistence failed", userID)
		s.LogError(ctx, err, "Failed to save payroll GL transaction", slog.String("pay_run_id", payRunID))
		return nil, fmt.Errorf("failed to post payroll to ledger: %w", err)
	}

	payRun.Status = domain.PayRunCompleted
	payRun.TransactionID = &transactionID
	payRun.ProcessedBy = &userID
	payRun.ProcessedAt = &now
	payRun.LastUpdatedAt = now
	payRun.LastUpdatedBy = userID
	if err := s.payrollRepo.UpdatePayRunInTx(ctx, tx, *payRun); err != nil {
		_ = s.payrollRepo.Rollback(ctx, tx)
		payRun.Status = originalStatus
		payRun.TransactionID = nil
		payRun.ProcessedBy = nil
		payRun.ProcessedAt = nil
		s.revertPayRun(ctx, payRun, originalStatus, "pay run completion update failed", userID)
		return nil, fmt.Errorf("failed to complete pay run: %w", err)
	}

	if err := s.payrollRepo.Commit(ctx, tx); err != nil {
		payRun.Status = originalStatus
		payRun.TransactionID = nil
		payRun.ProcessedBy = nil
		payRun.ProcessedAt = nil
		s.revertPayRun(ctx, payRun, originalStatus, "pay run commit failed", userID)
		return nil, fmt.Errorf("failed to commit pay run: %w", err)
	}

	for name, amount := range deductionTotalsByName {
		s.LogInfo(ctx, "Pay run deduction aggregate",
			slog.String("pay_run_id", payRunID),
			slog.String("deduction_type", name),
			slog.String("total", amount.StringFixed(2)))
	}
	s.LogInfo(ctx, "Pay run processed",
		slog.String("pay_run_id", payRunID),
		slog.String("transaction_id", transactionID),
		slog.Int("payslips", len(payslips)),
		slog.String("gross", totalGross.StringFixed(2)),
		slog.String("net", totalNet.StringFixed(2)))

	payRun.Payslips = payslips
	return payRun, nil
}

// revertPayRun restores a pay run's pre-processing status after a failed run
// and appends a failure note. Best effort; failures are logged only.
func (s *payrollService) revertPayRun(ctx context.Context, payRun *domain.PayRun, originalStatus domain.PayRunStatus, reason string, userID string) {
	payRun.Status = originalStatus
	if payRun.Notes != "" {
		payRun.Notes += "\n"
	}
	payRun.Notes += fmt.Sprintf("Processing failed at %s: %s",
		time.Now().UTC().Format(time.RFC3339), reason)
	payRun.LastUpdatedAt = time.Now().UTC()
	payRun.LastUpdatedBy = userID
	if err := s.payrollRepo.UpdatePayRun(ctx, *payRun); err != nil {
		s.LogError(ctx, err, "Failed to revert pay run status", slog.String("pay_run_id", payRun.PayRunID))
	}
}

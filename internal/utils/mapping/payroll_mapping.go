package mapping

import (
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/models"
)

// ToModelEmployee converts a domain Employee to a model Employee
func ToModelEmployee(d domain.Employee) models.Employee {
	return models.Employee{
		EmployeeID:      d.EmployeeID,
		OrganizationID:  d.OrganizationID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           d.Email,
		PayType:         string(d.PayType),
		PayRate:         d.PayRate,
		IsActive:        d.IsActive,
		HireDate:        d.HireDate,
		TerminationDate: d.TerminationDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEmployee converts a model Employee to a domain Employee
func ToDomainEmployee(m models.Employee) domain.Employee {
	return domain.Employee{
		EmployeeID:      m.EmployeeID,
		OrganizationID:  m.OrganizationID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		PayType:         domain.PayType(m.PayType),
		PayRate:         m.PayRate,
		IsActive:        m.IsActive,
		HireDate:        m.HireDate,
		TerminationDate: m.TerminationDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEmployeeSlice converts model Employees to domain Employees
func ToDomainEmployeeSlice(ms []models.Employee) []domain.Employee {
	ds := make([]domain.Employee, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEmployee(m)
	}
	return ds
}

// ToModelDeductionType converts a domain DeductionType to a model DeductionType
func ToModelDeductionType(d domain.DeductionType) models.DeductionType {
	return models.DeductionType{
		DeductionTypeID: d.DeductionTypeID,
		OrganizationID:  d.OrganizationID,
		Name:            d.Name,
		TaxTreatment:    string(d.TaxTreatment),
		IsActive:        d.IsActive,
	}
}

// ToDomainDeductionType converts a model DeductionType to a domain DeductionType
func ToDomainDeductionType(m models.DeductionType) domain.DeductionType {
	return domain.DeductionType{
		DeductionTypeID: m.DeductionTypeID,
		OrganizationID:  m.OrganizationID,
		Name:            m.Name,
		TaxTreatment:    domain.TaxTreatment(m.TaxTreatment),
		IsActive:        m.IsActive,
	}
}

// ToDomainDeductionTypeSlice converts model DeductionTypes to domain DeductionTypes
func ToDomainDeductionTypeSlice(ms []models.DeductionType) []domain.DeductionType {
	ds := make([]domain.DeductionType, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDeductionType(m)
	}
	return ds
}

// ToModelPayRun converts a domain PayRun to a model PayRun.
// Payslips are mapped separately.
func ToModelPayRun(d domain.PayRun) models.PayRun {
	return models.PayRun{
		PayRunID:       d.PayRunID,
		OrganizationID: d.OrganizationID,
		PayPeriodStart: d.PayPeriodStart,
		PayPeriodEnd:   d.PayPeriodEnd,
		PaymentDate:    d.PaymentDate,
		Status:         string(d.Status),
		Notes:          d.Notes,
		TransactionID:  d.TransactionID,
		ProcessedBy:    d.ProcessedBy,
		ProcessedAt:    d.ProcessedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayRun converts a model PayRun to a domain PayRun
func ToDomainPayRun(m models.PayRun) domain.PayRun {
	return domain.PayRun{
		PayRunID:       m.PayRunID,
		OrganizationID: m.OrganizationID,
		PayPeriodStart: m.PayPeriodStart,
		PayPeriodEnd:   m.PayPeriodEnd,
		PaymentDate:    m.PaymentDate,
		Status:         domain.PayRunStatus(m.Status),
		Notes:          m.Notes,
		TransactionID:  m.TransactionID,
		ProcessedBy:    m.ProcessedBy,
		ProcessedAt:    m.ProcessedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayRunSlice converts model PayRuns to domain PayRuns
func ToDomainPayRunSlice(ms []models.PayRun) []domain.PayRun {
	ds := make([]domain.PayRun, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayRun(m)
	}
	return ds
}

// ToModelPayslip converts a domain Payslip to a model Payslip.
// Deductions are mapped separately.
func ToModelPayslip(d domain.Payslip) models.Payslip {
	return models.Payslip{
		PayslipID:       d.PayslipID,
		PayRunID:        d.PayRunID,
		EmployeeID:      d.EmployeeID,
		GrossPay:        d.GrossPay,
		TotalDeductions: d.TotalDeductions,
		NetPay:          d.NetPay,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainPayslip converts a model Payslip to a domain Payslip
func ToDomainPayslip(m models.Payslip) domain.Payslip {
	return domain.Payslip{
		PayslipID:       m.PayslipID,
		PayRunID:        m.PayRunID,
		EmployeeID:      m.EmployeeID,
		GrossPay:        m.GrossPay,
		TotalDeductions: m.TotalDeductions,
		NetPay:          m.NetPay,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}

// ToModelPayslipDeduction converts a domain PayslipDeduction to its model
func ToModelPayslipDeduction(d domain.PayslipDeduction) models.PayslipDeduction {
	return models.PayslipDeduction{
		PayslipDeductionID: d.PayslipDeductionID,
		PayslipID:          d.PayslipID,
		DeductionTypeID:    d.DeductionTypeID,
		DeductionTypeName:  d.DeductionTypeName,
		Amount:             d.Amount,
	}
}

// ToDomainPayslipDeduction converts a model PayslipDeduction to its domain form
func ToDomainPayslipDeduction(m models.PayslipDeduction) domain.PayslipDeduction {
	return domain.PayslipDeduction{
		PayslipDeductionID: m.PayslipDeductionID,
		PayslipID:          m.PayslipID,
		DeductionTypeID:    m.DeductionTypeID,
		DeductionTypeName:  m.DeductionTypeName,
		Amount:             m.Amount,
	}
}

package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository off a shared connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:           newPgxUserRepository(dbPool),
		OrganizationRepo:   newPgxOrganizationRepository(dbPool),
		AccountRepo:        newPgxAccountRepository(dbPool),
		LedgerRepo:         newPgxLedgerRepository(dbPool),
		InvoiceRepo:        newPgxInvoiceRepository(dbPool),
		PayrollRepo:        newPgxPayrollRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		ReportingRepo:      newPgxReportingRepository(dbPool),
	}
}

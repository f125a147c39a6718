package services

import (
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/platform/config"
)

// ContainerOption wires optional external adapters into the service container.
type ContainerOption func(*containerDeps)

type containerDeps struct {
	emailSender  portssvc.EmailSender
	feedProvider portssvc.BankFeedProvider
}

// WithContainerEmailSender sets the outbound email adapter.
func WithContainerEmailSender(sender portssvc.EmailSender) ContainerOption {
	return func(d *containerDeps) {
		d.emailSender = sender
	}
}

// WithContainerBankFeedProvider sets the bank feed aggregator adapter.
func WithContainerBankFeedProvider(provider portssvc.BankFeedProvider) ContainerOption {
	return func(d *containerDeps) {
		d.feedProvider = provider
	}
}

// NewServiceContainer creates and wires up all application services.
// The organization service doubles as the authorizer injected into every
// organization-scoped service.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	organizationService := NewOrganizationService(repos.OrganizationRepo)
	authorizer := portssvc.OrganizationAuthorizerSvc(organizationService)

	userService := NewUserService(repos.UserRepo)
	tokenService := NewTokenService(cfg, userService)

	accountService := NewAccountService(repos.AccountRepo,
		WithAccountAuthorizer(authorizer),
		WithOrganizationReader(repos.OrganizationRepo))

	ledgerService := NewLedgerService(repos.LedgerRepo, repos.AccountRepo,
		WithLedgerAuthorizer(authorizer))

	invoiceOpts := []InvoiceServiceOption{WithInvoiceAuthorizer(authorizer)}
	if deps.emailSender != nil {
		invoiceOpts = append(invoiceOpts, WithEmailSender(deps.emailSender))
	}
	invoiceService := NewInvoiceService(repos.InvoiceRepo, repos.LedgerRepo,
		repos.OrganizationRepo, accountService, invoiceOpts...)

	payrollService := NewPayrollService(repos.PayrollRepo, repos.LedgerRepo,
		accountService, WithPayrollAuthorizer(authorizer))

	reconOpts := []ReconciliationServiceOption{
		WithReconciliationAuthorizer(authorizer),
		WithRuleBatchSize(cfg.ReconRuleBatchSize),
	}
	if deps.feedProvider != nil {
		reconOpts = append(reconOpts, WithBankFeedProvider(deps.feedProvider))
	}
	reconciliationService := NewReconciliationService(repos.ReconciliationRepo,
		repos.LedgerRepo, repos.AccountRepo, reconOpts...)

	reportingService := NewReportingService(repos.ReportingRepo,
		WithReportingAuthorizer(authorizer))

	return &portssvc.ServiceContainer{
		User:           userService,
		Token:          tokenService,
		Organization:   organizationService,
		Account:        accountService,
		Ledger:         ledgerService,
		Invoice:        invoiceService,
		Payroll:        payrollService,
		Reconciliation: reconciliationService,
		Reporting:      reportingService,
	}
}

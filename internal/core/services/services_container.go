package services

import (
	"github.com/backofficehq/jobledger_backend/internal/core/ports/platform"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	counterCache platform.CounterCache,
	searchIndex platform.SearchIndexer,
	locker platform.DistributedLocker,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	dispatcher := NewDispatcher(LoggingEventHandler)

	// Three variants of the same document service, parametrized by kind.
	container.InvoiceSvc = NewInvoiceService(repos, searchIndex, dispatcher)
	container.PurchaseOrderSvc = NewPurchaseOrderService(repos, searchIndex, dispatcher)
	container.CreditNoteSvc = NewCreditNoteService(repos, searchIndex, dispatcher)
	container.LockSweepSvc = NewLockSweepService(repos, locker, dispatcher)

	container.LedgerSvc = NewLedgerService(repos)
	container.GLAccountSvc = NewGLAccountService(repos)
	container.TaxRateSvc = NewTaxRateService(repos)

	container.UserSvc = NewUserService(repos)
	container.TokenSvc = NewTokenService(cfg, container.UserSvc)
	container.GoogleOAuthSvc = NewGoogleOAuthService(cfg)

	container.JobSvc = NewJobService(repos, counterCache)
	container.ReportingSvc = NewReportingService(repos)

	return container
}

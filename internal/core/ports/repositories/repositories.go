package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	DocumentRepo     DocumentRepositoryWithTx
	LedgerRepo       LedgerRepositoryFacade
	GLAccountRepo    GLAccountRepositoryFacade
	TaxRateRepo      TaxRateRepositoryFacade
	OrganizationRepo OrganizationRepositoryFacade
	UserRepo         UserRepositoryFacade
	JobRepo          JobRepositoryFacade
}

package services

// ServiceContainer holds all service interfaces needed by handlers.
type ServiceContainer struct {
	InvoiceSvc       DocumentSvcFacade
	PurchaseOrderSvc DocumentSvcFacade
	CreditNoteSvc    DocumentSvcFacade
	LockSweepSvc     LockSweepSvc
	LedgerSvc        LedgerSvcFacade
	GLAccountSvc     GLAccountSvcFacade
	TaxRateSvc       TaxRateSvcFacade
	UserSvc          UserSvcFacade
	TokenSvc         TokenSvcFacade
	GoogleOAuthSvc   GoogleOAuthSvcFacade
	JobSvc           JobSvcFacade
	ReportingSvc     ReportingSvcFacade
}

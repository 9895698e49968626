package services

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/dto"
)

// GLAccountSvcFacade defines operations for general-ledger accounts.
type GLAccountSvcFacade interface {
	// CreateGLAccount validates and persists a new account.
	CreateGLAccount(ctx context.Context, req dto.CreateGLAccountRequest, userID string) (*domain.GLAccount, error)

	// GetGLAccountByID retrieves an account by ID.
	GetGLAccountByID(ctx context.Context, glAccountID string) (*domain.GLAccount, error)

	// ListGLAccounts retrieves active accounts for an organization.
	ListGLAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.GLAccount, error)

	// UpdateGLAccount updates an account's mutable fields.
	UpdateGLAccount(ctx context.Context, glAccountID string, req dto.UpdateGLAccountRequest, userID string) (*domain.GLAccount, error)

	// DeactivateGLAccount marks an account inactive.
	DeactivateGLAccount(ctx context.Context, glAccountID string, userID string) error

	// GetOrganizationByID retrieves an accounting organization.
	GetOrganizationByID(ctx context.Context, organizationID string) (*domain.AccountingOrganization, error)

	// ListOrganizations retrieves all active accounting organizations.
	ListOrganizations(ctx context.Context) ([]domain.AccountingOrganization, error)
}

// TaxRateSvcFacade defines operations for tax rates.
type TaxRateSvcFacade interface {
	// CreateTaxRate validates and persists a new tax rate.
	CreateTaxRate(ctx context.Context, req dto.CreateTaxRateRequest, userID string) (*domain.TaxRate, error)

	// GetTaxRateByID retrieves a tax rate by ID.
	GetTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error)

	// ListTaxRates retrieves all active tax rates.
	ListTaxRates(ctx context.Context) ([]domain.TaxRate, error)
}

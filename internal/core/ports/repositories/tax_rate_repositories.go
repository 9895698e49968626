package repositories

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// TaxRateRepositoryFacade defines operations for tax rates.
type TaxRateRepositoryFacade interface {
	// SaveTaxRate inserts a new tax rate.
	SaveTaxRate(ctx context.Context, rate domain.TaxRate) error

	// FindTaxRateByID retrieves a tax rate by its ID.
	FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error)

	// FindTaxRatesByIDs retrieves multiple tax rates keyed by ID.
	FindTaxRatesByIDs(ctx context.Context, taxRateIDs []string) (map[string]domain.TaxRate, error)

	// ListTaxRates retrieves all active tax rates.
	ListTaxRates(ctx context.Context) ([]domain.TaxRate, error)
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type taxRateSvc struct {
	taxRateRepo portsrepo.TaxRateRepositoryFacade
}

// NewTaxRateService creates the tax rate service.
func NewTaxRateService(repos portsrepo.RepositoryProvider) portssvc.TaxRateSvcFacade {
	return &taxRateSvc{taxRateRepo: repos.TaxRateRepo}
}

var _ portssvc.TaxRateSvcFacade = (*taxRateSvc)(nil)

// CreateTaxRate validates and persists a new tax rate. Rate is a fraction and
// must lie in [0, 1).
func (s *taxRateSvc) CreateTaxRate(ctx context.Context, req dto.CreateTaxRateRequest, userID string) (*domain.TaxRate, error) {
	if req.Rate.IsNegative() || req.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: tax rate must be a fraction in [0, 1)", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	rate := domain.TaxRate{
		TaxRateID: uuid.NewString(),
		Name:      req.Name,
		Rate:      req.Rate,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.taxRateRepo.SaveTaxRate(ctx, rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

// GetTaxRateByID retrieves a tax rate by ID.
func (s *taxRateSvc) GetTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	return s.taxRateRepo.FindTaxRateByID(ctx, taxRateID)
}

// ListTaxRates retrieves all active tax rates.
func (s *taxRateSvc) ListTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	return s.taxRateRepo.ListTaxRates(ctx)
}

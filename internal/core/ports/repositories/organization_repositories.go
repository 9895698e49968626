package repositories

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// OrganizationRepositoryFacade defines operations for accounting organizations.
type OrganizationRepositoryFacade interface {
	// FindOrganizationByID retrieves an organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.AccountingOrganization, error)

	// ListOrganizations retrieves all active organizations.
	ListOrganizations(ctx context.Context) ([]domain.AccountingOrganization, error)

	// ListOrganizationsWithLockDay retrieves active organizations whose
	// configured lock day equals the given day-of-month.
	ListOrganizationsWithLockDay(ctx context.Context, dayOfMonth int) ([]domain.AccountingOrganization, error)
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrganizationRepository struct {
	pool *pgxpool.Pool
}

func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{pool: pool}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationColumns = `organization_id, name, lock_day_of_month, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanOrganization(row rowScanner) (domain.AccountingOrganization, error) {
	var o domain.AccountingOrganization
	err := row.Scan(
		&o.OrganizationID,
		&o.Name,
		&o.LockDayOfMonth,
		&o.IsActive,
		&o.CreatedAt,
		&o.CreatedBy,
		&o.LastUpdatedAt,
		&o.LastUpdatedBy,
	)
	return o, err
}

// FindOrganizationByID retrieves an organization by its ID.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.AccountingOrganization, error) {
	query := `SELECT ` + organizationColumns + ` FROM accounting_organizations WHERE organization_id = $1;`
	o, err := scanOrganization(r.pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}
	return &o, nil
}

// ListOrganizations retrieves all active organizations.
func (r *PgxOrganizationRepository) ListOrganizations(ctx context.Context) ([]domain.AccountingOrganization, error) {
	return r.list(ctx, `SELECT `+organizationColumns+` FROM accounting_organizations WHERE is_active ORDER BY name;`)
}

// ListOrganizationsWithLockDay retrieves active organizations whose lock day
// equals the given day-of-month.
func (r *PgxOrganizationRepository) ListOrganizationsWithLockDay(ctx context.Context, dayOfMonth int) ([]domain.AccountingOrganization, error) {
	return r.list(ctx, `SELECT `+organizationColumns+` FROM accounting_organizations WHERE is_active AND lock_day_of_month = $1 ORDER BY name;`, dayOfMonth)
}

func (r *PgxOrganizationRepository) list(ctx context.Context, query string, args ...any) ([]domain.AccountingOrganization, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []domain.AccountingOrganization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate organizations: %w", err)
	}
	return orgs, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTaxRateRepository struct {
	pool *pgxpool.Pool
}

func newPgxTaxRateRepository(pool *pgxpool.Pool) portsrepo.TaxRateRepositoryFacade {
	return &PgxTaxRateRepository{pool: pool}
}

var _ portsrepo.TaxRateRepositoryFacade = (*PgxTaxRateRepository)(nil)

const taxRateColumns = `tax_rate_id, name, rate, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanTaxRate(row rowScanner) (domain.TaxRate, error) {
	var t domain.TaxRate
	err := row.Scan(
		&t.TaxRateID,
		&t.Name,
		&t.Rate,
		&t.IsActive,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

// SaveTaxRate inserts a new tax rate.
func (r *PgxTaxRateRepository) SaveTaxRate(ctx context.Context, rate domain.TaxRate) error {
	query := `
		INSERT INTO tax_rates (` + taxRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		rate.TaxRateID,
		rate.Name,
		rate.Rate,
		rate.IsActive,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: tax rate with ID %s already exists", apperrors.ErrDuplicate, rate.TaxRateID)
		}
		return fmt.Errorf("failed to save tax rate %s: %w", rate.TaxRateID, err)
	}
	return nil
}

// FindTaxRateByID retrieves a tax rate by its ID.
func (r *PgxTaxRateRepository) FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	query := `SELECT ` + taxRateColumns + ` FROM tax_rates WHERE tax_rate_id = $1;`
	t, err := scanTaxRate(r.pool.QueryRow(ctx, query, taxRateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tax rate %s: %w", taxRateID, err)
	}
	return &t, nil
}

// FindTaxRatesByIDs retrieves multiple tax rates keyed by ID.
func (r *PgxTaxRateRepository) FindTaxRatesByIDs(ctx context.Context, taxRateIDs []string) (map[string]domain.TaxRate, error) {
	query := `SELECT ` + taxRateColumns + ` FROM tax_rates WHERE tax_rate_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, taxRateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]domain.TaxRate, len(taxRateIDs))
	for rows.Next() {
		t, err := scanTaxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		rates[t.TaxRateID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tax rates: %w", err)
	}
	return rates, nil
}

// ListTaxRates retrieves all active tax rates.
func (r *PgxTaxRateRepository) ListTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	query := `SELECT ` + taxRateColumns + ` FROM tax_rates WHERE is_active ORDER BY name;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.TaxRate
	for rows.Next() {
		t, err := scanTaxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		rates = append(rates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tax rates: %w", err)
	}
	return rates, nil
}

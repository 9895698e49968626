package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	"github.com/backofficehq/jobledger_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGLAccountRepository struct {
	pool *pgxpool.Pool
}

func newPgxGLAccountRepository(pool *pgxpool.Pool) portsrepo.GLAccountRepositoryFacade {
	return &PgxGLAccountRepository{pool: pool}
}

var _ portsrepo.GLAccountRepositoryFacade = (*PgxGLAccountRepository)(nil)

func toModelGLAccount(d domain.GLAccount) models.GLAccount {
	return models.GLAccount{
		GLAccountID:              d.GLAccountID,
		AccountingOrganizationID: d.AccountingOrganizationID,
		Code:                     d.Code,
		Name:                     d.Name,
		AccountType:              string(d.AccountType),
		Description:              d.Description,
		IsActive:                 d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainGLAccount(m models.GLAccount) domain.GLAccount {
	return domain.GLAccount{
		GLAccountID:              m.GLAccountID,
		AccountingOrganizationID: m.AccountingOrganizationID,
		Code:                     m.Code,
		Name:                     m.Name,
		AccountType:              domain.GLAccountType(m.AccountType),
		Description:              m.Description,
		IsActive:                 m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const glAccountColumns = `gl_account_id, accounting_organization_id, code, name, account_type, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanGLAccount(row rowScanner) (models.GLAccount, error) {
	var m models.GLAccount
	err := row.Scan(
		&m.GLAccountID,
		&m.AccountingOrganizationID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveGLAccount inserts a new account.
func (r *PgxGLAccountRepository) SaveGLAccount(ctx context.Context, account domain.GLAccount) error {
	m := toModelGLAccount(account)
	query := `
		INSERT INTO gl_accounts (` + glAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.GLAccountID,
		m.AccountingOrganizationID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: GL account with ID %s already exists", apperrors.ErrDuplicate, m.GLAccountID)
		}
		return fmt.Errorf("failed to save GL account %s: %w", m.GLAccountID, err)
	}
	return nil
}

// FindGLAccountByID retrieves an account by its ID.
func (r *PgxGLAccountRepository) FindGLAccountByID(ctx context.Context, glAccountID string) (*domain.GLAccount, error) {
	query := `SELECT ` + glAccountColumns + ` FROM gl_accounts WHERE gl_account_id = $1;`
	m, err := scanGLAccount(r.pool.QueryRow(ctx, query, glAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find GL account %s: %w", glAccountID, err)
	}
	account := toDomainGLAccount(m)
	return &account, nil
}

// FindGLAccountsByIDs retrieves multiple accounts keyed by ID.
func (r *PgxGLAccountRepository) FindGLAccountsByIDs(ctx context.Context, glAccountIDs []string) (map[string]domain.GLAccount, error) {
	query := `SELECT ` + glAccountColumns + ` FROM gl_accounts WHERE gl_account_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, glAccountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find GL accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.GLAccount, len(glAccountIDs))
	for rows.Next() {
		m, err := scanGLAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan GL account: %w", err)
		}
		accounts[m.GLAccountID] = toDomainGLAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate GL accounts: %w", err)
	}
	return accounts, nil
}

// ListGLAccounts retrieves active accounts for an organization.
func (r *PgxGLAccountRepository) ListGLAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.GLAccount, error) {
	query := `
		SELECT ` + glAccountColumns + `
		FROM gl_accounts
		WHERE accounting_organization_id = $1 AND is_active
		ORDER BY code
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list GL accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.GLAccount
	for rows.Next() {
		m, err := scanGLAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan GL account: %w", err)
		}
		accounts = append(accounts, toDomainGLAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate GL accounts: %w", err)
	}
	return accounts, nil
}

// UpdateGLAccount updates name, description and active flag.
func (r *PgxGLAccountRepository) UpdateGLAccount(ctx context.Context, account domain.GLAccount) error {
	m := toModelGLAccount(account)
	query := `
		UPDATE gl_accounts
		SET name = $2, description = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE gl_account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, m.GLAccountID, m.Name, m.Description, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update GL account %s: %w", m.GLAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateGLAccount marks an account inactive.
func (r *PgxGLAccountRepository) DeactivateGLAccount(ctx context.Context, glAccountID string, userID string, now time.Time) error {
	query := `
		UPDATE gl_accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE gl_account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, glAccountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate GL account %s: %w", glAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	"github.com/backofficehq/jobledger_backend/internal/models"
	"github.com/backofficehq/jobledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository persists the immutable ledger. It implements no update
// or delete statements at all; immutability is enforced at the service layer
// and backed by the absence of any mutating SQL here.
type PgxLedgerRepository struct {
	pgxStore
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{pgxStore{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:            d.TransactionID,
		AccountingOrganizationID: d.AccountingOrganizationID,
		Date:                     d.Date,
		Memo:                     d.Memo,
		DocumentID:               d.DocumentID,
		Amount:                   d.Amount,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:            m.TransactionID,
		AccountingOrganizationID: m.AccountingOrganizationID,
		Date:                     m.Date,
		Memo:                     m.Memo,
		DocumentID:               m.DocumentID,
		Amount:                   m.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const transactionColumns = `transaction_id, accounting_organization_id, date, memo, document_id, amount, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountingOrganizationID,
		&m.Date,
		&m.Memo,
		&m.DocumentID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction persists a transaction and its records atomically.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, records []domain.TransactionRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelTransaction(txn)
	txnQuery := `
		INSERT INTO ledger_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, txnQuery,
		m.TransactionID,
		m.AccountingOrganizationID,
		m.Date,
		m.Memo,
		m.DocumentID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}

	batch := &pgx.Batch{}
	recordQuery := `
		INSERT INTO ledger_transaction_records (record_id, transaction_id, gl_account_id, amount, transaction_type)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, rec := range records {
		batch.Queue(recordQuery, rec.RecordID, rec.TransactionID, rec.GLAccountID, rec.Amount, rec.TransactionType)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert records for transaction %s: %w", m.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a ledger transaction with its records.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, []domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	txn := toDomainTransaction(m)

	recordQuery := `SELECT record_id, transaction_id, gl_account_id, amount, transaction_type FROM ledger_transaction_records WHERE transaction_id = $1 ORDER BY record_id;`
	rows, err := r.Pool.Query(ctx, recordQuery, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query records of transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		var rec models.TransactionRecord
		if err := rows.Scan(&rec.RecordID, &rec.TransactionID, &rec.GLAccountID, &rec.Amount, &rec.TransactionType); err != nil {
			return nil, nil, fmt.Errorf("failed to scan record of transaction %s: %w", transactionID, err)
		}
		records = append(records, domain.TransactionRecord{
			RecordID:        rec.RecordID,
			TransactionID:   rec.TransactionID,
			GLAccountID:     rec.GLAccountID,
			Amount:          rec.Amount,
			TransactionType: domain.TransactionType(rec.TransactionType),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate records of transaction %s: %w", transactionID, err)
	}

	return &txn, records, nil
}

// ListTransactions retrieves a page of transactions for an organization,
// newest first, using (date, created_at) keyset pagination.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{organizationID, limit + 1}
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE accounting_organization_id = $1`

	if nextToken != nil && *nextToken != "" {
		date, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (date, created_at) < ($3, $4)`
		args = append(args, date, createdAt)
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	var newToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		newToken = &token
	}
	return txns, newToken, nil
}

// SaveCreditCardTransaction persists an imported card charge.
func (r *PgxLedgerRepository) SaveCreditCardTransaction(ctx context.Context, cct domain.CreditCardTransaction) error {
	query := `
		INSERT INTO credit_card_transactions (credit_card_transaction_id, accounting_organization_id, card_last4, merchant, amount, posted_at, transaction_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		cct.CreditCardTransactionID,
		cct.AccountingOrganizationID,
		cct.CardLast4,
		cct.Merchant,
		cct.Amount,
		cct.PostedAt,
		cct.TransactionID,
		cct.CreatedAt,
		cct.CreatedBy,
		cct.LastUpdatedAt,
		cct.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: credit card transaction %s already exists", apperrors.ErrDuplicate, cct.CreditCardTransactionID)
		}
		return fmt.Errorf("failed to save credit card transaction %s: %w", cct.CreditCardTransactionID, err)
	}
	return nil
}

// ListCreditCardTransactions retrieves imported card charges, optionally only
// those not yet matched to a ledger transaction.
func (r *PgxLedgerRepository) ListCreditCardTransactions(ctx context.Context, organizationID string, unmatchedOnly bool) ([]domain.CreditCardTransaction, error) {
	query := `
		SELECT credit_card_transaction_id, accounting_organization_id, card_last4, merchant, amount, posted_at, transaction_id, created_at, created_by, last_updated_at, last_updated_by
		FROM credit_card_transactions
		WHERE accounting_organization_id = $1
	`
	if unmatchedOnly {
		query += ` AND transaction_id IS NULL`
	}
	query += ` ORDER BY posted_at DESC;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit card transactions: %w", err)
	}
	defer rows.Close()

	var ccts []domain.CreditCardTransaction
	for rows.Next() {
		var m models.CreditCardTransaction
		if err := rows.Scan(
			&m.CreditCardTransactionID,
			&m.AccountingOrganizationID,
			&m.CardLast4,
			&m.Merchant,
			&m.Amount,
			&m.PostedAt,
			&m.TransactionID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan credit card transaction: %w", err)
		}
		ccts = append(ccts, domain.CreditCardTransaction{
			CreditCardTransactionID:  m.CreditCardTransactionID,
			AccountingOrganizationID: m.AccountingOrganizationID,
			CardLast4:                m.CardLast4,
			Merchant:                m.Merchant,
			Amount:                  m.Amount,
			PostedAt:                m.PostedAt,
			TransactionID:           m.TransactionID,
			AuditFields: domain.AuditFields{
				CreatedAt:     m.CreatedAt,
				CreatedBy:     m.CreatedBy,
				LastUpdatedAt: m.LastUpdatedAt,
				LastUpdatedBy: m.LastUpdatedBy,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credit card transactions: %w", err)
	}
	return ccts, nil
}

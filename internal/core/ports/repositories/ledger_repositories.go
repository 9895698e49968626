package repositories

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
)

// LedgerReader defines read operations for immutable ledger records.
type LedgerReader interface {
	// FindTransactionByID retrieves a ledger transaction with its records.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, []domain.TransactionRecord, error)

	// ListTransactions retrieves a paginated list of ledger transactions for an
	// accounting organization using token-based pagination.
	ListTransactions(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListCreditCardTransactions retrieves imported card charges, optionally
	// only the unmatched ones.
	ListCreditCardTransactions(ctx context.Context, organizationID string, unmatchedOnly bool) ([]domain.CreditCardTransaction, error)
}

// LedgerWriter defines the append-only write operations for ledger records.
// There are deliberately no update or delete methods: ledger rows are
// immutable and corrections are posted as offsetting entries.
type LedgerWriter interface {
	// SaveTransaction persists a transaction and its records atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction, records []domain.TransactionRecord) error

	// SaveCreditCardTransaction persists an imported card charge.
	SaveCreditCardTransaction(ctx context.Context, cct domain.CreditCardTransaction) error
}

// LedgerRepositoryFacade combines the ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

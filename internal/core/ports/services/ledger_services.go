package services

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/dto"
)

// LedgerSvcFacade defines operations on immutable ledger records. Update and
// delete are present on the interface so handlers can surface a uniform
// not-allowed error instead of a routing gap.
type LedgerSvcFacade interface {
	// CreateTransaction validates and persists a balanced ledger transaction.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// GetTransactionByID retrieves a transaction with its records.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, []domain.TransactionRecord, error)

	// ListTransactions retrieves a page of transactions for an organization.
	ListTransactions(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// UpdateTransaction always fails with apperrors.ErrNotAllowed.
	UpdateTransaction(ctx context.Context, transactionID string, userID string) error

	// DeleteTransaction always fails with apperrors.ErrNotAllowed.
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error

	// ImportCreditCardTransaction records an imported card charge.
	ImportCreditCardTransaction(ctx context.Context, req dto.ImportCreditCardTransactionRequest, userID string) (*domain.CreditCardTransaction, error)

	// ListCreditCardTransactions retrieves imported card charges.
	ListCreditCardTransactions(ctx context.Context, organizationID string, unmatchedOnly bool) ([]domain.CreditCardTransaction, error)
}

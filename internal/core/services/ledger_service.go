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

// ledgerSvc implements the immutable ledger. Posting validates double-entry
// balance; update and delete unconditionally fail with ErrNotAllowed.
type ledgerSvc struct {
	ledgerRepo       portsrepo.LedgerRepositoryFacade
	glAccountRepo    portsrepo.GLAccountRepositoryFacade
	organizationRepo portsrepo.OrganizationRepositoryFacade
}

// NewLedgerService creates the ledger service.
func NewLedgerService(repos portsrepo.RepositoryProvider) portssvc.LedgerSvcFacade {
	return &ledgerSvc{
		ledgerRepo:       repos.LedgerRepo,
		glAccountRepo:    repos.GLAccountRepo,
		organizationRepo: repos.OrganizationRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerSvc)(nil)

// CreateTransaction validates and persists a balanced ledger transaction.
func (s *ledgerSvc) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if len(req.Records) < 2 {
		return nil, fmt.Errorf("%w: a transaction needs at least two records", apperrors.ErrValidation)
	}

	if _, err := s.organizationRepo.FindOrganizationByID(ctx, req.AccountingOrganizationID); err != nil {
		return nil, fmt.Errorf("%w: organization %s not found", apperrors.ErrValidation, req.AccountingOrganizationID)
	}

	debits := decimal.Zero
	credits := decimal.Zero
	glAccountIDs := make([]string, 0, len(req.Records))
	for _, rec := range req.Records {
		if !rec.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: record amounts must be positive", apperrors.ErrValidation)
		}
		switch domain.TransactionType(rec.Type) {
		case domain.Debit:
			debits = debits.Add(rec.Amount)
		case domain.Credit:
			credits = credits.Add(rec.Amount)
		default:
			return nil, fmt.Errorf("%w: unknown record type %s", apperrors.ErrValidation, rec.Type)
		}
		glAccountIDs = append(glAccountIDs, rec.GLAccountID)
	}
	if !debits.Equal(credits) {
		return nil, fmt.Errorf("%w: debits (%s) and credits (%s) must balance", apperrors.ErrValidation, debits, credits)
	}

	accounts, err := s.glAccountRepo.FindGLAccountsByIDs(ctx, glAccountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range glAccountIDs {
		account, ok := accounts[id]
		if !ok || !account.IsActive {
			return nil, fmt.Errorf("%w: GL account %s not found or inactive", apperrors.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:            uuid.NewString(),
		AccountingOrganizationID: req.AccountingOrganizationID,
		Date:                     req.Date,
		Memo:                     req.Memo,
		DocumentID:               req.DocumentID,
		Amount:                   debits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	records := make([]domain.TransactionRecord, len(req.Records))
	for i, rec := range req.Records {
		records[i] = domain.TransactionRecord{
			RecordID:        uuid.NewString(),
			TransactionID:   txn.TransactionID,
			GLAccountID:     rec.GLAccountID,
			Amount:          rec.Amount,
			TransactionType: domain.TransactionType(rec.Type),
		}
	}

	if err := s.ledgerRepo.SaveTransaction(ctx, txn, records); err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetTransactionByID retrieves a transaction with its records.
func (s *ledgerSvc) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, []domain.TransactionRecord, error) {
	return s.ledgerRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions retrieves a page of transactions for an organization.
func (s *ledgerSvc) ListTransactions(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.ledgerRepo.ListTransactions(ctx, organizationID, limit, nextToken)
}

// UpdateTransaction always fails: ledger records are immutable. Corrections
// are posted as offsetting transactions.
func (s *ledgerSvc) UpdateTransaction(ctx context.Context, transactionID string, userID string) error {
	return fmt.Errorf("%w: ledger transactions are immutable", apperrors.ErrNotAllowed)
}

// DeleteTransaction always fails: ledger records are immutable.
func (s *ledgerSvc) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	return fmt.Errorf("%w: ledger transactions are immutable", apperrors.ErrNotAllowed)
}

// ImportCreditCardTransaction records an imported card charge.
func (s *ledgerSvc) ImportCreditCardTransaction(ctx context.Context, req dto.ImportCreditCardTransactionRequest, userID string) (*domain.CreditCardTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: charge amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.organizationRepo.FindOrganizationByID(ctx, req.AccountingOrganizationID); err != nil {
		return nil, fmt.Errorf("%w: organization %s not found", apperrors.ErrValidation, req.AccountingOrganizationID)
	}

	now := time.Now().UTC()
	cct := domain.CreditCardTransaction{
		CreditCardTransactionID:  uuid.NewString(),
		AccountingOrganizationID: req.AccountingOrganizationID,
		CardLast4:                req.CardLast4,
		Merchant:                 req.Merchant,
		Amount:                   req.Amount,
		PostedAt:                 req.PostedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.ledgerRepo.SaveCreditCardTransaction(ctx, cct); err != nil {
		return nil, err
	}
	return &cct, nil
}

// ListCreditCardTransactions retrieves imported card charges.
func (s *ledgerSvc) ListCreditCardTransactions(ctx context.Context, organizationID string, unmatchedOnly bool) ([]domain.CreditCardTransaction, error) {
	return s.ledgerRepo.ListCreditCardTransactions(ctx, organizationID, unmatchedOnly)
}

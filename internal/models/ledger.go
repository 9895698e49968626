package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row in the ledger_transactions table. Rows are
// append-only; there are no UPDATE or DELETE statements against this table.
type Transaction struct {
	TransactionID            string          `db:"transaction_id"`
	AccountingOrganizationID string          `db:"accounting_organization_id"`
	Date                     time.Time       `db:"date"`
	Memo                     string          `db:"memo"`
	DocumentID               *string         `db:"document_id"` // Nullable
	Amount                   decimal.Decimal `db:"amount"`
	AuditFields
}

// TransactionRecord represents a row in the ledger_transaction_records table.
type TransactionRecord struct {
	RecordID        string          `db:"record_id"`
	TransactionID   string          `db:"transaction_id"`
	GLAccountID     string          `db:"gl_account_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType string          `db:"transaction_type"` // DEBIT or CREDIT
}

// CreditCardTransaction represents a row in the credit_card_transactions table.
type CreditCardTransaction struct {
	CreditCardTransactionID  string          `db:"credit_card_transaction_id"`
	AccountingOrganizationID string          `db:"accounting_organization_id"`
	CardLast4                string          `db:"card_last4"`
	Merchant                 string          `db:"merchant"`
	Amount                   decimal.Decimal `db:"amount"`
	PostedAt                 time.Time       `db:"posted_at"`
	TransactionID            *string         `db:"transaction_id"` // Nullable until matched
	AuditFields
}

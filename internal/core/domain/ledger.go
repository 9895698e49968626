package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a ledger line is a debit or a credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction is an immutable general-ledger entry. Once written it is never
// updated or deleted; corrections are made by posting offsetting entries.
type Transaction struct {
	TransactionID            string          `json:"transactionID"`
	AccountingOrganizationID string          `json:"accountingOrganizationID"`
	Date                     time.Time       `json:"date"`
	Memo                     string          `json:"memo"`
	DocumentID               *string         `json:"documentID"` // Source document, if any
	Amount                   decimal.Decimal `json:"amount"`
	AuditFields
}

// TransactionRecord is one immutable debit/credit line of a transaction.
type TransactionRecord struct {
	RecordID        string          `json:"recordID"`
	TransactionID   string          `json:"transactionID"`
	GLAccountID     string          `json:"glAccountID"`
	Amount          decimal.Decimal `json:"amount"` // Positive
	TransactionType TransactionType `json:"transactionType"`
}

// CreditCardTransaction is an immutable imported card charge awaiting (or
// linked to) a ledger transaction.
type CreditCardTransaction struct {
	CreditCardTransactionID  string          `json:"creditCardTransactionID"`
	AccountingOrganizationID string          `json:"accountingOrganizationID"`
	CardLast4                string          `json:"cardLast4"`
	Merchant                 string          `json:"merchant"`
	Amount                   decimal.Decimal `json:"amount"`
	PostedAt                 time.Time       `json:"postedAt"`
	TransactionID            *string         `json:"transactionID"` // Set when matched
	AuditFields
}

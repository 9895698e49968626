package dto

import (
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionRecordRequest defines one leg of a ledger transaction.
type TransactionRecordRequest struct {
	GLAccountID string          `json:"glAccountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=DEBIT CREDIT"`
}

// CreateTransactionRequest defines the payload for posting a ledger transaction.
type CreateTransactionRequest struct {
	AccountingOrganizationID string                     `json:"accountingOrganizationID" binding:"required"`
	Date                     time.Time                  `json:"date" binding:"required"`
	Memo                     string                     `json:"memo"`
	DocumentID               *string                    `json:"documentID"`
	Records                  []TransactionRecordRequest `json:"records" binding:"required,min=2,dive"`
}

// ImportCreditCardTransactionRequest defines the payload for importing a card charge.
type ImportCreditCardTransactionRequest struct {
	AccountingOrganizationID string          `json:"accountingOrganizationID" binding:"required"`
	CardLast4                string          `json:"cardLast4" binding:"required,len=4"`
	Merchant                 string          `json:"merchant" binding:"required"`
	Amount                   decimal.Decimal `json:"amount" binding:"required"`
	PostedAt                 time.Time       `json:"postedAt" binding:"required"`
}

// TransactionRecordResponse defines the data returned for one transaction leg.
type TransactionRecordResponse struct {
	RecordID    string          `json:"recordID"`
	GLAccountID string          `json:"glAccountID"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID            string                      `json:"transactionID"`
	AccountingOrganizationID string                      `json:"accountingOrganizationID"`
	Date                     time.Time                   `json:"date"`
	Memo                     string                      `json:"memo,omitempty"`
	DocumentID               *string                     `json:"documentID,omitempty"`
	Amount                   decimal.Decimal             `json:"amount"`
	Records                  []TransactionRecordResponse `json:"records,omitempty"`
	CreatedAt                time.Time                   `json:"createdAt"`
	CreatedBy                string                      `json:"createdBy"`
}

// ListTransactionsResponse wraps a page of transactions with the next page token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// CreditCardTransactionResponse defines the data returned for an imported card charge.
type CreditCardTransactionResponse struct {
	CreditCardTransactionID string          `json:"creditCardTransactionID"`
	CardLast4               string          `json:"cardLast4"`
	Merchant                string          `json:"merchant"`
	Amount                  decimal.Decimal `json:"amount"`
	PostedAt                time.Time       `json:"postedAt"`
	TransactionID           *string         `json:"transactionID,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction and its records to a DTO.
func ToTransactionResponse(txn *domain.Transaction, records []domain.TransactionRecord) TransactionResponse {
	recs := make([]TransactionRecordResponse, len(records))
	for i, r := range records {
		recs[i] = TransactionRecordResponse{
			RecordID:    r.RecordID,
			GLAccountID: r.GLAccountID,
			Amount:      r.Amount,
			Type:        string(r.TransactionType),
		}
	}
	return TransactionResponse{
		TransactionID:            txn.TransactionID,
		AccountingOrganizationID: txn.AccountingOrganizationID,
		Date:                     txn.Date,
		Memo:                     txn.Memo,
		DocumentID:               txn.DocumentID,
		Amount:                   txn.Amount,
		Records:                  recs,
		CreatedAt:                txn.CreatedAt,
		CreatedBy:                txn.CreatedBy,
	}
}

// ToTransactionResponses converts transactions without their records loaded.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i], nil)
	}
	return responses
}

// ToCreditCardTransactionResponse converts a domain.CreditCardTransaction to its DTO.
func ToCreditCardTransactionResponse(cct *domain.CreditCardTransaction) CreditCardTransactionResponse {
	return CreditCardTransactionResponse{
		CreditCardTransactionID: cct.CreditCardTransactionID,
		CardLast4:               cct.CardLast4,
		Merchant:                cct.Merchant,
		Amount:                  cct.Amount,
		PostedAt:                cct.PostedAt,
		TransactionID:           cct.TransactionID,
	}
}

// ToCreditCardTransactionResponses converts a slice of card charges to DTOs.
func ToCreditCardTransactionResponses(ccts []domain.CreditCardTransaction) []CreditCardTransactionResponse {
	responses := make([]CreditCardTransactionResponse, len(ccts))
	for i := range ccts {
		responses[i] = ToCreditCardTransactionResponse(&ccts[i])
	}
	return responses
}

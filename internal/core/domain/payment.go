package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentAllocation links a received payment to an invoice with the amount
// applied to it (the pivot amount). An invoice's paid total is the sum of its
// allocation amounts, not of the underlying payments.
type PaymentAllocation struct {
	PaymentID  string          `json:"paymentID"`
	DocumentID string          `json:"documentID"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paidAt"`
	AuditFields
}

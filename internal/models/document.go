package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialDocument represents a row in the financial_documents table. All
// three document kinds share the table, discriminated by the kind column.
type FinancialDocument struct {
	DocumentID               string     `db:"document_id"`
	Kind                     string     `db:"kind"`
	Number                   string     `db:"number"`
	LocationID               string     `db:"location_id"`
	AccountingOrganizationID string     `db:"accounting_organization_id"`
	RecipientContactID       string     `db:"recipient_contact_id"`
	JobID                    *string    `db:"job_id"` // Nullable
	Date                     time.Time  `db:"date"`
	DueAt                    *time.Time `db:"due_at"`    // Nullable; invoices only
	LockedAt                 *time.Time `db:"locked_at"` // Nullable
	Notes                    string     `db:"notes"`
	AuditFields
}

// DocumentItem represents a row in the document_items table.
type DocumentItem struct {
	ItemID          string          `db:"item_id"`
	DocumentID      string          `db:"document_id"`
	Description     string          `db:"description"`
	Quantity        decimal.Decimal `db:"quantity"`
	UnitCost        decimal.Decimal `db:"unit_cost"`
	DiscountPercent decimal.Decimal `db:"discount_percent"`
	MarkupPercent   decimal.Decimal `db:"markup_percent"`
	TaxRateID       string          `db:"tax_rate_id"`
	TaxRate         decimal.Decimal `db:"tax_rate"` // Denormalized fraction at time of write
	GLAccountID     string          `db:"gl_account_id"`
	Position        int             `db:"position"`
	AuditFields
}

// DocumentStatus represents a row in the append-only document_statuses table.
type DocumentStatus struct {
	StatusID   int64     `db:"status_id"` // bigserial
	DocumentID string    `db:"document_id"`
	UserID     *string   `db:"user_id"` // Nullable for system transitions
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

// ApproveRequest represents a row in the approve_requests table. Primary key
// is (requester_id, approver_id, document_id).
type ApproveRequest struct {
	RequesterID string     `db:"requester_id"`
	ApproverID  string     `db:"approver_id"`
	DocumentID  string     `db:"document_id"`
	ApprovedAt  *time.Time `db:"approved_at"` // Nullable while unresolved
	CreatedAt   time.Time  `db:"created_at"`
}

// PaymentAllocation represents a row in the payment_allocations table.
type PaymentAllocation struct {
	PaymentID  string          `db:"payment_id"`
	DocumentID string          `db:"document_id"`
	Amount     decimal.Decimal `db:"amount"`
	PaidAt     time.Time       `db:"paid_at"`
	AuditFields
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind discriminates the three financial document variants.
type DocumentKind string

const (
	KindInvoice       DocumentKind = "INVOICE"
	KindPurchaseOrder DocumentKind = "PURCHASE_ORDER"
	KindCreditNote    DocumentKind = "CREDIT_NOTE"
)

// FinancialDocument is an invoice, purchase order or credit note: a document
// with line items, an append-only status history and an approval workflow.
// All workflow predicates operate on the already-loaded relations so that a
// single request sees one consistent snapshot.
type FinancialDocument struct {
	DocumentID               string         `json:"documentID"`
	Kind                     DocumentKind   `json:"kind"`
	Number                   string         `json:"number"`
	LocationID               string         `json:"locationID"`
	AccountingOrganizationID string         `json:"accountingOrganizationID"`
	RecipientContactID       string         `json:"recipientContactID"`
	JobID                    *string        `json:"jobID"`
	Date                     time.Time      `json:"date"`
	DueAt                    *time.Time     `json:"dueAt"` // Invoices only
	Notes                    string         `json:"notes"`
	LockedAt                 *time.Time     `json:"lockedAt"`
	Items                    []DocumentItem `json:"items"`
	Statuses                 []StatusEntry  `json:"statuses"`
	ApproveRequests          []ApproveRequest
	Payments                 []PaymentAllocation // Invoices only
	AuditFields
}

// SubTotalAmount sums the subtotals of the loaded items.
func (d *FinancialDocument) SubTotalAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Subtotal(d.Kind))
	}
	return sum
}

// TaxesAmount sums the tax of the loaded items.
func (d *FinancialDocument) TaxesAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.TaxAmount(d.Kind))
	}
	return sum
}

// TotalAmount is subtotal plus taxes.
func (d *FinancialDocument) TotalAmount() decimal.Decimal {
	return d.SubTotalAmount().Add(d.TaxesAmount())
}

// LatestStatus returns the most recent persisted status, defaulting to draft
// when no status row exists yet.
func (d *FinancialDocument) LatestStatus() DocumentStatus {
	return LatestStatus(d.Statuses)
}

// IsLocked reports whether the end-of-period sweep has locked this document.
func (d *FinancialDocument) IsLocked() bool {
	return d.LockedAt != nil
}

// CanBeApproved reports whether the document may transition to APPROVED.
// Invoices always can; purchase orders and credit notes require a non-zero
// total, checked with exact decimal equality.
func (d *FinancialDocument) CanBeApproved() bool {
	if d.Kind == KindInvoice {
		return true
	}
	return !d.TotalAmount().IsZero()
}

// CanBeModified reports whether the document is still editable: not locked and
// latest status is draft.
func (d *FinancialDocument) CanBeModified() bool {
	return !d.IsLocked() && d.LatestStatus() == StatusDraft
}

// CanBeDeleted reports whether the document may be removed: editable and no
// approve requests at all, resolved or not.
func (d *FinancialDocument) CanBeDeleted() bool {
	return d.CanBeModified() && len(d.ApproveRequests) == 0
}

// HasUnresolvedApproveRequests reports whether any approve request is still
// waiting on its approver.
func (d *FinancialDocument) HasUnresolvedApproveRequests() bool {
	for _, req := range d.ApproveRequests {
		if !req.IsResolved() {
			return true
		}
	}
	return false
}

// LockUp sets LockedAt once. It reports whether anything changed so callers
// know to persist; a second call is a no-op.
func (d *FinancialDocument) LockUp(now time.Time) bool {
	if d.LockedAt != nil {
		return false
	}
	d.LockedAt = &now
	return true
}

// TotalPaid sums the allocation amounts of all linked payments.
func (d *FinancialDocument) TotalPaid() decimal.Decimal {
	sum := decimal.Zero
	for _, alloc := range d.Payments {
		sum = sum.Add(alloc.Amount)
	}
	return sum
}

// AmountDue is the total amount less the total paid.
func (d *FinancialDocument) AmountDue() decimal.Decimal {
	return d.TotalAmount().Sub(d.TotalPaid())
}

// IsPaidInFull reports whether payments exactly cover the total.
func (d *FinancialDocument) IsPaidInFull() bool {
	return d.TotalAmount().Equal(d.TotalPaid())
}

// IsOverdue reports whether the due date has passed. Documents without a due
// date are never overdue.
func (d *FinancialDocument) IsOverdue(now time.Time) bool {
	return d.DueAt != nil && now.After(*d.DueAt)
}

// VirtualStatusAt derives the non-persisted status from the loaded relations:
// draft documents with unresolved approve requests are pending approval;
// approved invoices refine into paid, overdue or unpaid by amount due.
func (d *FinancialDocument) VirtualStatusAt(now time.Time) VirtualStatus {
	if d.LatestStatus() == StatusApproved {
		if d.Kind != KindInvoice {
			return VirtualApproved
		}
		if d.AmountDue().IsZero() {
			return VirtualPaid
		}
		if d.IsOverdue(now) {
			return VirtualOverdue
		}
		return VirtualUnpaid
	}
	if d.HasUnresolvedApproveRequests() {
		return VirtualPendingApproval
	}
	return VirtualDraft
}

// ShouldBeLockedOn reports whether the end-of-period sweep running on day
// lockDay should lock this document: not yet locked, the organization's lock
// day matches today, and the document is dated on or before now.
func (d *FinancialDocument) ShouldBeLockedOn(now time.Time, lockDayOfMonth int) bool {
	if d.IsLocked() {
		return false
	}
	if now.Day() != lockDayOfMonth {
		return false
	}
	return !d.Date.After(now)
}

package domain_test

import (
	"testing"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func draftDoc(kind domain.DocumentKind) *domain.FinancialDocument {
	return &domain.FinancialDocument{
		DocumentID: "doc-1",
		Kind:       kind,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Statuses: []domain.StatusEntry{
			{StatusID: 1, Status: domain.StatusDraft, CreatedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		},
	}
}

func approve(doc *domain.FinancialDocument) {
	last := doc.Statuses[len(doc.Statuses)-1]
	doc.Statuses = append(doc.Statuses, domain.StatusEntry{
		StatusID:  last.StatusID + 1,
		Status:    domain.StatusApproved,
		CreatedAt: last.CreatedAt.Add(time.Minute),
	})
}

func TestDocumentAmounts_SumItems(t *testing.T) {
	doc := draftDoc(domain.KindInvoice)
	doc.Items = []domain.DocumentItem{
		{Quantity: dec("2"), UnitCost: dec("100"), TaxRate: dec("0.1")},
		{Quantity: dec("1"), UnitCost: dec("50"), DiscountPercent: dec("10")},
	}

	assert.True(t, dec("245").Equal(doc.SubTotalAmount()))
	assert.True(t, dec("20").Equal(doc.TaxesAmount()))
	assert.True(t, dec("265").Equal(doc.TotalAmount()))
}

func TestCanBeApproved_InvoiceAlwaysApprovable(t *testing.T) {
	doc := draftDoc(domain.KindInvoice)

	assert.True(t, doc.CanBeApproved(), "zero-total invoice should still be approvable")
}

func TestCanBeApproved_NonInvoiceNeedsNonZeroTotal(t *testing.T) {
	po := draftDoc(domain.KindPurchaseOrder)
	assert.False(t, po.CanBeApproved())

	po.Items = []domain.DocumentItem{{Quantity: dec("1"), UnitCost: dec("10")}}
	assert.True(t, po.CanBeApproved())

	// Items that cancel out to exactly zero stay unapprovable.
	cn := draftDoc(domain.KindCreditNote)
	cn.Items = []domain.DocumentItem{
		{Quantity: dec("1"), UnitCost: dec("10")},
		{Quantity: dec("1"), UnitCost: dec("-10")},
	}
	assert.False(t, cn.CanBeApproved())
}

func TestCanBeModified(t *testing.T) {
	doc := draftDoc(domain.KindInvoice)
	assert.True(t, doc.CanBeModified())

	approve(doc)
	assert.False(t, doc.CanBeModified(), "approved documents are read-only")

	locked := draftDoc(domain.KindInvoice)
	now := time.Now().UTC()
	locked.LockedAt = &now
	assert.False(t, locked.CanBeModified(), "locked documents are read-only")
}

func TestCanBeDeleted_BlockedByAnyApproveRequest(t *testing.T) {
	doc := draftDoc(domain.KindInvoice)
	assert.True(t, doc.CanBeDeleted())

	resolvedAt := time.Now().UTC()
	doc.ApproveRequests = []domain.ApproveRequest{
		{RequesterID: "u1", ApproverID: "u2", ApprovedAt: &resolvedAt},
	}
	assert.False(t, doc.CanBeDeleted(), "even resolved approve requests block deletion")
}

func TestLockUp_Idempotent(t *testing.T) {
	doc := draftDoc(domain.KindInvoice)
	first := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	assert.True(t, doc.LockUp(first))
	assert.False(t, doc.LockUp(second))
	assert.Equal(t, first, *doc.LockedAt, "second LockUp must not move the timestamp")
}

func TestVirtualStatus_DraftAndPendingApproval(t *testing.T) {
	doc := draftDoc(domain.KindInvoice)
	now := time.Now().UTC()

	assert.Equal(t, domain.VirtualDraft, doc.VirtualStatusAt(now))

	doc.ApproveRequests = []domain.ApproveRequest{{RequesterID: "u1", ApproverID: "u2"}}
	assert.Equal(t, domain.VirtualPendingApproval, doc.VirtualStatusAt(now))

	// Resolving the request drops the document back to plain draft.
	resolvedAt := now
	doc.ApproveRequests[0].ApprovedAt = &resolvedAt
	assert.Equal(t, domain.VirtualDraft, doc.VirtualStatusAt(now))
}

func TestVirtualStatus_ApprovedNonInvoice(t *testing.T) {
	doc := draftDoc(domain.KindPurchaseOrder)
	approve(doc)

	assert.Equal(t, domain.VirtualApproved, doc.VirtualStatusAt(time.Now().UTC()))
}

func TestVirtualStatus_ApprovedInvoiceRefinesByPayment(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	doc := draftDoc(domain.KindInvoice)
	doc.Items = []domain.DocumentItem{{Quantity: dec("1"), UnitCost: dec("100")}}
	approve(doc)

	// No due date, nothing paid: unpaid.
	assert.Equal(t, domain.VirtualUnpaid, doc.VirtualStatusAt(now))

	// Past due date: overdue.
	due := now.Add(-24 * time.Hour)
	doc.DueAt = &due
	assert.Equal(t, domain.VirtualOverdue, doc.VirtualStatusAt(now))

	// Fully paid wins over overdue.
	doc.Payments = []domain.PaymentAllocation{{PaymentID: "p1", Amount: dec("100"), PaidAt: now}}
	assert.Equal(t, domain.VirtualPaid, doc.VirtualStatusAt(now))
}

func TestAmountDue_PartialPayments(t *testing.T) {
	doc := draftDoc(domain.KindInvoice)
	doc.Items = []domain.DocumentItem{{Quantity: dec("1"), UnitCost: dec("100")}}
	doc.Payments = []domain.PaymentAllocation{
		{PaymentID: "p1", Amount: dec("30")},
		{PaymentID: "p2", Amount: dec("20")},
	}

	assert.True(t, dec("50").Equal(doc.AmountDue()))
	assert.False(t, doc.IsPaidInFull())
}

func TestShouldBeLockedOn(t *testing.T) {
	now := time.Date(2025, 3, 31, 6, 0, 0, 0, time.UTC)

	doc := draftDoc(domain.KindInvoice)
	doc.Date = now.Add(-48 * time.Hour)

	assert.True(t, doc.ShouldBeLockedOn(now, 31))
	assert.False(t, doc.ShouldBeLockedOn(now, 15), "wrong lock day")

	future := draftDoc(domain.KindInvoice)
	future.Date = now.Add(48 * time.Hour)
	assert.False(t, future.ShouldBeLockedOn(now, 31), "future-dated documents stay unlocked")

	locked := draftDoc(domain.KindInvoice)
	locked.Date = now.Add(-48 * time.Hour)
	locked.LockedAt = &now
	assert.False(t, locked.ShouldBeLockedOn(now, 31), "already locked")
}

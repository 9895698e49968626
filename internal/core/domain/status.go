package domain

import "time"

// DocumentStatus is a persisted workflow status of a financial document.
type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "DRAFT"
	StatusApproved DocumentStatus = "APPROVED"
)

// VirtualStatus is the derived, non-persisted status computed from the latest
// persisted status plus approve-request and payment state.
type VirtualStatus string

const (
	VirtualDraft           VirtualStatus = "DRAFT"
	VirtualPendingApproval VirtualStatus = "PENDING_APPROVAL"
	VirtualApproved        VirtualStatus = "APPROVED"
	VirtualUnpaid          VirtualStatus = "UNPAID"
	VirtualOverdue         VirtualStatus = "OVERDUE"
	VirtualPaid            VirtualStatus = "PAID"
)

// statusTransitions is the single transition table shared by all document
// kinds. APPROVED is terminal: it has no entry, so nothing leaves it.
var statusTransitions = map[DocumentKind]map[DocumentStatus][]DocumentStatus{
	KindInvoice: {
		StatusDraft: {StatusApproved},
	},
	KindPurchaseOrder: {
		StatusDraft: {StatusApproved},
	},
	KindCreditNote: {
		StatusDraft: {StatusApproved},
	},
}

// StatusEntry is one append-only row in a document's status history.
type StatusEntry struct {
	StatusID   int64          `json:"statusID"` // Monotonic (bigserial); tiebreaker for LatestStatus
	DocumentID string         `json:"documentID"`
	UserID     *string        `json:"userID"` // Acting user; nil for system transitions
	Status     DocumentStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// CanBeChangedTo reports whether this status entry may transition to next for
// the given document kind. It is false when next equals the current status,
// when the transition table has no entry for the current status, or when next
// is not in the allowed list.
func (s StatusEntry) CanBeChangedTo(kind DocumentKind, next DocumentStatus) bool {
	if next == s.Status {
		return false
	}
	allowed, ok := statusTransitions[kind][s.Status]
	if !ok {
		return false
	}
	for _, candidate := range allowed {
		if candidate == next {
			return true
		}
	}
	return false
}

// LatestStatus picks the most recent entry by (CreatedAt, StatusID) and
// returns its status. An empty history means the document is an implicit draft.
func LatestStatus(entries []StatusEntry) DocumentStatus {
	if len(entries) == 0 {
		return StatusDraft
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if e.CreatedAt.After(latest.CreatedAt) ||
			(e.CreatedAt.Equal(latest.CreatedAt) && e.StatusID > latest.StatusID) {
			latest = e
		}
	}
	return latest.Status
}

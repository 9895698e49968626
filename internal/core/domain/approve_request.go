package domain

import "time"

// ApproveRequest is a pending request from one user (requester) to another
// (approver) to approve a financial document. The composite key is
// (RequesterID, ApproverID, DocumentID).
type ApproveRequest struct {
	RequesterID string     `json:"requesterID"`
	ApproverID  string     `json:"approverID"`
	DocumentID  string     `json:"documentID"`
	ApprovedAt  *time.Time `json:"approvedAt"` // nil while unresolved
	CreatedAt   time.Time  `json:"createdAt"`
}

// IsResolved reports whether the approver has acted on the request.
func (r ApproveRequest) IsResolved() bool {
	return r.ApprovedAt != nil
}

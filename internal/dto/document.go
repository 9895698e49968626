package dto

import (
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentItemRequest defines the payload for adding or updating a line item.
type DocumentItemRequest struct {
	Description     string          `json:"description" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost        decimal.Decimal `json:"unitCost" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	MarkupPercent   decimal.Decimal `json:"markupPercent"`
	TaxRateID       string          `json:"taxRateID"`
	GLAccountID     string          `json:"glAccountID"`
	Position        int             `json:"position"`
}

// CreateDocumentRequest defines the payload for creating a document.
type CreateDocumentRequest struct {
	Number                   string                `json:"number" binding:"required"`
	LocationID               string                `json:"locationID" binding:"required"`
	AccountingOrganizationID string                `json:"accountingOrganizationID" binding:"required"`
	RecipientContactID       string                `json:"recipientContactID" binding:"required"`
	JobID                    *string               `json:"jobID"`
	Date                     time.Time             `json:"date" binding:"required"`
	DueAt                    *time.Time            `json:"dueAt"`
	Notes                    string                `json:"notes"`
	Items                    []DocumentItemRequest `json:"items" binding:"dive"`
}

// UpdateDocumentRequest defines the payload for updating document header fields.
// Pointer fields distinguish "not provided" from zero values.
type UpdateDocumentRequest struct {
	Number             *string    `json:"number"`
	RecipientContactID *string    `json:"recipientContactID"`
	JobID              *string    `json:"jobID"`
	Date               *time.Time `json:"date"`
	DueAt              *time.Time `json:"dueAt"`
	Notes              *string    `json:"notes"`
}

// RequestApprovalRequest defines the payload for asking a user to approve.
type RequestApprovalRequest struct {
	ApproverID string `json:"approverID" binding:"required"`
}

// RecordPaymentRequest defines the payload for allocating a payment to an invoice.
type RecordPaymentRequest struct {
	PaymentID string          `json:"paymentID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	PaidAt    time.Time       `json:"paidAt" binding:"required"`
}

// DocumentItemResponse defines the data returned for a line item, with the
// derived per-line amounts included.
type DocumentItemResponse struct {
	ItemID          string          `json:"itemID"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	MarkupPercent   decimal.Decimal `json:"markupPercent"`
	TaxRateID       string          `json:"taxRateID,omitempty"`
	GLAccountID     string          `json:"glAccountID,omitempty"`
	Position        int             `json:"position"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Total           decimal.Decimal `json:"total"`
}

// StatusEntryResponse defines the data returned for one status history row.
type StatusEntryResponse struct {
	Status    string    `json:"status"`
	UserID    *string   `json:"userID,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ApproveRequestResponse defines the data returned for an approve request.
type ApproveRequestResponse struct {
	RequesterID string     `json:"requesterID"`
	ApproverID  string     `json:"approverID"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// PaymentResponse defines the data returned for a payment allocation.
type PaymentResponse struct {
	PaymentID string          `json:"paymentID"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
}

// DocumentResponse defines the full data returned for a document.
type DocumentResponse struct {
	DocumentID               string                   `json:"documentID"`
	Kind                     string                   `json:"kind"`
	Number                   string                   `json:"number"`
	LocationID               string                   `json:"locationID"`
	AccountingOrganizationID string                   `json:"accountingOrganizationID"`
	RecipientContactID       string                   `json:"recipientContactID"`
	JobID                    *string                  `json:"jobID,omitempty"`
	Date                     time.Time                `json:"date"`
	DueAt                    *time.Time               `json:"dueAt,omitempty"`
	Notes                    string                   `json:"notes,omitempty"`
	LockedAt                 *time.Time               `json:"lockedAt,omitempty"`
	Status                   string                   `json:"status"`
	VirtualStatus            string                   `json:"virtualStatus"`
	SubTotalAmount           decimal.Decimal          `json:"subTotalAmount"`
	TaxesAmount              decimal.Decimal          `json:"taxesAmount"`
	TotalAmount              decimal.Decimal          `json:"totalAmount"`
	AmountDue                decimal.Decimal          `json:"amountDue"`
	Items                    []DocumentItemResponse   `json:"items"`
	Statuses                 []StatusEntryResponse    `json:"statuses"`
	ApproveRequests          []ApproveRequestResponse `json:"approveRequests"`
	Payments                 []PaymentResponse        `json:"payments"`
	CreatedAt                time.Time                `json:"createdAt"`
	CreatedBy                string                   `json:"createdBy"`
}

// ListDocumentsResponse wraps a page of documents with the next page token.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToDocumentItemResponse converts a domain.DocumentItem to its DTO, computing
// the derived amounts for the document's kind.
func ToDocumentItemResponse(item *domain.DocumentItem, kind domain.DocumentKind) DocumentItemResponse {
	return DocumentItemResponse{
		ItemID:          item.ItemID,
		Description:     item.Description,
		Quantity:        item.Quantity,
		UnitCost:        item.UnitCost,
		DiscountPercent: item.DiscountPercent,
		MarkupPercent:   item.MarkupPercent,
		TaxRateID:       item.TaxRateID,
		GLAccountID:     item.GLAccountID,
		Position:        item.Position,
		Subtotal:        item.Subtotal(kind),
		TaxAmount:       item.TaxAmount(kind),
		Total:           item.Total(kind),
	}
}

// ToDocumentResponse converts a domain.FinancialDocument to its DTO.
func ToDocumentResponse(doc *domain.FinancialDocument, now time.Time) DocumentResponse {
	items := make([]DocumentItemResponse, len(doc.Items))
	for i := range doc.Items {
		items[i] = ToDocumentItemResponse(&doc.Items[i], doc.Kind)
	}
	statuses := make([]StatusEntryResponse, len(doc.Statuses))
	for i, s := range doc.Statuses {
		statuses[i] = StatusEntryResponse{
			Status:    string(s.Status),
			UserID:    s.UserID,
			CreatedAt: s.CreatedAt,
		}
	}
	requests := make([]ApproveRequestResponse, len(doc.ApproveRequests))
	for i, r := range doc.ApproveRequests {
		requests[i] = ApproveRequestResponse{
			RequesterID: r.RequesterID,
			ApproverID:  r.ApproverID,
			ApprovedAt:  r.ApprovedAt,
			CreatedAt:   r.CreatedAt,
		}
	}
	payments := make([]PaymentResponse, len(doc.Payments))
	for i, p := range doc.Payments {
		payments[i] = PaymentResponse{
			PaymentID: p.PaymentID,
			Amount:    p.Amount,
			PaidAt:    p.PaidAt,
		}
	}
	return DocumentResponse{
		DocumentID:               doc.DocumentID,
		Kind:                     string(doc.Kind),
		Number:                   doc.Number,
		LocationID:               doc.LocationID,
		AccountingOrganizationID: doc.AccountingOrganizationID,
		RecipientContactID:       doc.RecipientContactID,
		JobID:                    doc.JobID,
		Date:                     doc.Date,
		DueAt:                    doc.DueAt,
		Notes:                    doc.Notes,
		LockedAt:                 doc.LockedAt,
		Status:                   string(doc.LatestStatus()),
		VirtualStatus:            string(doc.VirtualStatusAt(now)),
		SubTotalAmount:           doc.SubTotalAmount(),
		TaxesAmount:              doc.TaxesAmount(),
		TotalAmount:              doc.TotalAmount(),
		AmountDue:                doc.AmountDue(),
		Items:                    items,
		Statuses:                 statuses,
		ApproveRequests:          requests,
		Payments:                 payments,
		CreatedAt:                doc.CreatedAt,
		CreatedBy:                doc.CreatedBy,
	}
}

// ToListDocumentsResponse converts a page of documents to its DTO.
func ToListDocumentsResponse(docs []domain.FinancialDocument, nextToken *string, now time.Time) ListDocumentsResponse {
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToDocumentResponse(&docs[i], now)
	}
	return ListDocumentsResponse{Documents: responses, NextToken: nextToken}
}

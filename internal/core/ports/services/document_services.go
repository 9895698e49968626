package services

import (
	"context"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/dto"
)

// DocumentReaderSvc defines read operations for financial documents.
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a document with items, status history, approve
	// requests and payments loaded.
	GetDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error)

	// ListDocuments retrieves a page of documents of one kind.
	ListDocuments(ctx context.Context, kind domain.DocumentKind, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error)
}

// DocumentWriterSvc defines create/update/delete operations for documents and
// their line items.
type DocumentWriterSvc interface {
	// CreateDocument validates and persists a new document in DRAFT status.
	CreateDocument(ctx context.Context, kind domain.DocumentKind, req dto.CreateDocumentRequest, creatorUserID string) (*domain.FinancialDocument, error)

	// UpdateDocument updates header fields of a modifiable document.
	UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.FinancialDocument, error)

	// DeleteDocument removes a deletable document.
	DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) error

	// AddItem appends a line item to a modifiable document.
	AddItem(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.DocumentItemRequest, userID string) (*domain.FinancialDocument, error)

	// UpdateItem replaces a line item's fields on a modifiable document.
	UpdateItem(ctx context.Context, kind domain.DocumentKind, documentID, itemID string, req dto.DocumentItemRequest, userID string) (*domain.FinancialDocument, error)

	// RemoveItem deletes a line item from a modifiable document.
	RemoveItem(ctx context.Context, kind domain.DocumentKind, documentID, itemID string, userID string) (*domain.FinancialDocument, error)

	// RecordPayment records a payment allocation against an approved invoice.
	RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, userID string) (*domain.FinancialDocument, error)
}

// DocumentApprovalSvc defines the approval workflow operations.
type DocumentApprovalSvc interface {
	// ApproveDocument transitions a document from DRAFT to APPROVED.
	ApproveDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) (*domain.FinancialDocument, error)

	// RequestApproval asks another user to approve a document.
	RequestApproval(ctx context.Context, kind domain.DocumentKind, documentID string, approverID string, requesterID string) error

	// ResolveApproval approves the document on behalf of a pending request and
	// stamps the request as resolved.
	ResolveApproval(ctx context.Context, kind domain.DocumentKind, documentID string, requesterID string, approverID string) (*domain.FinancialDocument, error)
}

// DocumentSvcFacade combines all document service interfaces.
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	DocumentApprovalSvc
}

// LockSweepSvc runs the periodic month-end lock sweep.
type LockSweepSvc interface {
	// RunLockSweep locks every eligible document for organizations whose lock
	// day matches now. Returns the number of documents locked.
	RunLockSweep(ctx context.Context, now time.Time) (int, error)
}

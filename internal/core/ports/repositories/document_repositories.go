package repositories

import (
	"context"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DocumentReader defines read operations for financial documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its items, status history,
	// approve requests and payment allocations fully loaded.
	FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error)

	// ListDocuments retrieves a paginated list of documents of one kind using
	// token-based pagination. Returns the documents and a token for the next page.
	ListDocuments(ctx context.Context, kind domain.DocumentKind, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error)

	// ListLockCandidates retrieves unlocked documents whose accounting
	// organization's lock day equals now's day-of-month and whose date is on or
	// before now.
	ListLockCandidates(ctx context.Context, now time.Time) ([]domain.FinancialDocument, error)
}

// DocumentWriter defines write operations for financial documents.
type DocumentWriter interface {
	// SaveDocument persists a new document header together with its items.
	SaveDocument(ctx context.Context, doc domain.FinancialDocument) error

	// UpdateDocument updates header fields of an existing document.
	UpdateDocument(ctx context.Context, doc domain.FinancialDocument) error

	// DeleteDocument removes a document and its items.
	DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string) error

	// SaveItem inserts a line item.
	SaveItem(ctx context.Context, item domain.DocumentItem) error

	// UpdateItem updates a line item.
	UpdateItem(ctx context.Context, item domain.DocumentItem) error

	// DeleteItem removes a line item.
	DeleteItem(ctx context.Context, documentID, itemID string) error

	// MarkLocked sets locked_at once; rows already locked are left untouched.
	// Reports whether the row transitioned from unlocked to locked.
	MarkLocked(ctx context.Context, documentID string, lockedAt time.Time) (bool, error)

	// SavePaymentAllocation links a payment amount to an invoice.
	SavePaymentAllocation(ctx context.Context, alloc domain.PaymentAllocation) error
}

// DocumentStatusWriter defines the transactional status-transition operations.
// Both methods must be called inside the same database transaction so the row
// lock taken by FindDocumentForUpdate covers the status append.
type DocumentStatusWriter interface {
	// FindDocumentForUpdate loads the document, its items and its status
	// history with a FOR UPDATE row lock.
	FindDocumentForUpdate(ctx context.Context, tx pgx.Tx, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error)

	// AppendStatusInTx appends a status history row and returns its generated ID.
	AppendStatusInTx(ctx context.Context, tx pgx.Tx, entry domain.StatusEntry) (int64, error)
}

// ApproveRequestWriter defines write operations for approve requests.
type ApproveRequestWriter interface {
	// SaveApproveRequest inserts an approve request keyed by
	// (requester, approver, document).
	SaveApproveRequest(ctx context.Context, req domain.ApproveRequest) error

	// ResolveApproveRequestInTx stamps approved_at on an unresolved request
	// within the caller's transaction; ErrNotFound when no pending request
	// matches.
	ResolveApproveRequestInTx(ctx context.Context, tx pgx.Tx, requesterID, approverID, documentID string, approvedAt time.Time) error

	// DeleteApproveRequestsForDocument removes all requests for a document.
	DeleteApproveRequestsForDocument(ctx context.Context, documentID string) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	DocumentStatusWriter
	ApproveRequestWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction capabilities.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/core/ports/platform"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// documentSvc implements the document workflow for one document kind. The
// same implementation backs invoices, purchase orders and credit notes; only
// the kind differs.
type documentSvc struct {
	kind          domain.DocumentKind
	documentRepo  portsrepo.DocumentRepositoryWithTx
	taxRateRepo   portsrepo.TaxRateRepositoryFacade
	glAccountRepo portsrepo.GLAccountRepositoryFacade
	userRepo      portsrepo.UserReader
	searchIndex   platform.SearchIndexer
	dispatcher    platform.EventDispatcher
}

func newDocumentService(kind domain.DocumentKind, repos portsrepo.RepositoryProvider, searchIndex platform.SearchIndexer, dispatcher platform.EventDispatcher) portssvc.DocumentSvcFacade {
	return &documentSvc{
		kind:          kind,
		documentRepo:  repos.DocumentRepo,
		taxRateRepo:   repos.TaxRateRepo,
		glAccountRepo: repos.GLAccountRepo,
		userRepo:      repos.UserRepo,
		searchIndex:   searchIndex,
		dispatcher:    dispatcher,
	}
}

// NewInvoiceService creates the document service for invoices.
func NewInvoiceService(repos portsrepo.RepositoryProvider, searchIndex platform.SearchIndexer, dispatcher platform.EventDispatcher) portssvc.DocumentSvcFacade {
	return newDocumentService(domain.KindInvoice, repos, searchIndex, dispatcher)
}

// NewPurchaseOrderService creates the document service for purchase orders.
func NewPurchaseOrderService(repos portsrepo.RepositoryProvider, searchIndex platform.SearchIndexer, dispatcher platform.EventDispatcher) portssvc.DocumentSvcFacade {
	return newDocumentService(domain.KindPurchaseOrder, repos, searchIndex, dispatcher)
}

// NewCreditNoteService creates the document service for credit notes.
func NewCreditNoteService(repos portsrepo.RepositoryProvider, searchIndex platform.SearchIndexer, dispatcher platform.EventDispatcher) portssvc.DocumentSvcFacade {
	return newDocumentService(domain.KindCreditNote, repos, searchIndex, dispatcher)
}

var _ portssvc.DocumentSvcFacade = (*documentSvc)(nil)

// GetDocumentByID retrieves a document with its relations loaded.
func (s *documentSvc) GetDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error) {
	return s.documentRepo.FindDocumentByID(ctx, kind, documentID)
}

// ListDocuments retrieves a page of documents of one kind.
func (s *documentSvc) ListDocuments(ctx context.Context, kind domain.DocumentKind, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.documentRepo.ListDocuments(ctx, kind, limit, nextToken)
}

// CreateDocument validates and persists a new document in DRAFT status.
func (s *documentSvc) CreateDocument(ctx context.Context, kind domain.DocumentKind, req dto.CreateDocumentRequest, creatorUserID string) (*domain.FinancialDocument, error) {
	if kind != domain.KindInvoice && req.DueAt != nil {
		return nil, fmt.Errorf("%w: due date applies to invoices only", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	documentID := uuid.NewString()

	items, err := s.buildItems(ctx, documentID, req.Items, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	doc := domain.FinancialDocument{
		DocumentID:               documentID,
		Kind:                     kind,
		Number:                   req.Number,
		LocationID:               req.LocationID,
		AccountingOrganizationID: req.AccountingOrganizationID,
		RecipientContactID:       req.RecipientContactID,
		JobID:                    req.JobID,
		Date:                     req.Date,
		DueAt:                    req.DueAt,
		Notes:                    req.Notes,
		Items:                    items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}

	// The initial DRAFT row makes the history explicit from the start.
	tx, err := s.documentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.documentRepo.Rollback(ctx, tx)
	statusID, err := s.documentRepo.AppendStatusInTx(ctx, tx, domain.StatusEntry{
		DocumentID: documentID,
		UserID:     &creatorUserID,
		Status:     domain.StatusDraft,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.documentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	doc.Statuses = append(doc.Statuses, domain.StatusEntry{
		StatusID:   statusID,
		DocumentID: documentID,
		UserID:     &creatorUserID,
		Status:     domain.StatusDraft,
		CreatedAt:  now,
	})

	s.projectAndDispatch(ctx, &doc, domain.Event{
		Kind:         domain.EventDocumentCreated,
		DocumentKind: kind,
		DocumentID:   documentID,
		JobID:        doc.JobID,
		ActorUserID:  creatorUserID,
		OccurredAt:   now,
	})

	return &doc, nil
}

// buildItems validates the requested line items, denormalizes the tax rate
// fraction and verifies referenced GL accounts.
func (s *documentSvc) buildItems(ctx context.Context, documentID string, reqs []dto.DocumentItemRequest, userID string, now time.Time) ([]domain.DocumentItem, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	var taxRateIDs, glAccountIDs []string
	for _, req := range reqs {
		if err := validateItemRequest(req); err != nil {
			return nil, err
		}
		if req.TaxRateID != "" {
			taxRateIDs = append(taxRateIDs, req.TaxRateID)
		}
		if req.GLAccountID != "" {
			glAccountIDs = append(glAccountIDs, req.GLAccountID)
		}
	}

	taxRates := map[string]domain.TaxRate{}
	if len(taxRateIDs) > 0 {
		var err error
		taxRates, err = s.taxRateRepo.FindTaxRatesByIDs(ctx, taxRateIDs)
		if err != nil {
			return nil, err
		}
	}
	glAccounts := map[string]domain.GLAccount{}
	if len(glAccountIDs) > 0 {
		var err error
		glAccounts, err = s.glAccountRepo.FindGLAccountsByIDs(ctx, glAccountIDs)
		if err != nil {
			return nil, err
		}
	}

	items := make([]domain.DocumentItem, 0, len(reqs))
	for i, req := range reqs {
		item := domain.DocumentItem{
			ItemID:          uuid.NewString(),
			DocumentID:      documentID,
			Description:     req.Description,
			Quantity:        req.Quantity,
			UnitCost:        req.UnitCost,
			DiscountPercent: req.DiscountPercent,
			MarkupPercent:   req.MarkupPercent,
			TaxRateID:       req.TaxRateID,
			GLAccountID:     req.GLAccountID,
			Position:        req.Position,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if item.Position == 0 {
			item.Position = i + 1
		}
		if req.TaxRateID != "" {
			rate, ok := taxRates[req.TaxRateID]
			if !ok || !rate.IsActive {
				return nil, fmt.Errorf("%w: tax rate %s not found or inactive", apperrors.ErrValidation, req.TaxRateID)
			}
			item.TaxRate = rate.Rate
		}
		if req.GLAccountID != "" {
			account, ok := glAccounts[req.GLAccountID]
			if !ok || !account.IsActive {
				return nil, fmt.Errorf("%w: GL account %s not found or inactive", apperrors.ErrValidation, req.GLAccountID)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func validateItemRequest(req dto.DocumentItemRequest) error {
	if !req.Quantity.IsPositive() {
		return fmt.Errorf("%w: item quantity must be positive", apperrors.ErrValidation)
	}
	if req.UnitCost.IsNegative() {
		return fmt.Errorf("%w: item unit cost must not be negative", apperrors.ErrValidation)
	}
	if req.DiscountPercent.IsNegative() || req.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: discount percent must be between 0 and 100", apperrors.ErrValidation)
	}
	if req.MarkupPercent.IsNegative() {
		return fmt.Errorf("%w: markup percent must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// UpdateDocument updates header fields of a modifiable document.
func (s *documentSvc) UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.FinancialDocument, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.CanBeModified() {
		return nil, fmt.Errorf("%w: document %s is not modifiable", apperrors.ErrConflict, documentID)
	}
	if kind != domain.KindInvoice && req.DueAt != nil {
		return nil, fmt.Errorf("%w: due date applies to invoices only", apperrors.ErrValidation)
	}

	if req.Number != nil {
		doc.Number = *req.Number
	}
	if req.RecipientContactID != nil {
		doc.RecipientContactID = *req.RecipientContactID
	}
	if req.JobID != nil {
		doc.JobID = req.JobID
	}
	if req.Date != nil {
		doc.Date = *req.Date
	}
	if req.DueAt != nil {
		doc.DueAt = req.DueAt
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	now := time.Now().UTC()
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = userID

	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		return nil, err
	}

	s.projectAndDispatch(ctx, doc, domain.Event{
		Kind:         domain.EventDocumentUpdated,
		DocumentKind: kind,
		DocumentID:   documentID,
		JobID:        doc.JobID,
		ActorUserID:  userID,
		OccurredAt:   now,
	})
	return doc, nil
}

// DeleteDocument removes a deletable document.
func (s *documentSvc) DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) error {
	doc, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return err
	}
	if !doc.CanBeDeleted() {
		return fmt.Errorf("%w: document %s cannot be deleted", apperrors.ErrConflict, documentID)
	}

	if err := s.documentRepo.DeleteDocument(ctx, kind, documentID); err != nil {
		return err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.searchIndex.RemoveDocument(ctx, documentID); err != nil {
		logger.Error("Failed to remove document from search index", "document_id", documentID, "error", err)
	}
	s.dispatcher.Dispatch(ctx, domain.Event{
		Kind:         domain.EventDocumentDeleted,
		DocumentKind: kind,
		DocumentID:   documentID,
		JobID:        doc.JobID,
		ActorUserID:  userID,
		OccurredAt:   time.Now().UTC(),
	})
	return nil
}

// AddItem appends a line item to a modifiable document.
func (s *documentSvc) AddItem(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.DocumentItemRequest, userID string) (*domain.FinancialDocument, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.CanBeModified() {
		return nil, fmt.Errorf("%w: document %s is not modifiable", apperrors.ErrConflict, documentID)
	}

	now := time.Now().UTC()
	if req.Position == 0 {
		req.Position = len(doc.Items) + 1
	}
	items, err := s.buildItems(ctx, documentID, []dto.DocumentItemRequest{req}, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.documentRepo.SaveItem(ctx, items[0]); err != nil {
		return nil, err
	}

	return s.reloadAfterItemChange(ctx, kind, documentID, userID, domain.EventItemAdded, now)
}

// UpdateItem replaces a line item's fields on a modifiable document.
func (s *documentSvc) UpdateItem(ctx context.Context, kind domain.DocumentKind, documentID, itemID string, req dto.DocumentItemRequest, userID string) (*domain.FinancialDocument, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.CanBeModified() {
		return nil, fmt.Errorf("%w: document %s is not modifiable", apperrors.ErrConflict, documentID)
	}

	var existing *domain.DocumentItem
	for i := range doc.Items {
		if doc.Items[i].ItemID == itemID {
			existing = &doc.Items[i]
			break
		}
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: item %s not found on document %s", apperrors.ErrNotFound, itemID, documentID)
	}

	now := time.Now().UTC()
	if req.Position == 0 {
		req.Position = existing.Position
	}
	items, err := s.buildItems(ctx, documentID, []dto.DocumentItemRequest{req}, userID, now)
	if err != nil {
		return nil, err
	}
	item := items[0]
	item.ItemID = itemID
	item.CreatedAt = existing.CreatedAt
	item.CreatedBy = existing.CreatedBy

	if err := s.documentRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return s.reloadAfterItemChange(ctx, kind, documentID, userID, domain.EventItemUpdated, now)
}

// RemoveItem deletes a line item from a modifiable document.
func (s *documentSvc) RemoveItem(ctx context.Context, kind domain.DocumentKind, documentID, itemID string, userID string) (*domain.FinancialDocument, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.CanBeModified() {
		return nil, fmt.Errorf("%w: document %s is not modifiable", apperrors.ErrConflict, documentID)
	}

	if err := s.documentRepo.DeleteItem(ctx, documentID, itemID); err != nil {
		return nil, err
	}

	return s.reloadAfterItemChange(ctx, kind, documentID, userID, domain.EventItemRemoved, time.Now().UTC())
}

func (s *documentSvc) reloadAfterItemChange(ctx context.Context, kind domain.DocumentKind, documentID, userID string, eventKind domain.EventKind, now time.Time) (*domain.FinancialDocument, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}
	s.projectAndDispatch(ctx, doc, domain.Event{
		Kind:         eventKind,
		DocumentKind: kind,
		DocumentID:   documentID,
		JobID:        doc.JobID,
		ActorUserID:  userID,
		OccurredAt:   now,
	})
	return doc, nil
}

// RecordPayment records a payment allocation against an approved invoice.
func (s *documentSvc) RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, userID string) (*domain.FinancialDocument, error) {
	if s.kind != domain.KindInvoice {
		return nil, fmt.Errorf("%w: payments apply to invoices only", apperrors.ErrValidation)
	}
	doc, err := s.documentRepo.FindDocumentByID(ctx, domain.KindInvoice, documentID)
	if err != nil {
		return nil, err
	}
	if doc.LatestStatus() != domain.StatusApproved {
		return nil, fmt.Errorf("%w: invoice %s is not approved", apperrors.ErrConflict, documentID)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if req.Amount.GreaterThan(doc.AmountDue()) {
		return nil, fmt.Errorf("%w: payment amount exceeds amount due", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	alloc := domain.PaymentAllocation{
		PaymentID:  req.PaymentID,
		DocumentID: documentID,
		Amount:     req.Amount,
		PaidAt:     req.PaidAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.documentRepo.SavePaymentAllocation(ctx, alloc); err != nil {
		return nil, err
	}

	return s.reloadAfterItemChange(ctx, domain.KindInvoice, documentID, userID, domain.EventDocumentUpdated, now)
}

// ApproveDocument transitions a document from DRAFT to APPROVED. The row lock
// plus in-transaction history re-read means that of two concurrent approvers
// exactly one succeeds; the other sees APPROVED already latest and conflicts.
func (s *documentSvc) ApproveDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) (*domain.FinancialDocument, error) {
	now := time.Now().UTC()

	tx, err := s.documentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.documentRepo.Rollback(ctx, tx)

	doc, err := s.documentRepo.FindDocumentForUpdate(ctx, tx, kind, documentID)
	if err != nil {
		return nil, err
	}
	if err := ensureApprovable(doc, kind); err != nil {
		return nil, err
	}

	if _, err := s.documentRepo.AppendStatusInTx(ctx, tx, domain.StatusEntry{
		DocumentID: documentID,
		UserID:     &userID,
		Status:     domain.StatusApproved,
		CreatedAt:  now,
	}); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	full, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}
	s.projectAndDispatch(ctx, full, domain.Event{
		Kind:         domain.EventDocumentApproved,
		DocumentKind: kind,
		DocumentID:   documentID,
		JobID:        full.JobID,
		ActorUserID:  userID,
		OccurredAt:   now,
	})
	return full, nil
}

// RequestApproval asks another user to approve a draft document.
func (s *documentSvc) RequestApproval(ctx context.Context, kind domain.DocumentKind, documentID string, approverID string, requesterID string) error {
	if approverID == requesterID {
		return fmt.Errorf("%w: cannot request approval from yourself", apperrors.ErrValidation)
	}

	doc, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return err
	}
	if doc.LatestStatus() != domain.StatusDraft {
		return fmt.Errorf("%w: document %s is not in draft", apperrors.ErrConflict, documentID)
	}
	if doc.IsLocked() {
		return fmt.Errorf("%w: document %s is locked", apperrors.ErrConflict, documentID)
	}
	if _, err := s.userRepo.FindUserByID(ctx, approverID); err != nil {
		return fmt.Errorf("%w: approver %s not found", apperrors.ErrValidation, approverID)
	}

	now := time.Now().UTC()
	if err := s.documentRepo.SaveApproveRequest(ctx, domain.ApproveRequest{
		RequesterID: requesterID,
		ApproverID:  approverID,
		DocumentID:  documentID,
		CreatedAt:   now,
	}); err != nil {
		return err
	}

	s.dispatcher.Dispatch(ctx, domain.Event{
		Kind:         domain.EventApprovalRequested,
		DocumentKind: kind,
		DocumentID:   documentID,
		JobID:        doc.JobID,
		ActorUserID:  requesterID,
		OccurredAt:   now,
	})
	// Pending approval shows up as a virtual status, so reproject.
	if full, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID); err == nil {
		s.project(ctx, full)
	}
	return nil
}

// ResolveApproval approves the document on behalf of a pending request. The
// request is stamped resolved in the same transaction as the APPROVED status
// append: a request that cannot be resolved rolls back the approval with it.
func (s *documentSvc) ResolveApproval(ctx context.Context, kind domain.DocumentKind, documentID string, requesterID string, approverID string) (*domain.FinancialDocument, error) {
	now := time.Now().UTC()

	tx, err := s.documentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.documentRepo.Rollback(ctx, tx)

	doc, err := s.documentRepo.FindDocumentForUpdate(ctx, tx, kind, documentID)
	if err != nil {
		return nil, err
	}
	if err := ensureApprovable(doc, kind); err != nil {
		return nil, err
	}
	if err := s.documentRepo.ResolveApproveRequestInTx(ctx, tx, requesterID, approverID, documentID, now); err != nil {
		return nil, err
	}
	if _, err := s.documentRepo.AppendStatusInTx(ctx, tx, domain.StatusEntry{
		DocumentID: documentID,
		UserID:     &approverID,
		Status:     domain.StatusApproved,
		CreatedAt:  now,
	}); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	full, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}
	s.projectAndDispatch(ctx, full,
		domain.Event{
			Kind:         domain.EventDocumentApproved,
			DocumentKind: kind,
			DocumentID:   documentID,
			JobID:        full.JobID,
			ActorUserID:  approverID,
			OccurredAt:   now,
		},
		domain.Event{
			Kind:         domain.EventApprovalResolved,
			DocumentKind: kind,
			DocumentID:   documentID,
			JobID:        full.JobID,
			ActorUserID:  approverID,
			OccurredAt:   now,
		},
	)
	return full, nil
}

// ensureApprovable validates the row-locked snapshot before an APPROVED
// status append.
func ensureApprovable(doc *domain.FinancialDocument, kind domain.DocumentKind) error {
	if doc.IsLocked() {
		return fmt.Errorf("%w: document %s is locked", apperrors.ErrConflict, doc.DocumentID)
	}
	if !doc.CanBeApproved() {
		return fmt.Errorf("%w: document %s has zero total and cannot be approved", apperrors.ErrValidation, doc.DocumentID)
	}
	current := domain.StatusEntry{Status: doc.LatestStatus()}
	if !current.CanBeChangedTo(kind, domain.StatusApproved) {
		return fmt.Errorf("%w: document %s cannot transition from %s to %s", apperrors.ErrConflict, doc.DocumentID, current.Status, domain.StatusApproved)
	}
	return nil
}

// project pushes the search projection; failures are logged, never returned.
// The database is the source of truth, the index catches up on the next write.
func (s *documentSvc) project(ctx context.Context, doc *domain.FinancialDocument) {
	if err := s.searchIndex.IndexDocument(ctx, doc.SearchProjection(time.Now().UTC())); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to index document", "document_id", doc.DocumentID, "error", err)
	}
}

func (s *documentSvc) projectAndDispatch(ctx context.Context, doc *domain.FinancialDocument, events ...domain.Event) {
	s.project(ctx, doc)
	s.dispatcher.Dispatch(ctx, events...)
}

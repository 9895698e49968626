package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/core/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockDocumentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockDocumentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, documentID)
	var doc *domain.FinancialDocument
	if args.Get(0) != nil {
		doc = args.Get(0).(*domain.FinancialDocument)
	}
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, kind domain.DocumentKind, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error) {
	args := m.Called(ctx, kind, limit, nextToken)
	var docs []domain.FinancialDocument
	if args.Get(0) != nil {
		docs = args.Get(0).([]domain.FinancialDocument)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return docs, token, args.Error(2)
}

func (m *MockDocumentRepository) ListLockCandidates(ctx context.Context, now time.Time) ([]domain.FinancialDocument, error) {
	args := m.Called(ctx, now)
	var docs []domain.FinancialDocument
	if args.Get(0) != nil {
		docs = args.Get(0).([]domain.FinancialDocument)
	}
	return docs, args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.FinancialDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, doc domain.FinancialDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string) error {
	return m.Called(ctx, kind, documentID).Error(0)
}

func (m *MockDocumentRepository) SaveItem(ctx context.Context, item domain.DocumentItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockDocumentRepository) UpdateItem(ctx context.Context, item domain.DocumentItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockDocumentRepository) DeleteItem(ctx context.Context, documentID, itemID string) error {
	return m.Called(ctx, documentID, itemID).Error(0)
}

func (m *MockDocumentRepository) MarkLocked(ctx context.Context, documentID string, lockedAt time.Time) (bool, error) {
	args := m.Called(ctx, documentID, lockedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) SavePaymentAllocation(ctx context.Context, alloc domain.PaymentAllocation) error {
	return m.Called(ctx, alloc).Error(0)
}

func (m *MockDocumentRepository) FindDocumentForUpdate(ctx context.Context, tx pgx.Tx, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, tx, kind, documentID)
	var doc *domain.FinancialDocument
	if args.Get(0) != nil {
		doc = args.Get(0).(*domain.FinancialDocument)
	}
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) AppendStatusInTx(ctx context.Context, tx pgx.Tx, entry domain.StatusEntry) (int64, error) {
	args := m.Called(ctx, tx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) SaveApproveRequest(ctx context.Context, req domain.ApproveRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockDocumentRepository) ResolveApproveRequestInTx(ctx context.Context, tx pgx.Tx, requesterID, approverID, documentID string, approvedAt time.Time) error {
	return m.Called(ctx, tx, requesterID, approverID, documentID, approvedAt).Error(0)
}

func (m *MockDocumentRepository) DeleteApproveRequestsForDocument(ctx context.Context, documentID string) error {
	return m.Called(ctx, documentID).Error(0)
}

var _ portsrepo.DocumentRepositoryWithTx = (*MockDocumentRepository)(nil)

// --- Mock TaxRateRepository ---
type MockTaxRateRepository struct {
	mock.Mock
}

func (m *MockTaxRateRepository) SaveTaxRate(ctx context.Context, rate domain.TaxRate) error {
	return m.Called(ctx, rate).Error(0)
}

func (m *MockTaxRateRepository) FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	args := m.Called(ctx, taxRateID)
	var rate *domain.TaxRate
	if args.Get(0) != nil {
		rate = args.Get(0).(*domain.TaxRate)
	}
	return rate, args.Error(1)
}

func (m *MockTaxRateRepository) FindTaxRatesByIDs(ctx context.Context, taxRateIDs []string) (map[string]domain.TaxRate, error) {
	args := m.Called(ctx, taxRateIDs)
	var rates map[string]domain.TaxRate
	if args.Get(0) != nil {
		rates = args.Get(0).(map[string]domain.TaxRate)
	}
	return rates, args.Error(1)
}

func (m *MockTaxRateRepository) ListTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	args := m.Called(ctx)
	var rates []domain.TaxRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]domain.TaxRate)
	}
	return rates, args.Error(1)
}

var _ portsrepo.TaxRateRepositoryFacade = (*MockTaxRateRepository)(nil)

// --- Fakes for platform ports ---
type fakeSearchIndex struct {
	indexed []domain.SearchDocument
	removed []string
	err     error
}

func (f *fakeSearchIndex) IndexDocument(ctx context.Context, doc domain.SearchDocument) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, doc)
	return nil
}

func (f *fakeSearchIndex) RemoveDocument(ctx context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, documentID)
	return nil
}

type fakeDispatcher struct {
	events []domain.Event
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, events ...domain.Event) {
	f.events = append(f.events, events...)
}

// --- Test Suite ---
type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocRepo *MockDocumentRepository
	mockTaxRepo *MockTaxRateRepository
	searchIndex *fakeSearchIndex
	dispatcher  *fakeDispatcher
	invoiceSvc  portssvc.DocumentSvcFacade
	poSvc       portssvc.DocumentSvcFacade
}

func (s *DocumentServiceTestSuite) SetupTest() {
	s.mockDocRepo = new(MockDocumentRepository)
	s.mockTaxRepo = new(MockTaxRateRepository)
	s.searchIndex = &fakeSearchIndex{}
	s.dispatcher = &fakeDispatcher{}

	repos := portsrepo.RepositoryProvider{
		DocumentRepo: s.mockDocRepo,
		TaxRateRepo:  s.mockTaxRepo,
	}
	s.invoiceSvc = services.NewInvoiceService(repos, s.searchIndex, s.dispatcher)
	s.poSvc = services.NewPurchaseOrderService(repos, s.searchIndex, s.dispatcher)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func draftDocument(kind domain.DocumentKind) *domain.FinancialDocument {
	return &domain.FinancialDocument{
		DocumentID: "doc-1",
		Kind:       kind,
		Number:     "INV-001",
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items:      []domain.DocumentItem{{ItemID: "item-1", Quantity: dec("1"), UnitCost: dec("100")}},
		Statuses: []domain.StatusEntry{
			{StatusID: 1, DocumentID: "doc-1", Status: domain.StatusDraft, CreatedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		},
	}
}

func approvedDocument(kind domain.DocumentKind) *domain.FinancialDocument {
	doc := draftDocument(kind)
	doc.Statuses = append(doc.Statuses, domain.StatusEntry{
		StatusID: 2, DocumentID: doc.DocumentID, Status: domain.StatusApproved,
		CreatedAt: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	})
	return doc
}

// --- CreateDocument ---
func (s *DocumentServiceTestSuite) TestCreateDocument_DueDateOnlyForInvoices() {
	due := time.Now().UTC()
	req := dto.CreateDocumentRequest{Number: "PO-1", Date: time.Now().UTC(), DueAt: &due}

	doc, err := s.poSvc.CreateDocument(context.Background(), domain.KindPurchaseOrder, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Nil(doc)
}

func (s *DocumentServiceTestSuite) TestCreateDocument_RejectsUnknownTaxRate() {
	req := dto.CreateDocumentRequest{
		Number: "INV-1",
		Date:   time.Now().UTC(),
		Items: []dto.DocumentItemRequest{
			{Description: "work", Quantity: dec("1"), UnitCost: dec("10"), TaxRateID: "tr-missing"},
		},
	}
	s.mockTaxRepo.On("FindTaxRatesByIDs", mock.Anything, []string{"tr-missing"}).
		Return(map[string]domain.TaxRate{}, nil).Once()

	doc, err := s.invoiceSvc.CreateDocument(context.Background(), domain.KindInvoice, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Nil(doc)
	s.mockTaxRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestCreateDocument_Success() {
	req := dto.CreateDocumentRequest{
		Number: "INV-1",
		Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items: []dto.DocumentItemRequest{
			{Description: "work", Quantity: dec("2"), UnitCost: dec("50"), TaxRateID: "tr-1"},
		},
	}
	s.mockTaxRepo.On("FindTaxRatesByIDs", mock.Anything, []string{"tr-1"}).
		Return(map[string]domain.TaxRate{"tr-1": {TaxRateID: "tr-1", Rate: dec("0.1"), IsActive: true}}, nil).Once()
	s.mockDocRepo.On("SaveDocument", mock.Anything, mock.MatchedBy(func(doc domain.FinancialDocument) bool {
		return doc.Number == "INV-1" && len(doc.Items) == 1 && doc.Items[0].TaxRate.Equal(dec("0.1"))
	})).Return(nil).Once()
	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockDocRepo.On("AppendStatusInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.StatusEntry) bool {
		return entry.Status == domain.StatusDraft
	})).Return(int64(1), nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()

	doc, err := s.invoiceSvc.CreateDocument(context.Background(), domain.KindInvoice, req, "user-1")

	s.Require().NoError(err)
	s.Require().NotNil(doc)
	s.Equal(domain.StatusDraft, doc.LatestStatus())
	s.True(dec("110").Equal(doc.TotalAmount()))
	s.Len(s.searchIndex.indexed, 1)
	s.Require().Len(s.dispatcher.events, 1)
	s.Equal(domain.EventDocumentCreated, s.dispatcher.events[0].Kind)
	s.mockDocRepo.AssertExpectations(s.T())
}

// --- UpdateDocument ---
func (s *DocumentServiceTestSuite) TestUpdateDocument_ApprovedIsConflict() {
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(approvedDocument(domain.KindInvoice), nil).Once()

	notes := "changed"
	doc, err := s.invoiceSvc.UpdateDocument(context.Background(), domain.KindInvoice, "doc-1", dto.UpdateDocumentRequest{Notes: &notes}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Nil(doc)
}

func (s *DocumentServiceTestSuite) TestUpdateDocument_LockedIsConflict() {
	doc := draftDocument(domain.KindInvoice)
	lockedAt := time.Now().UTC()
	doc.LockedAt = &lockedAt
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(doc, nil).Once()

	notes := "changed"
	updated, err := s.invoiceSvc.UpdateDocument(context.Background(), domain.KindInvoice, "doc-1", dto.UpdateDocumentRequest{Notes: &notes}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Nil(updated)
}

// --- DeleteDocument ---
func (s *DocumentServiceTestSuite) TestDeleteDocument_BlockedByApproveRequest() {
	doc := draftDocument(domain.KindInvoice)
	doc.ApproveRequests = []domain.ApproveRequest{{RequesterID: "u1", ApproverID: "u2", DocumentID: "doc-1"}}
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(doc, nil).Once()

	err := s.invoiceSvc.DeleteDocument(context.Background(), domain.KindInvoice, "doc-1", "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *DocumentServiceTestSuite) TestDeleteDocument_Success() {
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(draftDocument(domain.KindInvoice), nil).Once()
	s.mockDocRepo.On("DeleteDocument", mock.Anything, domain.KindInvoice, "doc-1").Return(nil).Once()

	err := s.invoiceSvc.DeleteDocument(context.Background(), domain.KindInvoice, "doc-1", "user-1")

	s.Require().NoError(err)
	s.Equal([]string{"doc-1"}, s.searchIndex.removed)
	s.Require().Len(s.dispatcher.events, 1)
	s.Equal(domain.EventDocumentDeleted, s.dispatcher.events[0].Kind)
	s.mockDocRepo.AssertExpectations(s.T())
}

// --- ApproveDocument ---
func (s *DocumentServiceTestSuite) TestApproveDocument_Success() {
	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockDocRepo.On("FindDocumentForUpdate", mock.Anything, mock.Anything, domain.KindInvoice, "doc-1").
		Return(draftDocument(domain.KindInvoice), nil).Once()
	s.mockDocRepo.On("AppendStatusInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.StatusEntry) bool {
		return entry.Status == domain.StatusApproved && entry.DocumentID == "doc-1"
	})).Return(int64(2), nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(approvedDocument(domain.KindInvoice), nil).Once()

	doc, err := s.invoiceSvc.ApproveDocument(context.Background(), domain.KindInvoice, "doc-1", "approver-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, doc.LatestStatus())
	s.Require().Len(s.dispatcher.events, 1)
	s.Equal(domain.EventDocumentApproved, s.dispatcher.events[0].Kind)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestApproveDocument_AlreadyApprovedIsConflict() {
	// The in-transaction re-read is what stops the second of two concurrent
	// approvers: it sees APPROVED already latest.
	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockDocRepo.On("FindDocumentForUpdate", mock.Anything, mock.Anything, domain.KindInvoice, "doc-1").
		Return(approvedDocument(domain.KindInvoice), nil).Once()
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	doc, err := s.invoiceSvc.ApproveDocument(context.Background(), domain.KindInvoice, "doc-1", "approver-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Nil(doc)
	s.mockDocRepo.AssertNotCalled(s.T(), "AppendStatusInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestApproveDocument_LockedIsConflict() {
	doc := draftDocument(domain.KindInvoice)
	lockedAt := time.Now().UTC()
	doc.LockedAt = &lockedAt
	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockDocRepo.On("FindDocumentForUpdate", mock.Anything, mock.Anything, domain.KindInvoice, "doc-1").
		Return(doc, nil).Once()
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.invoiceSvc.ApproveDocument(context.Background(), domain.KindInvoice, "doc-1", "approver-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *DocumentServiceTestSuite) TestApproveDocument_PurchaseOrderUsesItemsFromLockedRead() {
	// The row-locked read is the only document state the approval sees, so the
	// items it carries decide the total check. A draft purchase order with a
	// persisted 100.00 item must approve.
	doc := draftDocument(domain.KindPurchaseOrder)
	s.Require().True(dec("100").Equal(doc.TotalAmount()))

	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockDocRepo.On("FindDocumentForUpdate", mock.Anything, mock.Anything, domain.KindPurchaseOrder, "doc-1").
		Return(doc, nil).Once()
	s.mockDocRepo.On("AppendStatusInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.StatusEntry) bool {
		return entry.Status == domain.StatusApproved
	})).Return(int64(2), nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindPurchaseOrder, "doc-1").
		Return(approvedDocument(domain.KindPurchaseOrder), nil).Once()

	approved, err := s.poSvc.ApproveDocument(context.Background(), domain.KindPurchaseOrder, "doc-1", "approver-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, approved.LatestStatus())
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestApproveDocument_ZeroTotalPurchaseOrderRejected() {
	doc := draftDocument(domain.KindPurchaseOrder)
	doc.Items = nil
	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockDocRepo.On("FindDocumentForUpdate", mock.Anything, mock.Anything, domain.KindPurchaseOrder, "doc-1").
		Return(doc, nil).Once()
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.poSvc.ApproveDocument(context.Background(), domain.KindPurchaseOrder, "doc-1", "approver-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- ResolveApproval ---
func (s *DocumentServiceTestSuite) TestResolveApproval_Success() {
	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockDocRepo.On("FindDocumentForUpdate", mock.Anything, mock.Anything, domain.KindInvoice, "doc-1").
		Return(draftDocument(domain.KindInvoice), nil).Once()
	s.mockDocRepo.On("ResolveApproveRequestInTx", mock.Anything, mock.Anything, "requester-1", "approver-1", "doc-1", mock.Anything).
		Return(nil).Once()
	s.mockDocRepo.On("AppendStatusInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.StatusEntry) bool {
		return entry.Status == domain.StatusApproved && *entry.UserID == "approver-1"
	})).Return(int64(2), nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(approvedDocument(domain.KindInvoice), nil).Once()

	doc, err := s.invoiceSvc.ResolveApproval(context.Background(), domain.KindInvoice, "doc-1", "requester-1", "approver-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, doc.LatestStatus())
	s.Require().Len(s.dispatcher.events, 2)
	s.Equal(domain.EventDocumentApproved, s.dispatcher.events[0].Kind)
	s.Equal(domain.EventApprovalResolved, s.dispatcher.events[1].Kind)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestResolveApproval_NoPendingRequestRollsBack() {
	// A requester without a pending request must not leave the document
	// approved: the status append and commit never happen.
	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockDocRepo.On("FindDocumentForUpdate", mock.Anything, mock.Anything, domain.KindInvoice, "doc-1").
		Return(draftDocument(domain.KindInvoice), nil).Once()
	s.mockDocRepo.On("ResolveApproveRequestInTx", mock.Anything, mock.Anything, "stranger", "approver-1", "doc-1", mock.Anything).
		Return(apperrors.ErrNotFound).Once()
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	doc, err := s.invoiceSvc.ResolveApproval(context.Background(), domain.KindInvoice, "doc-1", "stranger", "approver-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(doc)
	s.mockDocRepo.AssertNotCalled(s.T(), "AppendStatusInTx", mock.Anything, mock.Anything, mock.Anything)
	s.mockDocRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.Empty(s.dispatcher.events)
}

// --- RequestApproval ---
func (s *DocumentServiceTestSuite) TestRequestApproval_SelfApprovalRejected() {
	err := s.invoiceSvc.RequestApproval(context.Background(), domain.KindInvoice, "doc-1", "user-1", "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- RecordPayment ---
func (s *DocumentServiceTestSuite) TestRecordPayment_NonInvoiceRejected() {
	_, err := s.poSvc.RecordPayment(context.Background(), "doc-1", dto.RecordPaymentRequest{
		PaymentID: "p1", Amount: dec("10"), PaidAt: time.Now().UTC(),
	}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DocumentServiceTestSuite) TestRecordPayment_ExceedsAmountDue() {
	doc := approvedDocument(domain.KindInvoice)
	doc.Payments = []domain.PaymentAllocation{{PaymentID: "p0", Amount: dec("60")}}
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(doc, nil).Once()

	_, err := s.invoiceSvc.RecordPayment(context.Background(), "doc-1", dto.RecordPaymentRequest{
		PaymentID: "p1", Amount: dec("50"), PaidAt: time.Now().UTC(),
	}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockDocRepo.AssertNotCalled(s.T(), "SavePaymentAllocation", mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestRecordPayment_DraftInvoiceRejected() {
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(draftDocument(domain.KindInvoice), nil).Once()

	_, err := s.invoiceSvc.RecordPayment(context.Background(), "doc-1", dto.RecordPaymentRequest{
		PaymentID: "p1", Amount: dec("50"), PaidAt: time.Now().UTC(),
	}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

// --- Search projection resilience ---
func (s *DocumentServiceTestSuite) TestDeleteDocument_IndexFailureIsNotFatal() {
	s.searchIndex.err = context.DeadlineExceeded
	s.mockDocRepo.On("FindDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(draftDocument(domain.KindInvoice), nil).Once()
	s.mockDocRepo.On("DeleteDocument", mock.Anything, domain.KindInvoice, "doc-1").Return(nil).Once()

	err := s.invoiceSvc.DeleteDocument(context.Background(), domain.KindInvoice, "doc-1", "user-1")

	s.Require().NoError(err, "search index failures must not fail the write")
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}

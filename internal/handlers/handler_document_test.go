package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/handlers"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GetDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}
func (m *MockDocumentService) ListDocuments(ctx context.Context, kind domain.DocumentKind, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error) {
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
func (m *MockDocumentService) CreateDocument(ctx context.Context, kind domain.DocumentKind, req dto.CreateDocumentRequest, creatorUserID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}
func (m *MockDocumentService) UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}
func (m *MockDocumentService) DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) error {
	args := m.Called(ctx, kind, documentID, userID)
	return args.Error(0)
}
func (m *MockDocumentService) AddItem(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.DocumentItemRequest, userID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}
func (m *MockDocumentService) UpdateItem(ctx context.Context, kind domain.DocumentKind, documentID, itemID string, req dto.DocumentItemRequest, userID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, documentID, itemID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}
func (m *MockDocumentService) RemoveItem(ctx context.Context, kind domain.DocumentKind, documentID, itemID string, userID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, documentID, itemID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}
func (m *MockDocumentService) RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, userID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}
func (m *MockDocumentService) ApproveDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}
func (m *MockDocumentService) RequestApproval(ctx context.Context, kind domain.DocumentKind, documentID string, approverID string, requesterID string) error {
	args := m.Called(ctx, kind, documentID, approverID, requesterID)
	return args.Error(0)
}
func (m *MockDocumentService) ResolveApproval(ctx context.Context, kind domain.DocumentKind, documentID string, requesterID string, approverID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, kind, documentID, requesterID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}

var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// stubPermissionChecker grants every permission except the ones listed in
// denied.
type stubPermissionChecker struct {
	denied map[string]bool
}

func (s *stubPermissionChecker) UserHasPermission(ctx context.Context, userID string, permission string) (bool, error) {
	return !s.denied[permission], nil
}

var _ middleware.PermissionChecker = (*stubPermissionChecker)(nil)

// --- Test Suite ---
type DocumentHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockDocSvc  *MockDocumentService
	checker     *stubPermissionChecker
	jwtSecret   string
	testUserID  string
	bearerToken string
}

func (suite *DocumentHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "jobledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *DocumentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.testUserID = "user-1"
	suite.bearerToken = "Bearer " + suite.generateTestToken(suite.testUserID)

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockDocSvc = new(MockDocumentService)
	suite.checker = &stubPermissionChecker{denied: map[string]bool{}}

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterDocumentRoutes(v1, "/invoices", domain.KindInvoice, suite.mockDocSvc, suite.checker)
}

func (suite *DocumentHandlerTestSuite) serve(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", suite.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testInvoice() *domain.FinancialDocument {
	return &domain.FinancialDocument{
		DocumentID:               "doc-1",
		Kind:                     domain.KindInvoice,
		Number:                   "INV-001",
		LocationID:               "loc-1",
		AccountingOrganizationID: "org-1",
		RecipientContactID:       "contact-1",
		Date:                     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items: []domain.DocumentItem{
			{ItemID: "item-1", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(100)},
		},
		Statuses: []domain.StatusEntry{
			{StatusID: 1, DocumentID: "doc-1", Status: domain.StatusDraft, CreatedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		},
	}
}

// --- Test Cases ---

func (suite *DocumentHandlerTestSuite) TestGetDocument_Success() {
	suite.mockDocSvc.On("GetDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(testInvoice(), nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/invoices/doc-1", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.DocumentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("doc-1", resp.DocumentID)
	suite.Equal(string(domain.StatusDraft), resp.Status)
	suite.Equal(string(domain.VirtualDraft), resp.VirtualStatus)
	suite.True(resp.TotalAmount.Equal(decimal.NewFromInt(100)))
	suite.mockDocSvc.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestGetDocument_NotFound() {
	suite.mockDocSvc.On("GetDocumentByID", mock.Anything, domain.KindInvoice, "missing").
		Return(nil, fmt.Errorf("%w: document missing not found", apperrors.ErrNotFound)).Once()

	w := suite.serve(http.MethodGet, "/api/v1/invoices/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DocumentHandlerTestSuite) TestCreateDocument_Success() {
	suite.mockDocSvc.On("CreateDocument", mock.Anything, domain.KindInvoice,
		mock.MatchedBy(func(req dto.CreateDocumentRequest) bool {
			return req.Number == "INV-001" && len(req.Items) == 1
		}),
		suite.testUserID, // User ID must come from the bearer token
	).Return(testInvoice(), nil).Once()

	body := dto.CreateDocumentRequest{
		Number:                   "INV-001",
		LocationID:               "loc-1",
		AccountingOrganizationID: "org-1",
		RecipientContactID:       "contact-1",
		Date:                     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items: []dto.DocumentItemRequest{
			{Description: "Labour", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(100)},
		},
	}
	w := suite.serve(http.MethodPost, "/api/v1/invoices", body)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockDocSvc.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestCreateDocument_MissingNumberRejected() {
	body := dto.CreateDocumentRequest{
		LocationID:               "loc-1",
		AccountingOrganizationID: "org-1",
		RecipientContactID:       "contact-1",
		Date:                     time.Now().UTC(),
	}
	w := suite.serve(http.MethodPost, "/api/v1/invoices", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDocSvc.AssertNotCalled(suite.T(), "CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentHandlerTestSuite) TestApproveDocument_ConflictWhenLocked() {
	suite.mockDocSvc.On("ApproveDocument", mock.Anything, domain.KindInvoice, "doc-1", suite.testUserID).
		Return(nil, fmt.Errorf("%w: document is locked", apperrors.ErrConflict)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/invoices/doc-1/approve", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *DocumentHandlerTestSuite) TestRequestApproval_NoContent() {
	suite.mockDocSvc.On("RequestApproval", mock.Anything, domain.KindInvoice, "doc-1", "approver-1", suite.testUserID).
		Return(nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/invoices/doc-1/approve-requests",
		dto.RequestApprovalRequest{ApproverID: "approver-1"})

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockDocSvc.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestRecordPayment_ValidationMapsToBadRequest() {
	suite.mockDocSvc.On("RecordPayment", mock.Anything, "doc-1",
		mock.AnythingOfType("dto.RecordPaymentRequest"), suite.testUserID).
		Return(nil, fmt.Errorf("%w: amount exceeds the amount due", apperrors.ErrValidation)).Once()

	body := dto.RecordPaymentRequest{
		PaymentID: "pay-1",
		Amount:    decimal.NewFromInt(500),
		PaidAt:    time.Now().UTC(),
	}
	w := suite.serve(http.MethodPost, "/api/v1/invoices/doc-1/payments", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DocumentHandlerTestSuite) TestCreateDocument_ForbiddenWithoutPermission() {
	suite.checker.denied["invoices.create"] = true

	body := dto.CreateDocumentRequest{
		Number:                   "INV-001",
		LocationID:               "loc-1",
		AccountingOrganizationID: "org-1",
		RecipientContactID:       "contact-1",
		Date:                     time.Now().UTC(),
	}
	w := suite.serve(http.MethodPost, "/api/v1/invoices", body)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockDocSvc.AssertNotCalled(suite.T(), "CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentHandlerTestSuite) TestApproveDocument_ForbiddenWithoutPermission() {
	suite.checker.denied["invoices.approve"] = true

	w := suite.serve(http.MethodPost, "/api/v1/invoices/doc-1/approve", nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockDocSvc.AssertNotCalled(suite.T(), "ApproveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentHandlerTestSuite) TestGetDocument_ReadNeedsNoPermission() {
	// Guards cover mutating routes only; reads stay open to any
	// authenticated user.
	suite.checker.denied["invoices.create"] = true
	suite.checker.denied["invoices.update"] = true
	suite.mockDocSvc.On("GetDocumentByID", mock.Anything, domain.KindInvoice, "doc-1").
		Return(testInvoice(), nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/invoices/doc-1", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *DocumentHandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/invoices/doc-1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDocSvc.AssertNotCalled(suite.T(), "GetDocumentByID", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestDocumentHandler(t *testing.T) {
	suite.Run(t, new(DocumentHandlerTestSuite))
}

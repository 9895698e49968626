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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLedgerRepository is a mock for portsrepo.LedgerRepositoryFacade.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, []domain.TransactionRecord, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	var records []domain.TransactionRecord
	if args.Get(1) != nil {
		records = args.Get(1).([]domain.TransactionRecord)
	}
	return txn, records, args.Error(2)
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockLedgerRepository) ListCreditCardTransactions(ctx context.Context, organizationID string, unmatchedOnly bool) ([]domain.CreditCardTransaction, error) {
	args := m.Called(ctx, organizationID, unmatchedOnly)
	var ccts []domain.CreditCardTransaction
	if args.Get(0) != nil {
		ccts = args.Get(0).([]domain.CreditCardTransaction)
	}
	return ccts, args.Error(1)
}

func (m *MockLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, records []domain.TransactionRecord) error {
	args := m.Called(ctx, txn, records)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveCreditCardTransaction(ctx context.Context, cct domain.CreditCardTransaction) error {
	args := m.Called(ctx, cct)
	return args.Error(0)
}

// MockGLAccountRepository is a mock for portsrepo.GLAccountRepositoryFacade.
type MockGLAccountRepository struct {
	mock.Mock
}

func (m *MockGLAccountRepository) FindGLAccountByID(ctx context.Context, glAccountID string) (*domain.GLAccount, error) {
	args := m.Called(ctx, glAccountID)
	var account *domain.GLAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.GLAccount)
	}
	return account, args.Error(1)
}

func (m *MockGLAccountRepository) FindGLAccountsByIDs(ctx context.Context, glAccountIDs []string) (map[string]domain.GLAccount, error) {
	args := m.Called(ctx, glAccountIDs)
	var accounts map[string]domain.GLAccount
	if args.Get(0) != nil {
		accounts = args.Get(0).(map[string]domain.GLAccount)
	}
	return accounts, args.Error(1)
}

func (m *MockGLAccountRepository) ListGLAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.GLAccount, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	var accounts []domain.GLAccount
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.GLAccount)
	}
	return accounts, args.Error(1)
}

func (m *MockGLAccountRepository) SaveGLAccount(ctx context.Context, account domain.GLAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockGLAccountRepository) UpdateGLAccount(ctx context.Context, account domain.GLAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockGLAccountRepository) DeactivateGLAccount(ctx context.Context, glAccountID string, userID string, now time.Time) error {
	args := m.Called(ctx, glAccountID, userID, now)
	return args.Error(0)
}

// MockOrganizationRepository is a mock for portsrepo.OrganizationRepositoryFacade.
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.AccountingOrganization, error) {
	args := m.Called(ctx, organizationID)
	var org *domain.AccountingOrganization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.AccountingOrganization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizations(ctx context.Context) ([]domain.AccountingOrganization, error) {
	args := m.Called(ctx)
	var orgs []domain.AccountingOrganization
	if args.Get(0) != nil {
		orgs = args.Get(0).([]domain.AccountingOrganization)
	}
	return orgs, args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizationsWithLockDay(ctx context.Context, dayOfMonth int) ([]domain.AccountingOrganization, error) {
	args := m.Called(ctx, dayOfMonth)
	var orgs []domain.AccountingOrganization
	if args.Get(0) != nil {
		orgs = args.Get(0).([]domain.AccountingOrganization)
	}
	return orgs, args.Error(1)
}

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockGLRepo     *MockGLAccountRepository
	mockOrgRepo    *MockOrganizationRepository
	service        portssvc.LedgerSvcFacade
	ctx            context.Context
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockGLRepo = new(MockGLAccountRepository)
	s.mockOrgRepo = new(MockOrganizationRepository)
	s.ctx = context.Background()

	repos := portsrepo.RepositoryProvider{
		LedgerRepo:       s.mockLedgerRepo,
		GLAccountRepo:    s.mockGLRepo,
		OrganizationRepo: s.mockOrgRepo,
	}
	s.service = services.NewLedgerService(repos)
}

func (s *LedgerServiceTestSuite) activeOrg() *domain.AccountingOrganization {
	return &domain.AccountingOrganization{
		OrganizationID: "org-1",
		Name:           "Acme Plumbing",
		LockDayOfMonth: 28,
		IsActive:       true,
	}
}

func (s *LedgerServiceTestSuite) balancedRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		AccountingOrganizationID: "org-1",
		Date:                     time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Memo:                     "March materials",
		Records: []dto.TransactionRecordRequest{
			{GLAccountID: "gl-expense", Amount: dec("120.50"), Type: "DEBIT"},
			{GLAccountID: "gl-cash", Amount: dec("120.50"), Type: "CREDIT"},
		},
	}
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_Success() {
	s.mockOrgRepo.On("FindOrganizationByID", s.ctx, "org-1").Return(s.activeOrg(), nil).Once()
	s.mockGLRepo.On("FindGLAccountsByIDs", s.ctx, []string{"gl-expense", "gl-cash"}).
		Return(map[string]domain.GLAccount{
			"gl-expense": {GLAccountID: "gl-expense", IsActive: true},
			"gl-cash":    {GLAccountID: "gl-cash", IsActive: true},
		}, nil).Once()
	s.mockLedgerRepo.On("SaveTransaction", s.ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.AccountingOrganizationID == "org-1" &&
			txn.Amount.Equal(dec("120.50")) &&
			txn.CreatedBy == "user-1"
	}), mock.MatchedBy(func(records []domain.TransactionRecord) bool {
		return len(records) == 2 &&
			records[0].TransactionType == domain.Debit &&
			records[1].TransactionType == domain.Credit
	})).Return(nil).Once()

	txn, err := s.service.CreateTransaction(s.ctx, s.balancedRequest(), "user-1")

	s.Require().NoError(err)
	s.NotEmpty(txn.TransactionID)
	s.True(txn.Amount.Equal(dec("120.50")), "transaction amount is the debit total")
	s.mockLedgerRepo.AssertExpectations(s.T())
	s.mockGLRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_UnbalancedRejected() {
	req := s.balancedRequest()
	req.Records[1].Amount = dec("100")
	s.mockOrgRepo.On("FindOrganizationByID", s.ctx, "org-1").Return(s.activeOrg(), nil).Once()

	_, err := s.service.CreateTransaction(s.ctx, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_NeedsTwoRecords() {
	req := s.balancedRequest()
	req.Records = req.Records[:1]

	_, err := s.service.CreateTransaction(s.ctx, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockOrgRepo.AssertNotCalled(s.T(), "FindOrganizationByID", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_NonPositiveAmountRejected() {
	req := s.balancedRequest()
	req.Records[0].Amount = dec("0")
	s.mockOrgRepo.On("FindOrganizationByID", s.ctx, "org-1").Return(s.activeOrg(), nil).Once()

	_, err := s.service.CreateTransaction(s.ctx, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_UnknownOrganization() {
	s.mockOrgRepo.On("FindOrganizationByID", s.ctx, "org-1").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.CreateTransaction(s.ctx, s.balancedRequest(), "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockGLRepo.AssertNotCalled(s.T(), "FindGLAccountsByIDs", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_InactiveGLAccountRejected() {
	s.mockOrgRepo.On("FindOrganizationByID", s.ctx, "org-1").Return(s.activeOrg(), nil).Once()
	s.mockGLRepo.On("FindGLAccountsByIDs", s.ctx, []string{"gl-expense", "gl-cash"}).
		Return(map[string]domain.GLAccount{
			"gl-expense": {GLAccountID: "gl-expense", IsActive: true},
			"gl-cash":    {GLAccountID: "gl-cash", IsActive: false},
		}, nil).Once()

	_, err := s.service.CreateTransaction(s.ctx, s.balancedRequest(), "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_MissingGLAccountRejected() {
	s.mockOrgRepo.On("FindOrganizationByID", s.ctx, "org-1").Return(s.activeOrg(), nil).Once()
	s.mockGLRepo.On("FindGLAccountsByIDs", s.ctx, []string{"gl-expense", "gl-cash"}).
		Return(map[string]domain.GLAccount{
			"gl-expense": {GLAccountID: "gl-expense", IsActive: true},
		}, nil).Once()

	_, err := s.service.CreateTransaction(s.ctx, s.balancedRequest(), "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestUpdateTransaction_AlwaysImmutable() {
	err := s.service.UpdateTransaction(s.ctx, "txn-1", "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotAllowed)
}

func (s *LedgerServiceTestSuite) TestDeleteTransaction_AlwaysImmutable() {
	err := s.service.DeleteTransaction(s.ctx, "txn-1", "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotAllowed)
}

func (s *LedgerServiceTestSuite) TestListTransactions_ClampsLimit() {
	s.mockLedgerRepo.On("ListTransactions", s.ctx, "org-1", 20, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	_, _, err := s.service.ListTransactions(s.ctx, "org-1", 500, nil)

	s.Require().NoError(err)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestImportCreditCardTransaction_Success() {
	s.mockOrgRepo.On("FindOrganizationByID", s.ctx, "org-1").Return(s.activeOrg(), nil).Once()
	s.mockLedgerRepo.On("SaveCreditCardTransaction", s.ctx, mock.MatchedBy(func(cct domain.CreditCardTransaction) bool {
		return cct.CardLast4 == "4242" && cct.Amount.Equal(dec("55.10"))
	})).Return(nil).Once()

	cct, err := s.service.ImportCreditCardTransaction(s.ctx, dto.ImportCreditCardTransactionRequest{
		AccountingOrganizationID: "org-1",
		CardLast4:                "4242",
		Merchant:                 "Hardware Depot",
		Amount:                   dec("55.10"),
		PostedAt:                 time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}, "user-1")

	s.Require().NoError(err)
	s.NotEmpty(cct.CreditCardTransactionID)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestImportCreditCardTransaction_NonPositiveAmount() {
	_, err := s.service.ImportCreditCardTransaction(s.ctx, dto.ImportCreditCardTransactionRequest{
		AccountingOrganizationID: "org-1",
		CardLast4:                "4242",
		Merchant:                 "Hardware Depot",
		Amount:                   dec("-5"),
		PostedAt:                 time.Now().UTC(),
	}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveCreditCardTransaction", mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func TestNewLedgerService_ReturnsFacade(t *testing.T) {
	svc := services.NewLedgerService(portsrepo.RepositoryProvider{})
	assert.NotNil(t, svc)
}

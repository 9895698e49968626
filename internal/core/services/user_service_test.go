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
	"github.com/backofficehq/jobledger_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockUserRepository is a mock for portsrepo.UserRepositoryFacade.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderID(ctx context.Context, provider domain.AuthProviderType, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedBy string, now time.Time) error {
	args := m.Called(ctx, userID, deletedBy, now)
	return args.Error(0)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	ctx          context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.ctx = context.Background()
	s.service = services.NewUserService(portsrepo.RepositoryProvider{UserRepo: s.mockUserRepo})
}

func (s *UserServiceTestSuite) localUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)
	return &domain.User{
		UserID:       "user-1",
		Name:         "Pat",
		Email:        "pat@example.com",
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
	}
}

func (s *UserServiceTestSuite) TestCreateUser_SelfRegistrationOwnsItself() {
	s.mockUserRepo.On("SaveUser", s.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.CreatedBy == user.UserID &&
			user.AuthProvider == domain.ProviderLocal &&
			user.PasswordHash != "" &&
			user.PasswordHash != "hunter22"
	})).Return(nil).Once()

	user, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "hunter22",
	}, "")

	s.Require().NoError(err)
	s.Equal(user.UserID, user.CreatedBy)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestAuthenticateUser_Success() {
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "pat@example.com").
		Return(s.localUser("hunter22"), nil).Once()

	user, err := s.service.AuthenticateUser(s.ctx, "pat@example.com", "hunter22")

	s.Require().NoError(err)
	s.Equal("user-1", user.UserID)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "pat@example.com").
		Return(s.localUser("hunter22"), nil).Once()

	_, err := s.service.AuthenticateUser(s.ctx, "pat@example.com", "wrong")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailSameError() {
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "ghost@example.com").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.AuthenticateUser(s.ctx, "ghost@example.com", "whatever")

	// Unknown account and wrong password must be indistinguishable.
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_GoogleAccountRejected() {
	googleUser := s.localUser("unused")
	googleUser.AuthProvider = domain.ProviderGoogle
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "pat@example.com").
		Return(googleUser, nil).Once()

	_, err := s.service.AuthenticateUser(s.ctx, "pat@example.com", "unused")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestGetUserIfRefreshTokenValid_Success() {
	token := "refresh-token-value"
	expiry := time.Now().UTC().Add(time.Hour)
	user := s.localUser("hunter22")
	user.RefreshTokenHash = utils.HashRefreshToken(token)
	user.RefreshTokenExpiryTime = &expiry

	s.mockUserRepo.On("FindUserByID", s.ctx, "user-1").Return(user, nil).Once()

	got, err := s.service.GetUserIfRefreshTokenValid(s.ctx, "user-1", token)

	s.Require().NoError(err)
	s.Equal("user-1", got.UserID)
}

func (s *UserServiceTestSuite) TestGetUserIfRefreshTokenValid_WrongToken() {
	expiry := time.Now().UTC().Add(time.Hour)
	user := s.localUser("hunter22")
	user.RefreshTokenHash = utils.HashRefreshToken("stored-token")
	user.RefreshTokenExpiryTime = &expiry

	s.mockUserRepo.On("FindUserByID", s.ctx, "user-1").Return(user, nil).Once()

	_, err := s.service.GetUserIfRefreshTokenValid(s.ctx, "user-1", "other-token")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestGetUserIfRefreshTokenValid_Expired() {
	token := "refresh-token-value"
	expiry := time.Now().UTC().Add(-time.Minute)
	user := s.localUser("hunter22")
	user.RefreshTokenHash = utils.HashRefreshToken(token)
	user.RefreshTokenExpiryTime = &expiry

	s.mockUserRepo.On("FindUserByID", s.ctx, "user-1").Return(user, nil).Once()

	_, err := s.service.GetUserIfRefreshTokenValid(s.ctx, "user-1", token)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func (s *UserServiceTestSuite) googleInfo() domain.GoogleUserInfo {
	return domain.GoogleUserInfo{
		ID:            "google-sub-1",
		Email:         "pat@example.com",
		VerifiedEmail: true,
		Name:          "Pat",
	}
}

func (s *UserServiceTestSuite) TestFindOrCreateGoogleUser_ExistingProviderMatch() {
	existing := s.localUser("unused")
	existing.AuthProvider = domain.ProviderGoogle
	existing.ProviderUserID = "google-sub-1"
	s.mockUserRepo.On("FindUserByProviderID", s.ctx, domain.ProviderGoogle, "google-sub-1").
		Return(existing, nil).Once()

	user, err := s.service.FindOrCreateGoogleUser(s.ctx, s.googleInfo())

	s.Require().NoError(err)
	s.Equal("user-1", user.UserID)
	s.mockUserRepo.AssertNotCalled(s.T(), "FindUserByEmail", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestFindOrCreateGoogleUser_LinksLocalAccountByEmail() {
	s.mockUserRepo.On("FindUserByProviderID", s.ctx, domain.ProviderGoogle, "google-sub-1").
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "pat@example.com").
		Return(s.localUser("hunter22"), nil).Once()
	s.mockUserRepo.On("UpdateUser", s.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.AuthProvider == domain.ProviderGoogle && user.ProviderUserID == "google-sub-1"
	})).Return(nil).Once()

	user, err := s.service.FindOrCreateGoogleUser(s.ctx, s.googleInfo())

	s.Require().NoError(err)
	s.Equal("user-1", user.UserID)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestFindOrCreateGoogleUser_CreatesFreshUser() {
	s.mockUserRepo.On("FindUserByProviderID", s.ctx, domain.ProviderGoogle, "google-sub-1").
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "pat@example.com").
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("SaveUser", s.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.AuthProvider == domain.ProviderGoogle && user.Email == "pat@example.com"
	})).Return(nil).Once()

	user, err := s.service.FindOrCreateGoogleUser(s.ctx, s.googleInfo())

	s.Require().NoError(err)
	s.NotEmpty(user.UserID)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestFindOrCreateGoogleUser_UnverifiedEmailRejected() {
	info := s.googleInfo()
	info.VerifiedEmail = false

	_, err := s.service.FindOrCreateGoogleUser(s.ctx, info)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockUserRepo.AssertNotCalled(s.T(), "FindUserByProviderID", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

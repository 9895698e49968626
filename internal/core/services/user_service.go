package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portsrepo "github.com/backofficehq/jobledger_backend/internal/core/ports/repositories"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/backofficehq/jobledger_backend/internal/utils"
	"github.com/google/uuid"
)

type userSvc struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user service.
func NewUserService(repos portsrepo.RepositoryProvider) portssvc.UserSvcFacade {
	return &userSvc{userRepo: repos.UserRepo}
}

var _ portssvc.UserSvcFacade = (*userSvc)(nil)
var _ middleware.PermissionChecker = (*userSvc)(nil)

// CreateUser registers a new local user.
func (s *userSvc) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Permissions:  req.Permissions,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if user.CreatedBy == "" {
		// Self-registration.
		user.CreatedBy = user.UserID
		user.LastUpdatedBy = user.UserID
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userSvc) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers retrieves a page of users.
func (s *userSvc) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.ListUsers(ctx, limit, offset)
}

// UpdateUser updates a user's mutable fields.
func (s *userSvc) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updatedBy string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = updatedBy

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser soft-deletes a user.
func (s *userSvc) DeleteUser(ctx context.Context, userID string, deletedBy string) error {
	return s.userRepo.MarkUserDeleted(ctx, userID, deletedBy, time.Now().UTC())
}

// AuthenticateUser verifies email and password for local users. Failures are
// reported uniformly as ErrUnauthorized so callers cannot enumerate accounts.
func (s *userSvc) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if user.AuthProvider != domain.ProviderLocal {
		return nil, fmt.Errorf("%w: account uses %s sign-in", apperrors.ErrUnauthorized, user.AuthProvider)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	return user, nil
}

// UpdateRefreshTokenDetails stores the hashed refresh token for a user.
func (s *userSvc) UpdateRefreshTokenDetails(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, expiryTime)
}

// GetUserIfRefreshTokenValid returns the user when the presented refresh token
// matches the stored hash and has not expired.
func (s *userSvc) GetUserIfRefreshTokenValid(ctx context.Context, userID string, refreshToken string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if user.RefreshTokenHash == "" || !utils.CompareRefreshTokenHash(refreshToken, user.RefreshTokenHash) {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
	}
	if user.RefreshTokenExpiryTime == nil || time.Now().UTC().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	return user, nil
}

// FindOrCreateGoogleUser links or creates a user from a Google profile.
func (s *userSvc) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if !info.VerifiedEmail {
		return nil, fmt.Errorf("%w: google account email is not verified", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByProviderID(ctx, domain.ProviderGoogle, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Link an existing local account with a matching email before creating
	// a fresh user.
	user, err = s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		user.AuthProvider = domain.ProviderGoogle
		user.ProviderUserID = info.ID
		user.LastUpdatedAt = time.Now().UTC()
		user.LastUpdatedBy = user.UserID
		if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	created := domain.User{
		UserID:         uuid.NewString(),
		Name:           info.Name,
		Email:          info.Email,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: info.ID,
	}
	created.CreatedAt = now
	created.CreatedBy = created.UserID
	created.LastUpdatedAt = now
	created.LastUpdatedBy = created.UserID

	if err := s.userRepo.SaveUser(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UserHasPermission reports whether the user carries the named permission.
func (s *userSvc) UserHasPermission(ctx context.Context, userID string, permission string) (bool, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.HasPermission(permission), nil
}

package services

import (
	"context"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/dto"
)

// UserSvcFacade defines user management operations.
type UserSvcFacade interface {
	// CreateUser registers a new local user with a bcrypt-hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a page of users.
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// UpdateUser updates a user's mutable fields.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updatedBy string) (*domain.User, error)

	// DeleteUser soft-deletes a user.
	DeleteUser(ctx context.Context, userID string, deletedBy string) error

	// AuthenticateUser verifies email and password for local users.
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)

	// UpdateRefreshTokenDetails stores the hashed refresh token for a user.
	UpdateRefreshTokenDetails(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error

	// GetUserIfRefreshTokenValid returns the user when the presented refresh
	// token matches the stored hash and has not expired.
	GetUserIfRefreshTokenValid(ctx context.Context, userID string, refreshToken string) (*domain.User, error)

	// FindOrCreateGoogleUser links or creates a user from a Google profile.
	FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)

	// UserHasPermission reports whether the user carries the named permission.
	UserHasPermission(ctx context.Context, userID string, permission string) (bool, error)
}

// TokenSvcFacade defines JWT issuance and verification.
type TokenSvcFacade interface {
	// GenerateTokens creates a short-lived access token and a refresh token,
	// persisting the refresh token hash.
	GenerateTokens(ctx context.Context, user *domain.User) (*dto.TokenPairResponse, error)

	// RefreshTokens rotates the token pair given a valid refresh token.
	RefreshTokens(ctx context.Context, userID string, refreshToken string) (*dto.TokenPairResponse, error)

	// VerifyAccessToken validates an access token and returns the user ID.
	VerifyAccessToken(ctx context.Context, token string) (string, error)
}

// GoogleOAuthSvcFacade defines the Google sign-in flow.
type GoogleOAuthSvcFacade interface {
	// GetAuthCodeURL builds the Google consent URL with a CSRF state value.
	GetAuthCodeURL(ctx context.Context, state string) string

	// ExchangeCodeForUserInfo trades an authorization code for the user's
	// Google profile.
	ExchangeCodeForUserInfo(ctx context.Context, code string) (*domain.GoogleUserInfo, error)
}

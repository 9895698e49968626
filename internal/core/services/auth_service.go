package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/apperrors"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/backofficehq/jobledger_backend/internal/utils"
	"github.com/backofficehq/jobledger_backend/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

type tokenSvc struct {
	cfg     *config.Config
	userSvc portssvc.UserSvcFacade
}

// NewTokenService creates the token service.
func NewTokenService(cfg *config.Config, userSvc portssvc.UserSvcFacade) portssvc.TokenSvcFacade {
	return &tokenSvc{cfg: cfg, userSvc: userSvc}
}

var _ portssvc.TokenSvcFacade = (*tokenSvc)(nil)

// GenerateTokens creates an access/refresh token pair and persists the hashed
// refresh token. Only the raw refresh token ever leaves this method.
func (s *tokenSvc) GenerateTokens(ctx context.Context, user *domain.User) (*dto.TokenPairResponse, error) {
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	refreshExpiry := now.Add(s.cfg.RefreshTokenExpiryDuration)
	hash := utils.HashRefreshToken(refreshToken)
	if err := s.userSvc.UpdateRefreshTokenDetails(ctx, user.UserID, hash, &refreshExpiry); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenPairResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.cfg.JWTExpiryDuration),
		RefreshTokenExpiresAt: refreshExpiry,
	}, nil
}

// RefreshTokens rotates the token pair. The presented refresh token is
// single-use: a new one replaces its hash on success.
func (s *tokenSvc) RefreshTokens(ctx context.Context, userID string, refreshToken string) (*dto.TokenPairResponse, error) {
	user, err := s.userSvc.GetUserIfRefreshTokenValid(ctx, userID, refreshToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Refresh token rejected", "user_id", userID, "error", err)
		return nil, err
	}
	return s.GenerateTokens(ctx, user)
}

// VerifyAccessToken validates an access token and returns the subject user ID.
func (s *tokenSvc) VerifyAccessToken(ctx context.Context, token string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, err.Error())
	}
	return claims.Subject, nil
}

type googleOAuthSvc struct {
	cfg *config.Config
	// oauth2Config is configured at initialization time
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthService creates the Google sign-in service.
func NewGoogleOAuthService(cfg *config.Config) portssvc.GoogleOAuthSvcFacade {
	return &googleOAuthSvc{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

var _ portssvc.GoogleOAuthSvcFacade = (*googleOAuthSvc)(nil)

// GetAuthCodeURL builds the Google consent URL with a CSRF state value.
func (s *googleOAuthSvc) GetAuthCodeURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCodeForUserInfo trades an authorization code for the user's Google
// profile. When the exchange carries an ID token it is validated against our
// client ID before the userinfo call.
func (s *googleOAuthSvc) ExchangeCodeForUserInfo(ctx context.Context, code string) (*domain.GoogleUserInfo, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange authorization code: %s", apperrors.ErrUnauthorized, err.Error())
	}

	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		if _, err := idtoken.Validate(ctx, rawIDToken, s.cfg.GoogleClientID); err != nil {
			return nil, fmt.Errorf("%w: invalid google id token: %s", apperrors.ErrUnauthorized, err.Error())
		}
	}

	client := s.oauth2Config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned non-200 status for userinfo: %s", resp.Status)
	}

	var info domain.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode google userinfo: %w", err)
	}
	return &info, nil
}

package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/backofficehq/jobledger_backend/internal/utils"
	"github.com/backofficehq/jobledger_backend/pkg/config"
	"github.com/gin-gonic/gin"
)

const oauthStateCookieName = "oauth_state"

// authHandler handles registration, login, token refresh and Google sign-in.
type authHandler struct {
	cfg            *config.Config
	userSvc        portssvc.UserSvcFacade
	tokenSvc       portssvc.TokenSvcFacade
	googleOAuthSvc portssvc.GoogleOAuthSvcFacade
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := &authHandler{
		cfg:            cfg,
		userSvc:        services.UserSvc,
		tokenSvc:       services.TokenSvc,
		googleOAuthSvc: services.GoogleOAuthSvc,
	}

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
		auth.GET("/google/login", h.googleLogin)
		auth.GET("/google/callback", h.googleCallback)
	}
}

// register godoc
// @Summary Register a local user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), req, "")
	if err != nil {
		respondError(c, logger, err, "Failed to register user")
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userSvc.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, logger, err, "Failed to authenticate")
		return
	}

	tokens, err := h.tokenSvc.GenerateTokens(c.Request.Context(), user)
	if err != nil {
		respondError(c, logger, err, "Failed to issue tokens")
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		User:   dto.ToUserResponse(user),
		Tokens: *tokens,
	})
}

// refresh godoc
// @Summary Rotate the token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenPairResponse
// @Failure 401 {object} map[string]string "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tokens, err := h.tokenSvc.RefreshTokens(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		respondError(c, logger, err, "Failed to refresh tokens")
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// googleLogin redirects to the Google consent screen. The CSRF state value is
// mirrored in a short-lived cookie and checked on callback.
func (h *authHandler) googleLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start Google sign-in"})
		return
	}

	c.SetCookie(oauthStateCookieName, state, 600, "/", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthSvc.GetAuthCodeURL(c.Request.Context(), state))
}

// googleCallback completes the Google sign-in flow and issues a token pair.
func (h *authHandler) googleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expectedState, err := c.Cookie(oauthStateCookieName)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		logger.Warn("OAuth state mismatch on Google callback")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookieName, "", -1, "/", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	info, err := h.googleOAuthSvc.ExchangeCodeForUserInfo(c.Request.Context(), code)
	if err != nil {
		respondError(c, logger, err, "Failed to complete Google sign-in")
		return
	}

	user, err := h.userSvc.FindOrCreateGoogleUser(c.Request.Context(), *info)
	if err != nil {
		respondError(c, logger, err, "Failed to link Google account")
		return
	}

	tokens, err := h.tokenSvc.GenerateTokens(c.Request.Context(), user)
	if err != nil {
		respondError(c, logger, err, "Failed to issue tokens")
		return
	}

	logger.Info("Google sign-in completed", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		User:   dto.ToUserResponse(user),
		Tokens: *tokens,
	})
}

package handlers

import (
	"net/http"

	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// glAccountHandler handles HTTP requests for the chart of accounts.
type glAccountHandler struct {
	glAccountSvc portssvc.GLAccountSvcFacade
}

func registerGLAccountRoutes(rg *gin.RouterGroup, svc portssvc.GLAccountSvcFacade, checker middleware.PermissionChecker) {
	h := &glAccountHandler{glAccountSvc: svc}

	accounts := rg.Group("/gl-accounts")
	{
		accounts.GET("", h.listGLAccounts)
		accounts.GET("/:id", h.getGLAccount)

		manage := accounts.Group("", middleware.RequirePermission(checker, "gl-accounts.manage"))
		{
			manage.POST("", h.createGLAccount)
			manage.PUT("/:id", h.updateGLAccount)
			manage.DELETE("/:id", h.deactivateGLAccount)
		}
	}

	orgs := rg.Group("/organizations")
	{
		orgs.GET("", h.listOrganizations)
		orgs.GET("/:id", h.getOrganization)
	}
}

func (h *glAccountHandler) createGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGLAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.glAccountSvc.CreateGLAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create GL account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToGLAccountResponse(account))
}

func (h *glAccountHandler) getGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.glAccountSvc.GetGLAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve GL account")
		return
	}

	c.JSON(http.StatusOK, dto.ToGLAccountResponse(account))
}

func (h *glAccountHandler) listGLAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query struct {
		OrganizationID string `form:"organizationID" binding:"required"`
		Limit          int    `form:"limit,default=50"`
		Offset         int    `form:"offset,default=0"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.glAccountSvc.ListGLAccounts(c.Request.Context(), query.OrganizationID, query.Limit, query.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list GL accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToGLAccountResponses(accounts))
}

func (h *glAccountHandler) updateGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateGLAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.glAccountSvc.UpdateGLAccount(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update GL account")
		return
	}

	c.JSON(http.StatusOK, dto.ToGLAccountResponse(account))
}

func (h *glAccountHandler) deactivateGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.glAccountSvc.DeactivateGLAccount(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate GL account")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *glAccountHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	org, err := h.glAccountSvc.GetOrganizationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

func (h *glAccountHandler) listOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	orgs, err := h.glAccountSvc.ListOrganizations(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list organizations")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponses(orgs))
}

package handlers

import (
	"net/http"

	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type taxRateHandler struct {
	taxRateSvc portssvc.TaxRateSvcFacade
}

func registerTaxRateRoutes(rg *gin.RouterGroup, svc portssvc.TaxRateSvcFacade) {
	h := &taxRateHandler{taxRateSvc: svc}

	rates := rg.Group("/tax-rates")
	{
		rates.POST("", h.createTaxRate)
		rates.GET("", h.listTaxRates)
		rates.GET("/:id", h.getTaxRate)
	}
}

func (h *taxRateHandler) createTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rate, err := h.taxRateSvc.CreateTaxRate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create tax rate")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaxRateResponse(rate))
}

func (h *taxRateHandler) getTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rate, err := h.taxRateSvc.GetTaxRateByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve tax rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxRateResponse(rate))
}

func (h *taxRateHandler) listTaxRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.taxRateSvc.ListTaxRates(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list tax rates")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxRateResponses(rates))
}

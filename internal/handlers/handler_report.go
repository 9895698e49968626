package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportHandler serves spreadsheet exports.
type reportHandler struct {
	reportingSvc portssvc.ReportingSvcFacade
}

func registerReportRoutes(rg *gin.RouterGroup, svc portssvc.ReportingSvcFacade) {
	h := &reportHandler{reportingSvc: svc}

	reports := rg.Group("/reports")
	{
		reports.GET("/documents/:kind/export", h.exportDocuments)
	}
}

// exportDocuments godoc
// @Summary Export documents as XLSX
// @Description Streams all documents of one kind as a spreadsheet download
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param kind path string true "Document kind" Enums(invoices, purchase-orders, credit-notes)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/documents/{kind}/export [get]
func (h *reportHandler) exportDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var kind domain.DocumentKind
	switch strings.ToLower(c.Param("kind")) {
	case "invoices":
		kind = domain.KindInvoice
	case "purchase-orders":
		kind = domain.KindPurchaseOrder
	case "credit-notes":
		kind = domain.KindCreditNote
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown document kind: " + c.Param("kind")})
		return
	}

	data, err := h.reportingSvc.ExportDocumentsXLSX(c.Request.Context(), kind)
	if err != nil {
		respondError(c, logger, err, "Failed to export documents")
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", c.Param("kind"), time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

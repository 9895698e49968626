package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler handles HTTP requests for one document kind. The same
// handler serves invoices, purchase orders and credit notes; kind is fixed at
// registration time.
type documentHandler struct {
	kind        domain.DocumentKind
	documentSvc portssvc.DocumentSvcFacade
}

func newDocumentHandler(kind domain.DocumentKind, svc portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{kind: kind, documentSvc: svc}
}

// RegisterDocumentRoutes registers routes for one document kind under path.
// Mutating routes carry per-kind permission guards derived from the path, e.g.
// invoices.update for PUT /invoices/:id.
func RegisterDocumentRoutes(rg *gin.RouterGroup, path string, kind domain.DocumentKind, svc portssvc.DocumentSvcFacade, checker middleware.PermissionChecker) {
	h := newDocumentHandler(kind, svc)
	perm := strings.TrimPrefix(path, "/")

	docs := rg.Group(path)
	{
		docs.GET("", h.listDocuments)
		docs.GET("/:id", h.getDocument)

		create := docs.Group("", middleware.RequirePermission(checker, perm+".create"))
		create.POST("", h.createDocument)

		update := docs.Group("", middleware.RequirePermission(checker, perm+".update"))
		{
			update.PUT("/:id", h.updateDocument)
			update.POST("/:id/items", h.addItem)
			update.PUT("/:id/items/:itemID", h.updateItem)
			update.DELETE("/:id/items/:itemID", h.removeItem)
			update.POST("/:id/approve-requests", h.requestApproval)
		}

		remove := docs.Group("", middleware.RequirePermission(checker, perm+".delete"))
		remove.DELETE("/:id", h.deleteDocument)

		approve := docs.Group("", middleware.RequirePermission(checker, perm+".approve"))
		{
			approve.POST("/:id/approve", h.approveDocument)
			approve.POST("/:id/approve-requests/:requesterID/resolve", h.resolveApproval)
		}

		// Payments only exist for invoices.
		if kind == domain.KindInvoice {
			update.POST("/:id/payments", h.recordPayment)
		}
	}
}

// createDocument godoc
// @Summary Create a document
// @Description Creates a new document in DRAFT status with its line items
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /invoices [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentSvc.CreateDocument(c.Request.Context(), h.kind, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create document")
		return
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("kind", string(h.kind)))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// listDocuments godoc
// @Summary List documents
// @Description Retrieves a page of documents, newest first
// @Tags documents
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query struct {
		Limit     int     `form:"limit,default=20"`
		NextToken *string `form:"nextToken"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	docs, nextToken, err := h.documentSvc.ListDocuments(c.Request.Context(), h.kind, query.Limit, query.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDocumentsResponse(docs, nextToken, time.Now().UTC()))
}

// getDocument godoc
// @Summary Get a document by ID
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	doc, err := h.documentSvc.GetDocumentByID(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// updateDocument godoc
// @Summary Update document header fields
// @Description Updates a modifiable document; locked or approved documents are rejected
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param document body dto.UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Document is not modifiable"
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentSvc.UpdateDocument(c.Request.Context(), h.kind, c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// deleteDocument godoc
// @Summary Delete a document
// @Description Deletes a draft document that has never had approval requested
// @Tags documents
// @Param id path string true "Document ID"
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "Document is not deletable"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.documentSvc.DeleteDocument(c.Request.Context(), h.kind, c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete document")
		return
	}

	logger.Info("Document deleted", slog.String("document_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

func (h *documentHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DocumentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentSvc.AddItem(c.Request.Context(), h.kind, c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to add item")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

func (h *documentHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DocumentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentSvc.UpdateItem(c.Request.Context(), h.kind, c.Param("id"), c.Param("itemID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update item")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

func (h *documentHandler) removeItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentSvc.RemoveItem(c.Request.Context(), h.kind, c.Param("id"), c.Param("itemID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to remove item")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// approveDocument godoc
// @Summary Approve a document
// @Description Transitions a draft document to APPROVED
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Document is locked or already approved"
// @Security BearerAuth
// @Router /invoices/{id}/approve [post]
func (h *documentHandler) approveDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentSvc.ApproveDocument(c.Request.Context(), h.kind, c.Param("id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to approve document")
		return
	}

	logger.Info("Document approved", slog.String("document_id", doc.DocumentID), slog.String("approver_id", userID))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

func (h *documentHandler) requestApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RequestApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.documentSvc.RequestApproval(c.Request.Context(), h.kind, c.Param("id"), req.ApproverID, requesterID); err != nil {
		respondError(c, logger, err, "Failed to request approval")
		return
	}

	logger.Info("Approval requested", slog.String("document_id", c.Param("id")), slog.String("approver_id", req.ApproverID))
	c.Status(http.StatusNoContent)
}

// resolveApproval approves on behalf of a pending request. The caller is the
// approver; the requester comes from the path.
func (h *documentHandler) resolveApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentSvc.ResolveApproval(c.Request.Context(), h.kind, c.Param("id"), c.Param("requesterID"), approverID)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve approval")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// recordPayment godoc
// @Summary Record a payment against an invoice
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payment body dto.RecordPaymentRequest true "Payment allocation"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Amount exceeds the amount due"
// @Security BearerAuth
// @Router /invoices/{id}/payments [post]
func (h *documentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentSvc.RecordPayment(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christkomika7/atlas-crm-sub004/internal/middleware"
	"github.com/christkomika7/atlas-crm-sub004/internal/service"
	"github.com/christkomika7/atlas-crm-sub004/pkg/pagination"
	"github.com/christkomika7/atlas-crm-sub004/pkg/response"
)

type DocumentHandler struct {
	documentService service.DocumentService
	fileStore       service.FileStore
}

func NewDocumentHandler(documentService service.DocumentService, fileStore service.FileStore) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, fileStore: fileStore}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/api/documents")
	{
		docs.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListDocuments)
		docs.GET("/next-reference", middleware.RequireRole("admin", "manager", "staff"), h.NextReference)
		docs.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetDocument)
		docs.POST("", middleware.RequireRole("admin", "manager"), h.CreateDocument)
		docs.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateDocument)
		docs.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.DeleteDocument)
		docs.POST("/bulk-delete", middleware.RequireRole("admin", "manager"), h.BulkDeleteDocuments)
		docs.POST("/:id/duplicate", middleware.RequireRole("admin", "manager"), h.DuplicateDocument)
		docs.POST("/upload", middleware.RequireRole("admin", "manager"), h.UploadAttachment)
	}
}

// CreateDocument creates an invoice, quote, delivery note or purchase order
// @Summary      Create document
// @Description  Creates a financial document, commits its items and posts its effect on counterparty balances, project aggregates and stock
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDocumentRequest  true  "Create Document Payload"
// @Success      201      {object}  response.Response{data=model.Document}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response  "Billboard window taken or stock exhausted"
// @Router       /api/documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// ListDocuments returns a paginated list of documents of one kind
// @Summary      List documents
// @Description  Retrieves documents of a kind for a company, optionally split by settlement state
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query     string  true   "Company ID"
// @Param        kind        query     string  true   "Document kind (INVOICE, QUOTE, DELIVERY_NOTE, PURCHASE_ORDER)"
// @Param        paid        query     bool    false  "Filter on settlement state"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.DocumentFilter{
		CompanyID: c.Query("company_id"),
		Kind:      c.Query("kind"),
		Page:      params.Page,
		Limit:     params.Limit,
	}
	if paidStr := c.Query("paid"); paidStr != "" {
		paid := paidStr == "true"
		filter.Paid = &paid
	}

	docs, total, err := h.documentService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, "documents", docs, total, params))
}

// GetDocument returns one document with items, files and relations
// @Summary      Get document
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=model.Document}
// @Failure      404  {object}  response.Response
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

// UpdateDocument edits a document
// @Summary      Update document
// @Description  Replaces document content. Items and amounts are rejected once a settlement exists; a fully settled document cannot be edited at all
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Document ID"
// @Param        payload  body      service.UpdateDocumentRequest  true  "Update Document Payload"
// @Success      200      {object}  response.Response{data=model.Document}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response  "Document settled or paid"
// @Router       /api/documents/{id} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	var req service.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

// DeleteDocument removes a document and rolls back its aggregate effect
// @Summary      Delete document
// @Description  Deletes a document. Blocked with 409 while payments or transactions reference it
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Document deleted successfully"))
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// BulkDeleteDocuments removes several documents atomically
// @Summary      Bulk delete documents
// @Description  Deletes a batch of documents in one transaction: if any is blocked by a settlement, none is removed
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      bulkDeleteRequest  true  "Document IDs"
// @Success      200      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/documents/bulk-delete [post]
func (h *DocumentHandler) BulkDeleteDocuments(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.documentService.BulkDelete(c.Request.Context(), currentUserID(c), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Documents deleted successfully"))
}

// DuplicateDocument clones a document, optionally as another kind
// @Summary      Duplicate or convert document
// @Description  Clones a document under a fresh number. Lines start in IGNORE state so the clone re-commits no stock or billboard window
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true   "Source Document ID"
// @Param        payload  body      service.DuplicateDocumentRequest  false  "Target kind (defaults to same kind)"
// @Success      201      {object}  response.Response{data=model.Document}
// @Failure      404      {object}  response.Response
// @Router       /api/documents/{id}/duplicate [post]
func (h *DocumentHandler) DuplicateDocument(c *gin.Context) {
	var req service.DuplicateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.Duplicate(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// UploadAttachment stores a file and returns the path to reference in file_paths
// @Summary      Upload document attachment
// @Description  Stores an attachment and returns its storage path, to be sent back in a document's file_paths
// @Tags         documents
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Attachment"
// @Success      201   {object}  response.Response{data=object}
// @Failure      400   {object}  response.Response
// @Router       /api/documents/upload [post]
func (h *DocumentHandler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing file: "+err.Error()))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unreadable file: "+err.Error()))
		return
	}
	defer f.Close()

	path, err := h.fileStore.Save(fileHeader.Filename, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to store file: "+err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"path": path}))
}

// NextReference previews the next sequential number for a company and kind
// @Summary      Next document reference
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query     string  true  "Company ID"
// @Param        kind        query     string  true  "Document kind"
// @Success      200         {object}  response.Response{data=service.NextReferenceResponse}
// @Failure      400         {object}  response.Response
// @Router       /api/documents/next-reference [get]
func (h *DocumentHandler) NextReference(c *gin.Context) {
	next, err := h.documentService.NextReference(c.Request.Context(), c.Query("company_id"), c.Query("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, next))
}

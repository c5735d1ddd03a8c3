package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"loandesk/internal/domain"
	"loandesk/internal/service"
)

// DocumentHandler handles document verification and file endpoints.
type DocumentHandler struct {
	appService  service.ApplicationService
	fileService service.DocumentFileService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(appService service.ApplicationService, fileService service.DocumentFileService) *DocumentHandler {
	return &DocumentHandler{appService: appService, fileService: fileService}
}

// Verify handles PUT /api/applications/:id/documents/:docId/verify
// @Summary Verify a document
// @Description Approve or reject a single pending document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param docId path string true "Document ID"
// @Param request body VerifyDocumentRequest true "Verification"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 400 {object} ErrorResponseBody "Invalid verification status"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Document already finalized or application closed"
// @Security BearerAuth
// @Router /applications/{id}/documents/{docId}/verify [put]
func (h *DocumentHandler) Verify(c *gin.Context) {
	appID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	docID, ok := parseUUIDParam(c, "docId")
	if !ok {
		return
	}
	var req VerifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "verificationStatus is required")
		return
	}

	doc, err := h.appService.VerifyDocument(c.Request.Context(), &service.VerifyDocumentInput{
		ApplicationID: appID,
		DocumentID:    docID,
		Status:        domain.VerificationStatus(req.VerificationStatus),
		Comments:      req.Comments,
		PerformedBy:   performer(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Reopen handles PUT /api/applications/:id/documents/:docId/reopen
// @Summary Reopen a document
// @Description Reset a finalized document to pending so it can be verified again
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param docId path string true "Document ID"
// @Param request body ReopenDocumentRequest true "Reason"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Document still pending or application closed"
// @Failure 422 {object} ErrorResponseBody "Reason required"
// @Security BearerAuth
// @Router /applications/{id}/documents/{docId}/reopen [put]
func (h *DocumentHandler) Reopen(c *gin.Context) {
	appID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	docID, ok := parseUUIDParam(c, "docId")
	if !ok {
		return
	}
	var req ReopenDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.appService.ReopenDocument(c.Request.Context(), &service.ReopenDocumentInput{
		ApplicationID: appID,
		DocumentID:    docID,
		Reason:        req.Reason,
		PerformedBy:   performer(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Download handles GET /api/applications/:id/documents/:docId/download
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Application ID"
// @Param docId path string true "Document ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 502 {object} ErrorResponseBody "Storage unavailable"
// @Security BearerAuth
// @Router /applications/{id}/documents/{docId}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	h.serve(c, "attachment")
}

// Preview handles GET /api/applications/:id/documents/:docId/preview
// @Summary Preview a document inline
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Application ID"
// @Param docId path string true "Document ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 502 {object} ErrorResponseBody "Storage unavailable"
// @Security BearerAuth
// @Router /applications/{id}/documents/{docId}/preview [get]
func (h *DocumentHandler) Preview(c *gin.Context) {
	h.serve(c, "inline")
}

func (h *DocumentHandler) serve(c *gin.Context, disposition string) {
	appID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	docID, ok := parseUUIDParam(c, "docId")
	if !ok {
		return
	}

	file, err := h.fileService.Open(c.Request.Context(), appID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	contentType := file.Document.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	name := file.Document.OriginalName
	if name == "" {
		name = file.Document.ID.String()
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, name))
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, contentType, file.Data)
}

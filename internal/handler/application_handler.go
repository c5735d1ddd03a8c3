package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loandesk/internal/config"
	"loandesk/internal/csvexport"
	"loandesk/internal/domain"
	"loandesk/internal/service"
)

// ApplicationHandler handles loan application review endpoints.
type ApplicationHandler struct {
	appService   service.ApplicationService
	defaultLimit int
	maxLimit     int
}

// NewApplicationHandler creates a new ApplicationHandler. List page sizes come from
// the workflow config.
func NewApplicationHandler(appService service.ApplicationService, cfg config.WorkflowConfig) *ApplicationHandler {
	h := &ApplicationHandler{appService: appService, defaultLimit: cfg.DefaultPageSize, maxLimit: cfg.MaxPageSize}
	if h.defaultLimit <= 0 {
		h.defaultLimit = 20
	}
	if h.maxLimit < h.defaultLimit {
		h.maxLimit = h.defaultLimit
	}
	return h
}

func parseFilter(c *gin.Context) (domain.ApplicationFilter, bool) {
	search := c.Query("q")
	if search == "" {
		search = c.Query("search")
	}
	filter := domain.ApplicationFilter{Search: strings.TrimSpace(search)}
	if s := c.Query("status"); s != "" {
		status := domain.ApplicationStatus(s)
		if !domain.ValidApplicationStatuses[status] {
			HandleError(c, domain.ErrInvalidStatus)
			return filter, false
		}
		filter.Status = status
	}
	return filter, true
}

// List handles GET /api/applications
// @Summary List applications
// @Description List loan applications with their document summaries
// @Tags applications
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, under_review, on_hold, approved, rejected)
// @Param q query string false "Search by reference, name, CNIC or email"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} PaginatedResponse{data=[]domain.Application}
// @Failure 400 {object} ErrorResponseBody "Invalid status filter"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	page, limit, offset := parsePagination(c, h.defaultLimit, h.maxLimit)

	apps, total, err := h.appService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, apps, PagMeta{Total: total, Page: page, Limit: limit})
}

// Get handles GET /api/applications/:id
// @Summary Get an application
// @Description Get an application with its documents, inspections and document summary
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} Response{data=domain.Application}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	app, err := h.appService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, app)
}

// Plan handles GET /api/applications/:id/plan
// @Summary Plan a status change
// @Description Report whether a requested status is applied directly, needs a final review, or is blocked by pending documents
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Param status query string true "Requested status"
// @Success 200 {object} Response{data=workflow.Plan}
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Transition not allowed"
// @Security BearerAuth
// @Router /applications/{id}/plan [get]
func (h *ApplicationHandler) Plan(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	status := domain.ApplicationStatus(c.Query("status"))
	if !domain.ValidApplicationStatuses[status] {
		HandleError(c, domain.ErrInvalidStatus)
		return
	}

	plan, err := h.appService.PlanStatusUpdate(c.Request.Context(), id, status)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, plan)
}

// UpdateStatus handles PUT /api/applications/:id/status
// @Summary Change status directly
// @Description Move an application to pending, under_review or on_hold. Final decisions go through the review endpoint.
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body UpdateStatusRequest true "Requested status"
// @Success 200 {object} Response{data=domain.Application}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Transition not allowed or final review required"
// @Security BearerAuth
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}
	status := domain.ApplicationStatus(req.Status)
	if !domain.ValidApplicationStatuses[status] {
		HandleError(c, domain.ErrInvalidStatus)
		return
	}

	app, err := h.appService.UpdateStatus(c.Request.Context(), &service.UpdateStatusInput{
		ApplicationID: id,
		Status:        status,
		Comments:      req.Comments,
		PerformedBy:   performer(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, app)
}

// SubmitReview handles PUT /api/applications/:id/review
// @Summary Submit a final review
// @Description Apply per-document decisions, then record the final decision (approved, rejected or on_hold)
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body SubmitReviewRequest true "Final review"
// @Success 200 {object} Response{data=domain.Application}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Documents pending or a document update failed"
// @Failure 422 {object} ErrorResponseBody "Comments or approved amount invalid"
// @Security BearerAuth
// @Router /applications/{id}/review [put]
func (h *ApplicationHandler) SubmitReview(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "finalDecision is required")
		return
	}

	decisions := make([]service.DocumentDecision, 0, len(req.DocumentDecisions))
	for _, d := range req.DocumentDecisions {
		decisions = append(decisions, service.DocumentDecision{
			DocumentID: d.DocumentID,
			Status:     domain.VerificationStatus(d.VerificationStatus),
			Comments:   d.Comments,
		})
	}

	app, err := h.appService.SubmitReview(c.Request.Context(), &service.SubmitReviewInput{
		ApplicationID:     id,
		Decision:          domain.ApplicationStatus(req.FinalDecision),
		Comments:          req.ApplicationComments,
		ApprovedAmount:    string(req.ApprovedLoanAmount),
		DocumentDecisions: decisions,
		PerformedBy:       performer(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, app)
}

// History handles GET /api/applications/:id/history
// @Summary Audit history
// @Description List the audit trail of an application, newest first
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} PaginatedResponse{data=[]domain.AuditEntry}
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /applications/{id}/history [get]
func (h *ApplicationHandler) History(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	page, limit, offset := parsePagination(c, 50, 200)

	entries, total, err := h.appService.History(c.Request.Context(), id, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, entries, PagMeta{Total: total, Page: page, Limit: limit})
}

// Export handles GET /api/applications/export
// @Summary Export applications
// @Description Download the filtered application list as CSV (UTF-8 with BOM) or XLSX
// @Tags applications
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Param name query string false "File name prefix"
// @Param status query string false "Filter by status"
// @Param q query string false "Search filter"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Invalid format or filter"
// @Security BearerAuth
// @Router /applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportCSV))))
	if format != domain.ExportCSV && format != domain.ExportXLSX {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	apps, err := h.appService.ListAll(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(c.Query("name"), format)
	disposition := fmt.Sprintf("attachment; filename=%q", filename)

	if format == domain.ExportXLSX {
		var buf bytes.Buffer
		if err := csvexport.WriteXLSX(&buf, apps); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", disposition)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteApplications(apps); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

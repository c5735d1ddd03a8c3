package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loandesk/internal/domain"
	"loandesk/internal/service"
)

// InspectionHandler handles site inspection endpoints.
type InspectionHandler struct {
	inspService service.InspectionService
}

// NewInspectionHandler creates a new InspectionHandler.
func NewInspectionHandler(inspService service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspService: inspService}
}

// Schedule handles POST /api/applications/:id/site-inspection
// @Summary Schedule a site inspection
// @Description Schedule a site inspection for an approved application
// @Tags inspections
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body ScheduleInspectionRequest true "Inspection slot"
// @Success 201 {object} Response{data=domain.SiteInspection}
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Application not approved or inspection already scheduled"
// @Failure 422 {object} ErrorResponseBody "Invalid date or time"
// @Security BearerAuth
// @Router /applications/{id}/site-inspection [post]
func (h *InspectionHandler) Schedule(c *gin.Context) {
	appID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req ScheduleInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	insp, err := h.inspService.Schedule(c.Request.Context(), &service.ScheduleInspectionInput{
		ApplicationID:    appID,
		InspectionDate:   req.InspectionDate,
		InspectionTime:   req.InspectionTime,
		InspectorName:    req.InspectorName,
		InspectorContact: req.InspectorContact,
		Notes:            req.Notes,
		ScheduledBy:      performer(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, insp)
}

// List handles GET /api/applications/:id/site-inspections
// @Summary List site inspections
// @Tags inspections
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} Response{data=[]domain.SiteInspection}
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /applications/{id}/site-inspections [get]
func (h *InspectionHandler) List(c *gin.Context) {
	appID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	list, err := h.inspService.List(c.Request.Context(), appID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if list == nil {
		list = []domain.SiteInspection{}
	}
	RespondOK(c, list)
}

// Complete handles PUT /api/applications/:id/site-inspections/:inspectionId/complete
// @Summary Complete a site inspection
// @Tags inspections
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param inspectionId path string true "Inspection ID"
// @Param request body CloseInspectionRequest false "Outcome"
// @Success 200 {object} Response{data=domain.SiteInspection}
// @Failure 404 {object} ErrorResponseBody "Inspection not found"
// @Failure 409 {object} ErrorResponseBody "Inspection already closed"
// @Security BearerAuth
// @Router /applications/{id}/site-inspections/{inspectionId}/complete [put]
func (h *InspectionHandler) Complete(c *gin.Context) {
	h.close(c, domain.InspectionCompleted)
}

// Cancel handles PUT /api/applications/:id/site-inspections/:inspectionId/cancel
// @Summary Cancel a site inspection
// @Tags inspections
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param inspectionId path string true "Inspection ID"
// @Param request body CloseInspectionRequest false "Reason"
// @Success 200 {object} Response{data=domain.SiteInspection}
// @Failure 404 {object} ErrorResponseBody "Inspection not found"
// @Failure 409 {object} ErrorResponseBody "Inspection already closed"
// @Security BearerAuth
// @Router /applications/{id}/site-inspections/{inspectionId}/cancel [put]
func (h *InspectionHandler) Cancel(c *gin.Context) {
	h.close(c, domain.InspectionCancelled)
}

func (h *InspectionHandler) close(c *gin.Context, to domain.InspectionStatus) {
	appID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	inspID, ok := parseUUIDParam(c, "inspectionId")
	if !ok {
		return
	}
	var req CloseInspectionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
			return
		}
	}

	insp, err := h.inspService.Close(c.Request.Context(), &service.CloseInspectionInput{
		ApplicationID: appID,
		InspectionID:  inspID,
		Status:        to,
		OutcomeNotes:  req.OutcomeNotes,
		PerformedBy:   performer(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, insp)
}

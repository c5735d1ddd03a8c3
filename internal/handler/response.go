package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"loandesk/internal/domain"
	"loandesk/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{Success: false, Error: msg, Code: code})
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable is checked in order; the first errors.Is match wins.
var errorTable = []errorMapping{
	{domain.ErrApplicationNotFound, http.StatusNotFound, "APPLICATION_NOT_FOUND"},
	{domain.ErrDocumentNotFound, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
	{domain.ErrInspectionNotFound, http.StatusNotFound, "INSPECTION_NOT_FOUND"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrSessionRevoked, http.StatusUnauthorized, "SESSION_REVOKED"},
	{domain.ErrOperatorInactive, http.StatusForbidden, "OPERATOR_INACTIVE"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{domain.ErrDuplicateUsername, http.StatusConflict, "DUPLICATE_USERNAME"},

	{domain.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{domain.ErrInvalidVerificationStatus, http.StatusBadRequest, "INVALID_VERIFICATION_STATUS"},
	{domain.ErrNotFinalDecision, http.StatusBadRequest, "NOT_FINAL_DECISION"},
	{domain.ErrCommentsRequired, http.StatusUnprocessableEntity, "COMMENTS_REQUIRED"},
	{domain.ErrReasonRequired, http.StatusUnprocessableEntity, "REASON_REQUIRED"},
	{domain.ErrApprovedAmountRequired, http.StatusUnprocessableEntity, "APPROVED_AMOUNT_REQUIRED"},
	{domain.ErrInvalidAmount, http.StatusUnprocessableEntity, "INVALID_AMOUNT"},
	{domain.ErrAmountExceedsRequested, http.StatusUnprocessableEntity, "AMOUNT_EXCEEDS_REQUESTED"},
	{domain.ErrInspectionDateRequired, http.StatusUnprocessableEntity, "INSPECTION_DATE_REQUIRED"},
	{domain.ErrInvalidInspectionDate, http.StatusUnprocessableEntity, "INVALID_INSPECTION_DATE"},
	{domain.ErrInspectionDateInPast, http.StatusUnprocessableEntity, "INSPECTION_DATE_IN_PAST"},
	{domain.ErrInspectionTimeRequired, http.StatusUnprocessableEntity, "INSPECTION_TIME_REQUIRED"},
	{domain.ErrInvalidInspectionTime, http.StatusUnprocessableEntity, "INVALID_INSPECTION_TIME"},

	{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrFinalReviewRequired, http.StatusConflict, "FINAL_REVIEW_REQUIRED"},
	{domain.ErrDocumentsPending, http.StatusConflict, "DOCUMENTS_PENDING"},
	{domain.ErrDocumentsNotApproved, http.StatusConflict, "DOCUMENTS_NOT_APPROVED"},
	{domain.ErrDocumentFinalized, http.StatusConflict, "DOCUMENT_FINALIZED"},
	{domain.ErrDocumentNotFinalized, http.StatusConflict, "DOCUMENT_NOT_FINALIZED"},
	{domain.ErrApplicationClosed, http.StatusConflict, "APPLICATION_CLOSED"},
	{domain.ErrApplicationNotApproved, http.StatusConflict, "APPLICATION_NOT_APPROVED"},
	{domain.ErrInspectionAlreadyScheduled, http.StatusConflict, "INSPECTION_ALREADY_SCHEDULED"},
	{domain.ErrInspectionClosed, http.StatusConflict, "INSPECTION_CLOSED"},

	{domain.ErrStorageUnavailable, http.StatusBadGateway, "STORAGE_UNAVAILABLE"},
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Unknown errors become a generic 500 so internals never leak to clients.
func MapDomainError(err error) (status int, code, msg string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code, m.err.Error()
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
}

// errLog receives server-side failures; replaced by SetLogger at startup.
var errLog = zap.NewNop()

// SetLogger sets the logger HandleError uses for 5xx responses.
func SetLogger(l *zap.Logger) {
	if l != nil {
		errLog = l
	}
}

// HandleError maps err and sends the error response. A *domain.BatchError is answered
// with 409 and the per-document detail in data.
func HandleError(c *gin.Context, err error) {
	var batch *domain.BatchError
	if errors.As(err, &batch) {
		for i := range batch.Failed {
			_, code, _ := MapDomainError(batch.Failed[i].Unwrap())
			batch.Failed[i].Code = code
		}
		c.JSON(http.StatusConflict, APIResponse{
			Success: false,
			Data:    batch,
			Error:   "document updates failed; review was not submitted",
			Code:    "DOCUMENT_UPDATES_FAILED",
		})
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		errLog.Error("request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	RespondError(c, status, code, msg)
}

// performer returns the authenticated operator's username. Body-supplied performer
// fields are ignored.
func performer(c *gin.Context) string {
	return middleware.GetUsername(c)
}

// parseUUIDParam reads a path parameter as a UUID, writing a 400 on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page/limit query parameters. page is 1-based.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

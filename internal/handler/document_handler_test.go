package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"loandesk/internal/domain"
	"loandesk/internal/handler"
	"loandesk/internal/service"
	"loandesk/mocks"
)

func newDocHandler() (*handler.DocumentHandler, *mocks.MockApplicationService, *mocks.MockDocumentFileService) {
	appSvc := new(mocks.MockApplicationService)
	fileSvc := new(mocks.MockDocumentFileService)
	return handler.NewDocumentHandler(appSvc, fileSvc), appSvc, fileSvc
}

func docParams(appID, docID uuid.UUID) gin.Params {
	return gin.Params{{Key: "id", Value: appID.String()}, {Key: "docId", Value: docID.String()}}
}

func TestDocumentVerify_Success(t *testing.T) {
	h, appSvc, _ := newDocHandler()
	appID, docID := uuid.New(), uuid.New()
	appSvc.On("VerifyDocument", mock.Anything, mock.MatchedBy(func(in *service.VerifyDocumentInput) bool {
		return in.ApplicationID == appID && in.DocumentID == docID &&
			in.Status == domain.VerificationApproved && in.PerformedBy == "reviewer"
	})).Return(&domain.Document{ID: docID, VerificationStatus: domain.VerificationApproved}, nil)

	c, w := newContext(http.MethodPut, "/", handler.VerifyDocumentRequest{VerificationStatus: "approved"}, docParams(appID, docID))
	setAuthContext(c, "reviewer", domain.RoleInspector)
	h.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	appSvc.AssertExpectations(t)
}

func TestDocumentVerify_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrDocumentFinalized, http.StatusConflict, "DOCUMENT_FINALIZED"},
		{domain.ErrApplicationClosed, http.StatusConflict, "APPLICATION_CLOSED"},
		{domain.ErrInvalidVerificationStatus, http.StatusBadRequest, "INVALID_VERIFICATION_STATUS"},
		{domain.ErrDocumentNotFound, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			h, appSvc, _ := newDocHandler()
			appID, docID := uuid.New(), uuid.New()
			appSvc.On("VerifyDocument", mock.Anything, mock.Anything).Return(nil, tc.err)

			c, w := newContext(http.MethodPut, "/", handler.VerifyDocumentRequest{VerificationStatus: "approved"}, docParams(appID, docID))
			h.Verify(c)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode(t, w).Code)
		})
	}
}

func TestDocumentVerify_InvalidDocID(t *testing.T) {
	h, appSvc, _ := newDocHandler()
	params := gin.Params{{Key: "id", Value: uuid.NewString()}, {Key: "docId", Value: "x"}}

	c, w := newContext(http.MethodPut, "/", handler.VerifyDocumentRequest{VerificationStatus: "approved"}, params)
	h.Verify(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	appSvc.AssertNotCalled(t, "VerifyDocument")
}

func TestDocumentReopen(t *testing.T) {
	h, appSvc, _ := newDocHandler()
	appID, docID := uuid.New(), uuid.New()
	appSvc.On("ReopenDocument", mock.Anything, mock.MatchedBy(func(in *service.ReopenDocumentInput) bool {
		return in.Reason == "new scan" && in.PerformedBy == "head.reviewer"
	})).Return(&domain.Document{ID: docID, VerificationStatus: domain.VerificationPending}, nil)

	c, w := newContext(http.MethodPost, "/", handler.ReopenDocumentRequest{Reason: "new scan"}, docParams(appID, docID))
	setAuthContext(c, "head.reviewer", domain.RoleManager)
	h.Reopen(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentReopen_ReasonRequired(t *testing.T) {
	h, appSvc, _ := newDocHandler()
	appID, docID := uuid.New(), uuid.New()
	appSvc.On("ReopenDocument", mock.Anything, mock.Anything).Return(nil, domain.ErrReasonRequired)

	c, w := newContext(http.MethodPost, "/", `{}`, docParams(appID, docID))
	h.Reopen(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "REASON_REQUIRED", decode(t, w).Code)
}

func TestDocumentDownloadAndPreview(t *testing.T) {
	appID, docID := uuid.New(), uuid.New()
	file := &service.DocumentFile{
		Document: &domain.Document{ID: docID, OriginalName: "cnic.pdf", ContentType: "application/pdf"},
		Data:     []byte("%PDF-1.4"),
	}

	for _, tc := range []struct {
		name        string
		disposition string
		call        func(*handler.DocumentHandler, *gin.Context)
	}{
		{"download", "attachment", (*handler.DocumentHandler).Download},
		{"preview", "inline", (*handler.DocumentHandler).Preview},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h, _, fileSvc := newDocHandler()
			fileSvc.On("Open", mock.Anything, appID, docID).Return(file, nil)

			c, w := newContext(http.MethodGet, "/", nil, docParams(appID, docID))
			tc.call(h, c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
			assert.Equal(t, fmt.Sprintf("%s; filename=%q", tc.disposition, "cnic.pdf"), w.Header().Get("Content-Disposition"))
			assert.Equal(t, "%PDF-1.4", w.Body.String())
		})
	}
}

func TestDocumentDownload_StorageUnavailable(t *testing.T) {
	h, _, fileSvc := newDocHandler()
	appID, docID := uuid.New(), uuid.New()
	fileSvc.On("Open", mock.Anything, appID, docID).
		Return(nil, fmt.Errorf("%w: timeout", domain.ErrStorageUnavailable))

	c, w := newContext(http.MethodGet, "/", nil, docParams(appID, docID))
	h.Download(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "STORAGE_UNAVAILABLE", decode(t, w).Code)
}

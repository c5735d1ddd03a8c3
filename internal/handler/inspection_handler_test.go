package handler_test

import (
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

func newInspHandler() (*handler.InspectionHandler, *mocks.MockInspectionService) {
	svc := new(mocks.MockInspectionService)
	return handler.NewInspectionHandler(svc), svc
}

func TestInspectionSchedule_Created(t *testing.T) {
	h, svc := newInspHandler()
	appID := uuid.New()
	svc.On("Schedule", mock.Anything, mock.MatchedBy(func(in *service.ScheduleInspectionInput) bool {
		return in.ApplicationID == appID && in.InspectionDate == "2030-01-15" &&
			in.InspectionTime == "10:30" && in.ScheduledBy == "supervisor.one"
	})).Return(&domain.SiteInspection{ID: uuid.New(), ApplicationID: appID, Status: domain.InspectionScheduled}, nil)

	body := handler.ScheduleInspectionRequest{
		InspectionDate: "2030-01-15",
		InspectionTime: "10:30",
		InspectorName:  "Field Officer",
		ScheduledBy:    "ignored",
	}
	c, w := newContext(http.MethodPost, "/", body, idParams(appID))
	setAuthContext(c, "supervisor.one", domain.RoleSupervisor)
	h.Schedule(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestInspectionSchedule_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrApplicationNotApproved, http.StatusConflict, "APPLICATION_NOT_APPROVED"},
		{domain.ErrInspectionAlreadyScheduled, http.StatusConflict, "INSPECTION_ALREADY_SCHEDULED"},
		{domain.ErrInspectionDateInPast, http.StatusUnprocessableEntity, "INSPECTION_DATE_IN_PAST"},
		{domain.ErrInvalidInspectionTime, http.StatusUnprocessableEntity, "INVALID_INSPECTION_TIME"},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			h, svc := newInspHandler()
			appID := uuid.New()
			svc.On("Schedule", mock.Anything, mock.Anything).Return(nil, tc.err)

			c, w := newContext(http.MethodPost, "/", handler.ScheduleInspectionRequest{}, idParams(appID))
			h.Schedule(c)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode(t, w).Code)
		})
	}
}

func TestInspectionList_EmptyIsArray(t *testing.T) {
	h, svc := newInspHandler()
	appID := uuid.New()
	svc.On("List", mock.Anything, appID).Return(nil, nil)

	c, w := newContext(http.MethodGet, "/", nil, idParams(appID))
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))
}

func inspParams(appID, inspID uuid.UUID) gin.Params {
	return gin.Params{{Key: "id", Value: appID.String()}, {Key: "inspectionId", Value: inspID.String()}}
}

func TestInspectionComplete(t *testing.T) {
	h, svc := newInspHandler()
	appID, inspID := uuid.New(), uuid.New()
	svc.On("Close", mock.Anything, mock.MatchedBy(func(in *service.CloseInspectionInput) bool {
		return in.InspectionID == inspID && in.Status == domain.InspectionCompleted && in.OutcomeNotes == "verified"
	})).Return(&domain.SiteInspection{ID: inspID, Status: domain.InspectionCompleted}, nil)

	c, w := newContext(http.MethodPost, "/", handler.CloseInspectionRequest{OutcomeNotes: "verified"}, inspParams(appID, inspID))
	h.Complete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestInspectionCancel_WithoutBody(t *testing.T) {
	h, svc := newInspHandler()
	appID, inspID := uuid.New(), uuid.New()
	svc.On("Close", mock.Anything, mock.MatchedBy(func(in *service.CloseInspectionInput) bool {
		return in.Status == domain.InspectionCancelled && in.OutcomeNotes == ""
	})).Return(&domain.SiteInspection{ID: inspID, Status: domain.InspectionCancelled}, nil)

	c, w := newContext(http.MethodPost, "/", nil, inspParams(appID, inspID))
	h.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInspectionCancel_AlreadyClosed(t *testing.T) {
	h, svc := newInspHandler()
	appID, inspID := uuid.New(), uuid.New()
	svc.On("Close", mock.Anything, mock.Anything).Return(nil, domain.ErrInspectionClosed)

	c, w := newContext(http.MethodPost, "/", nil, inspParams(appID, inspID))
	h.Cancel(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INSPECTION_CLOSED", decode(t, w).Code)
}

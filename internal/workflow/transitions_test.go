package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loandesk/internal/domain"
	"loandesk/internal/workflow"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, to domain.ApplicationStatus
		wantErr  error
	}{
		{domain.StatusPending, domain.StatusUnderReview, nil},
		{domain.StatusPending, domain.StatusOnHold, nil},
		{domain.StatusPending, domain.StatusApproved, nil},
		{domain.StatusPending, domain.StatusRejected, nil},
		{domain.StatusUnderReview, domain.StatusOnHold, nil},
		{domain.StatusUnderReview, domain.StatusApproved, nil},
		{domain.StatusUnderReview, domain.StatusPending, nil},
		{domain.StatusOnHold, domain.StatusApproved, nil},
		{domain.StatusOnHold, domain.StatusRejected, nil},
		{domain.StatusOnHold, domain.StatusUnderReview, nil},
		{domain.StatusPending, domain.StatusPending, domain.ErrInvalidTransition},
		{domain.StatusOnHold, domain.StatusOnHold, domain.ErrInvalidTransition},
		{domain.StatusApproved, domain.StatusRejected, domain.ErrInvalidTransition},
		{domain.StatusApproved, domain.StatusUnderReview, domain.ErrInvalidTransition},
		{domain.StatusRejected, domain.StatusPending, domain.ErrInvalidTransition},
		{domain.StatusPending, "archived", domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := workflow.CheckTransition(tt.from, tt.to)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, workflow.IsDirectStatus(domain.StatusPending))
	assert.True(t, workflow.IsDirectStatus(domain.StatusUnderReview))
	assert.False(t, workflow.IsDirectStatus(domain.StatusOnHold))

	assert.True(t, workflow.IsFinalDecision(domain.StatusApproved))
	assert.True(t, workflow.IsFinalDecision(domain.StatusRejected))
	assert.True(t, workflow.IsFinalDecision(domain.StatusOnHold))
	assert.False(t, workflow.IsFinalDecision(domain.StatusUnderReview))

	assert.True(t, workflow.IsClosed(domain.StatusApproved))
	assert.False(t, workflow.IsClosed(domain.StatusOnHold))
}

func TestAllowedTargets(t *testing.T) {
	assert.Equal(t, []domain.ApplicationStatus{
		domain.StatusUnderReview, domain.StatusOnHold, domain.StatusApproved, domain.StatusRejected,
	}, workflow.AllowedTargets(domain.StatusPending))
	assert.Empty(t, workflow.AllowedTargets(domain.StatusApproved))
	assert.Empty(t, workflow.AllowedTargets(domain.StatusRejected))
}

func TestApplyDirectStatus(t *testing.T) {
	app := &domain.Application{Status: domain.StatusPending, AdminComments: "intake ok"}

	err := workflow.ApplyDirectStatus(app, domain.StatusUnderReview, "", "supervisor1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, app.Status)
	assert.Equal(t, "intake ok", app.AdminComments)
	assert.Equal(t, "supervisor1", app.LastActionBy)

	err = workflow.ApplyDirectStatus(app, domain.StatusApproved, "", "supervisor1")
	assert.ErrorIs(t, err, domain.ErrFinalReviewRequired)
	assert.Equal(t, domain.StatusUnderReview, app.Status)

	err = workflow.ApplyDirectStatus(app, domain.StatusUnderReview, "again", "supervisor1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = workflow.ApplyDirectStatus(app, "bogus", "", "supervisor1")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestApplyDirectStatus_ClosedApplication(t *testing.T) {
	app := &domain.Application{Status: domain.StatusRejected}

	err := workflow.ApplyDirectStatus(app, domain.StatusUnderReview, "", "manager1")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusRejected, app.Status)
}

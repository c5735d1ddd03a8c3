package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandesk/internal/domain"
	"loandesk/internal/workflow"
)

func TestParseAmount(t *testing.T) {
	v, err := workflow.ParseAmount("400000")
	require.NoError(t, err)
	assert.Equal(t, 400000.0, v)

	v, err = workflow.ParseAmount(" 4,00,000.50 ")
	require.NoError(t, err)
	assert.Equal(t, 400000.5, v)

	_, err = workflow.ParseAmount("")
	assert.ErrorIs(t, err, domain.ErrApprovedAmountRequired)

	for _, bad := range []string{"abc", "0", "-5", "NaN", "Inf"} {
		_, err = workflow.ParseAmount(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, bad)
	}
}

func TestParseAmount_ColumnRange(t *testing.T) {
	v, err := workflow.ParseAmount("999,999,999,999.99")
	require.NoError(t, err)
	assert.Equal(t, 999999999999.99, v)

	v, err = workflow.ParseAmount("0.5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	for _, bad := range []string{"1e20", "1E5", "1000000000000", "1.234", "+5", ".5", "5.", "0.00"} {
		_, err = workflow.ParseAmount(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, bad)
	}
}

func TestValidateFinalReview_RequiresComments(t *testing.T) {
	app := &domain.Application{Status: domain.StatusUnderReview}
	summary := workflow.SummaryFromCounts(1, 0, 0)

	_, err := workflow.ValidateFinalReview(app, summary, workflow.FinalReview{
		Decision: domain.StatusRejected,
		Comments: "   ",
	}, workflow.Policy{})

	assert.ErrorIs(t, err, domain.ErrCommentsRequired)
}

func TestValidateFinalReview_RejectsNonFinalDecision(t *testing.T) {
	app := &domain.Application{Status: domain.StatusPending}

	_, err := workflow.ValidateFinalReview(app, workflow.SummaryFromCounts(1, 0, 0), workflow.FinalReview{
		Decision: domain.StatusUnderReview,
		Comments: "looks fine",
	}, workflow.Policy{})

	assert.ErrorIs(t, err, domain.ErrNotFinalDecision)
}

func TestValidateFinalReview_BlockedWhileDocumentsPending(t *testing.T) {
	app := &domain.Application{Status: domain.StatusPending}

	for _, d := range []domain.ApplicationStatus{domain.StatusApproved, domain.StatusRejected, domain.StatusOnHold} {
		_, err := workflow.ValidateFinalReview(app, workflow.SummaryFromCounts(0, 0, 1), workflow.FinalReview{
			Decision:       d,
			Comments:       "decision",
			ApprovedAmount: "1000",
		}, workflow.Policy{})
		assert.ErrorIs(t, err, domain.ErrDocumentsPending, d)
	}
}

func TestValidateFinalReview_NoDocumentsIsBlocked(t *testing.T) {
	app := &domain.Application{Status: domain.StatusUnderReview}

	_, err := workflow.ValidateFinalReview(app, workflow.SummaryFromCounts(0, 0, 0), workflow.FinalReview{
		Decision: domain.StatusRejected,
		Comments: "no papers",
	}, workflow.Policy{})

	assert.ErrorIs(t, err, domain.ErrDocumentsPending)
}

func TestValidateFinalReview_ApprovalNeedsAllApproved(t *testing.T) {
	app := &domain.Application{Status: domain.StatusUnderReview, LoanAmount: 500000}

	_, err := workflow.ValidateFinalReview(app, workflow.SummaryFromCounts(2, 1, 0), workflow.FinalReview{
		Decision:       domain.StatusApproved,
		Comments:       "approve anyway",
		ApprovedAmount: "400000",
	}, workflow.Policy{})

	assert.ErrorIs(t, err, domain.ErrDocumentsNotApproved)
}

func TestValidateFinalReview_ApprovalNeedsAmount(t *testing.T) {
	app := &domain.Application{Status: domain.StatusUnderReview, LoanAmount: 500000}
	summary := workflow.SummaryFromCounts(2, 0, 0)

	_, err := workflow.ValidateFinalReview(app, summary, workflow.FinalReview{
		Decision: domain.StatusApproved, Comments: "All good",
	}, workflow.Policy{})
	assert.ErrorIs(t, err, domain.ErrApprovedAmountRequired)

	_, err = workflow.ValidateFinalReview(app, summary, workflow.FinalReview{
		Decision: domain.StatusApproved, Comments: "All good", ApprovedAmount: "four lakh",
	}, workflow.Policy{})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestValidateFinalReview_AmountCap(t *testing.T) {
	app := &domain.Application{Status: domain.StatusUnderReview, LoanAmount: 300000}
	summary := workflow.SummaryFromCounts(1, 0, 0)
	review := workflow.FinalReview{Decision: domain.StatusApproved, Comments: "ok", ApprovedAmount: "350000"}

	out, err := workflow.ValidateFinalReview(app, summary, review, workflow.Policy{})
	require.NoError(t, err)
	assert.True(t, out.OverRequested)
	assert.Equal(t, 350000.0, out.ApprovedAmount)

	_, err = workflow.ValidateFinalReview(app, summary, review, workflow.Policy{EnforceAmountCap: true})
	assert.ErrorIs(t, err, domain.ErrAmountExceedsRequested)
}

func TestValidateFinalReview_ClosedApplication(t *testing.T) {
	app := &domain.Application{Status: domain.StatusApproved}

	_, err := workflow.ValidateFinalReview(app, workflow.SummaryFromCounts(1, 0, 0), workflow.FinalReview{
		Decision: domain.StatusRejected, Comments: "changed mind",
	}, workflow.Policy{})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Mixed documents: approval is refused, on_hold goes through.
func TestFinalReview_MixedDocumentsOnHold(t *testing.T) {
	app := &domain.Application{Status: domain.StatusUnderReview, LoanAmount: 500000}
	summary := workflow.Summarize(docsWith(
		domain.VerificationApproved, domain.VerificationApproved, domain.VerificationRejected,
	))

	_, err := workflow.ValidateFinalReview(app, summary, workflow.FinalReview{
		Decision: domain.StatusApproved, Comments: "x", ApprovedAmount: "100",
	}, workflow.Policy{})
	assert.ErrorIs(t, err, domain.ErrDocumentsNotApproved)

	review := workflow.FinalReview{Decision: domain.StatusOnHold, Comments: "Mixed docs, needs reassessment"}
	out, err := workflow.ValidateFinalReview(app, summary, review, workflow.Policy{})
	require.NoError(t, err)

	workflow.ApplyFinalReview(app, review, out, "manager1", time.Now())
	assert.Equal(t, domain.StatusOnHold, app.Status)
	assert.Equal(t, "Mixed docs, needs reassessment", app.AdminComments)
	assert.Nil(t, app.ApprovedLoanAmount)
	assert.Nil(t, app.ApprovedAt)
	assert.Nil(t, app.ApprovedBy)
}

func TestFinalReview_ApprovalStampsAmount(t *testing.T) {
	app := &domain.Application{Status: domain.StatusUnderReview, LoanAmount: 500000}
	summary := workflow.Summarize(docsWith(domain.VerificationApproved, domain.VerificationApproved))
	review := workflow.FinalReview{Decision: domain.StatusApproved, Comments: "All good", ApprovedAmount: "400000"}
	now := time.Date(2025, 8, 20, 9, 30, 0, 0, time.UTC)

	out, err := workflow.ValidateFinalReview(app, summary, review, workflow.Policy{})
	require.NoError(t, err)
	workflow.ApplyFinalReview(app, review, out, "manager1", now)

	assert.Equal(t, domain.StatusApproved, app.Status)
	require.NotNil(t, app.ApprovedLoanAmount)
	assert.Equal(t, 400000.0, *app.ApprovedLoanAmount)
	require.NotNil(t, app.ApprovedAt)
	assert.True(t, now.Equal(*app.ApprovedAt))
	require.NotNil(t, app.ApprovedBy)
	assert.Equal(t, "manager1", *app.ApprovedBy)
	assert.Equal(t, "All good", app.AdminComments)
}

func TestApplyFinalReview_ClearsApprovalFieldsOnOtherDecisions(t *testing.T) {
	amount := 1000.0
	by := "someone"
	at := time.Now()
	app := &domain.Application{
		Status:             domain.StatusOnHold,
		ApprovedLoanAmount: &amount,
		ApprovedBy:         &by,
		ApprovedAt:         &at,
	}

	workflow.ApplyFinalReview(app, workflow.FinalReview{Decision: domain.StatusRejected, Comments: "fraud"},
		workflow.ReviewOutcome{}, "manager1", time.Now())

	assert.Equal(t, domain.StatusRejected, app.Status)
	assert.Nil(t, app.ApprovedLoanAmount)
	assert.Nil(t, app.ApprovedBy)
	assert.Nil(t, app.ApprovedAt)
}

package ses

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loandesk/internal/domain"
)

func TestBuildDecisionMessage_Approved(t *testing.T) {
	amount := 400000.0
	m := buildDecisionMessage(domain.DecisionNotice{
		ReferenceNo:        "HPL-0042",
		ApplicantName:      "Dr. Sana <Iqbal>",
		Decision:           domain.StatusApproved,
		Comments:           "All good",
		ApprovedLoanAmount: &amount,
	}, "Loan Desk")

	assert.Equal(t, "Your loan application has been approved (HPL-0042)", m.subject)
	assert.Contains(t, m.text, "PKR 400000.00")
	assert.Contains(t, m.html, "Dr. Sana &lt;Iqbal&gt;")
	assert.NotContains(t, m.html, "<Iqbal>")
}

func TestBuildDecisionMessage_OnHold(t *testing.T) {
	m := buildDecisionMessage(domain.DecisionNotice{
		ReferenceNo: "HPL-0007",
		Decision:    domain.StatusOnHold,
		Comments:    "Mixed docs, needs reassessment",
	}, "Loan Desk")

	assert.Contains(t, m.subject, "on hold")
	assert.NotContains(t, m.text, "PKR")
	assert.Contains(t, m.text, "Mixed docs, needs reassessment")
}

func TestBuildInspectionMessage_DefaultsInspector(t *testing.T) {
	m := buildInspectionMessage(domain.InspectionNotice{
		ReferenceNo:    "HPL-0042",
		ApplicantName:  "Dr. Sana Iqbal",
		InspectionDate: "2025-09-01",
		InspectionTime: "10:00",
	}, "Loan Desk")

	assert.Equal(t, "Site inspection scheduled (HPL-0042)", m.subject)
	assert.Contains(t, m.text, "2025-09-01 at 10:00 by our field team")
}

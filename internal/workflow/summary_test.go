package workflow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"loandesk/internal/domain"
	"loandesk/internal/workflow"
)

func docsWith(statuses ...domain.VerificationStatus) []domain.Document {
	docs := make([]domain.Document, 0, len(statuses))
	for _, s := range statuses {
		docs = append(docs, domain.Document{ID: uuid.New(), VerificationStatus: s})
	}
	return docs
}

func TestSummarize_Empty(t *testing.T) {
	s := workflow.Summarize(nil)

	assert.Equal(t, 0, s.Total)
	assert.False(t, s.AllReviewed)
	assert.False(t, s.AllApproved)
	assert.False(t, s.AllRejected)
	assert.False(t, s.Mixed)
}

func TestSummarize_AllPending(t *testing.T) {
	s := workflow.Summarize(docsWith(domain.VerificationPending, domain.VerificationPending))

	assert.Equal(t, 2, s.PendingCount)
	assert.Equal(t, 2, s.Total)
	assert.False(t, s.AllReviewed)
}

func TestSummarize_MixedScenario(t *testing.T) {
	s := workflow.Summarize(docsWith(
		domain.VerificationApproved, domain.VerificationApproved, domain.VerificationRejected,
	))

	assert.Equal(t, domain.DocumentSummary{
		ApprovedCount: 2,
		RejectedCount: 1,
		PendingCount:  0,
		Total:         3,
		AllReviewed:   true,
		AllApproved:   false,
		AllRejected:   false,
		Mixed:         true,
	}, s)
}

func TestSummarize_AllApproved(t *testing.T) {
	s := workflow.Summarize(docsWith(domain.VerificationApproved, domain.VerificationApproved))

	assert.True(t, s.AllReviewed)
	assert.True(t, s.AllApproved)
	assert.False(t, s.Mixed)
}

func TestSummarize_AllRejected(t *testing.T) {
	s := workflow.Summarize(docsWith(domain.VerificationRejected))

	assert.True(t, s.AllRejected)
	assert.False(t, s.AllApproved)
	assert.False(t, s.Mixed)
}

func TestSummarize_UnknownStatusCountsAsPending(t *testing.T) {
	s := workflow.Summarize(docsWith(domain.VerificationApproved, ""))

	assert.Equal(t, 1, s.PendingCount)
	assert.False(t, s.AllReviewed)
}

func TestSummaryFromCounts_MixedNeedsNoPending(t *testing.T) {
	s := workflow.SummaryFromCounts(1, 1, 1)

	assert.False(t, s.Mixed)
	assert.False(t, s.AllReviewed)
	assert.Equal(t, 3, s.Total)
}

func TestCanVerifyDocument(t *testing.T) {
	tests := []struct {
		name    string
		current domain.VerificationStatus
		target  domain.VerificationStatus
		wantErr error
	}{
		{"pending to approved", domain.VerificationPending, domain.VerificationApproved, nil},
		{"pending to rejected", domain.VerificationPending, domain.VerificationRejected, nil},
		{"pending to pending", domain.VerificationPending, domain.VerificationPending, domain.ErrInvalidVerificationStatus},
		{"approved is final", domain.VerificationApproved, domain.VerificationRejected, domain.ErrDocumentFinalized},
		{"rejected is final", domain.VerificationRejected, domain.VerificationApproved, domain.ErrDocumentFinalized},
		{"approved back to pending", domain.VerificationApproved, domain.VerificationPending, domain.ErrInvalidVerificationStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &domain.Document{VerificationStatus: tt.current}
			err := workflow.CanVerifyDocument(doc, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCanReopenDocument(t *testing.T) {
	approvedDoc := &domain.Document{VerificationStatus: domain.VerificationApproved}
	pendingDoc := &domain.Document{VerificationStatus: domain.VerificationPending}

	assert.NoError(t, workflow.CanReopenDocument(&domain.Application{Status: domain.StatusUnderReview}, approvedDoc))
	assert.ErrorIs(t, workflow.CanReopenDocument(&domain.Application{Status: domain.StatusUnderReview}, pendingDoc), domain.ErrDocumentNotFinalized)
	assert.ErrorIs(t, workflow.CanReopenDocument(&domain.Application{Status: domain.StatusApproved}, approvedDoc), domain.ErrApplicationClosed)
	assert.ErrorIs(t, workflow.CanReopenDocument(&domain.Application{Status: domain.StatusRejected}, approvedDoc), domain.ErrApplicationClosed)
}

func TestProjectDecisions_OverlaysWithoutMutating(t *testing.T) {
	docs := docsWith(domain.VerificationPending, domain.VerificationPending, domain.VerificationApproved)

	s := workflow.ProjectDecisions(docs, map[uuid.UUID]domain.VerificationStatus{
		docs[0].ID: domain.VerificationApproved,
		docs[1].ID: domain.VerificationRejected,
	})

	assert.True(t, s.AllReviewed)
	assert.True(t, s.Mixed)
	assert.False(t, s.AllApproved)
	assert.Equal(t, 2, s.ApprovedCount)
	assert.Equal(t, domain.VerificationPending, docs[0].VerificationStatus)
	assert.Equal(t, domain.VerificationPending, docs[1].VerificationStatus)
}

func TestProjectDecisions_NoDecisions(t *testing.T) {
	docs := docsWith(domain.VerificationPending)

	s := workflow.ProjectDecisions(docs, nil)

	assert.Equal(t, 1, s.PendingCount)
	assert.False(t, s.AllReviewed)
}

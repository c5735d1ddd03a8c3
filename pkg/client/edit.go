package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"loandesk/internal/domain"
	"loandesk/internal/workflow"
)

// maxParallelVerifications bounds concurrent document verification calls in an edit.
const maxParallelVerifications = 4

// Edit is a combined dashboard edit: per-document verifications plus an optional
// application status change.
type Edit struct {
	Documents      []DocumentDecision
	Status         domain.ApplicationStatus
	Comments       string
	ApprovedAmount string
}

// DocumentError is one verification that failed during an edit.
type DocumentError struct {
	DocumentID uuid.UUID
	Err        error
}

// PartialFailureError is returned by EditApplication when some document verifications
// failed. The status change was not attempted. Applied documents stay applied.
type PartialFailureError struct {
	Applied []uuid.UUID
	Failed  []DocumentError
}

func (e *PartialFailureError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s: %v", f.DocumentID, f.Err))
	}
	return fmt.Sprintf("%d of %d document updates failed: %s",
		len(e.Failed), len(e.Failed)+len(e.Applied), strings.Join(parts, "; "))
}

// Unwrap exposes the individual document errors.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// EditApplication applies an edit and returns the re-fetched application.
//
// Every document verification is issued and awaited before the status call. If any
// of them fails the status call is skipped and a *PartialFailureError is returned.
// Final decisions go through the review endpoint; other statuses through the direct
// status endpoint. Already-finalized documents are skipped rather than re-sent.
func (c *Client) EditApplication(ctx context.Context, id uuid.UUID, edit Edit) (*domain.Application, error) {
	current, err := c.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	finalized := make(map[uuid.UUID]bool, len(current.Documents))
	for _, d := range current.Documents {
		if d.VerificationStatus.IsFinal() {
			finalized[d.ID] = true
		}
	}

	if err := c.verifyAll(ctx, id, edit.Documents, finalized); err != nil {
		return nil, err
	}

	switch {
	case edit.Status == "" || edit.Status == current.Status:
	case workflow.IsFinalDecision(edit.Status):
		_, err = c.SubmitReview(ctx, id, Review{
			FinalDecision:       edit.Status,
			ApplicationComments: edit.Comments,
			ApprovedLoanAmount:  edit.ApprovedAmount,
		})
	default:
		_, err = c.UpdateStatus(ctx, id, edit.Status, edit.Comments)
	}
	if err != nil {
		return nil, err
	}

	return c.GetApplication(ctx, id)
}

func (c *Client) verifyAll(ctx context.Context, appID uuid.UUID, decisions []DocumentDecision, finalized map[uuid.UUID]bool) error {
	var (
		mu      sync.Mutex
		applied []uuid.UUID
		failed  []DocumentError
	)
	// The group never returns an error so one failure does not cancel the others.
	var g errgroup.Group
	g.SetLimit(maxParallelVerifications)
	for _, d := range decisions {
		d := d
		if finalized[d.DocumentID] || !d.VerificationStatus.IsFinal() {
			continue
		}
		g.Go(func() error {
			_, err := c.VerifyDocument(ctx, appID, d.DocumentID, d.VerificationStatus, d.Comments)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, DocumentError{DocumentID: d.DocumentID, Err: err})
			} else {
				applied = append(applied, d.DocumentID)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) == 0 {
		return nil
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].DocumentID.String() < failed[j].DocumentID.String() })
	return &PartialFailureError{Applied: applied, Failed: failed}
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

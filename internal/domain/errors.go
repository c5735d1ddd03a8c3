package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperatorInactive   = errors.New("operator is inactive")
	ErrSessionRevoked     = errors.New("session has been revoked")
	ErrDuplicateUsername  = errors.New("username already exists")

	ErrApplicationNotFound = errors.New("application not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInspectionNotFound  = errors.New("site inspection not found")

	// Validation failures: caught before anything is persisted.
	ErrInvalidStatus             = errors.New("invalid application status")
	ErrInvalidVerificationStatus = errors.New("verification status must be approved or rejected")
	ErrCommentsRequired          = errors.New("comments are required for a final decision")
	ErrReasonRequired            = errors.New("a reason is required to reopen a document")
	ErrApprovedAmountRequired    = errors.New("approved loan amount is required for approval")
	ErrInvalidAmount             = errors.New("approved loan amount must be a positive number")
	ErrAmountExceedsRequested    = errors.New("approved loan amount exceeds the requested amount")
	ErrInspectionDateRequired    = errors.New("inspection date is required")
	ErrInvalidInspectionDate     = errors.New("inspection date must be formatted YYYY-MM-DD")
	ErrInspectionDateInPast      = errors.New("inspection date cannot be in the past")
	ErrInspectionTimeRequired    = errors.New("inspection time is required")
	ErrInvalidInspectionTime     = errors.New("inspection time must be formatted HH:MM")

	// Guard violations: the requested action is not reachable in the current state.
	ErrInvalidTransition          = errors.New("status transition is not allowed")
	ErrFinalReviewRequired        = errors.New("status requires a final review submission")
	ErrNotFinalDecision           = errors.New("final review decision must be approved, rejected or on_hold")
	ErrDocumentsPending           = errors.New("all documents must be reviewed before a final decision")
	ErrDocumentsNotApproved       = errors.New("all documents must be approved before approval")
	ErrDocumentFinalized          = errors.New("document verification is already finalized")
	ErrDocumentNotFinalized       = errors.New("document is still pending verification")
	ErrApplicationClosed          = errors.New("application has a final decision")
	ErrApplicationNotApproved     = errors.New("site inspections require an approved application")
	ErrInspectionAlreadyScheduled = errors.New("a site inspection is already scheduled")
	ErrInspectionClosed           = errors.New("site inspection is already closed")

	ErrStorageUnavailable = errors.New("document storage is unavailable")
)

// DocumentFailure describes one document update that did not go through.
type DocumentFailure struct {
	DocumentID uuid.UUID `json:"documentId"`
	Error      string    `json:"error"`
	Code       string    `json:"code,omitempty"`
	err        error
}

// BatchError reports a multi-document update that stopped part-way. Applied lists the
// documents already persisted before the failure; they are not rolled back.
type BatchError struct {
	Applied []uuid.UUID       `json:"applied"`
	Failed  []DocumentFailure `json:"failed"`
}

// NewDocumentFailure builds a DocumentFailure that unwraps to err.
func NewDocumentFailure(docID uuid.UUID, err error) DocumentFailure {
	return DocumentFailure{DocumentID: docID, Error: err.Error(), err: err}
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s: %s", f.DocumentID, f.Error))
	}
	return fmt.Sprintf("document updates failed after %d applied: %s", len(e.Applied), strings.Join(parts, "; "))
}

// Unwrap exposes the underlying document errors to errors.Is / errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		if f.err != nil {
			errs = append(errs, f.err)
		}
	}
	return errs
}

// Unwrap returns the error that stopped this document update.
func (f DocumentFailure) Unwrap() error {
	return f.err
}

package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Request and response types shared by the handlers and the swag annotations.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"head.reviewer"`
	Password string `json:"password" binding:"required" example:"correct-horse-battery"`
}

// UpdateStatusRequest represents a direct status change.
type UpdateStatusRequest struct {
	Status      string `json:"status" binding:"required" example:"under_review"`
	PerformedBy string `json:"performedBy" example:"ignored; the authenticated operator is recorded"`
	Comments    string `json:"comments" example:"Picked up for review"`
}

// DocumentDecisionRequest is one per-document decision in a final review.
type DocumentDecisionRequest struct {
	DocumentID         uuid.UUID `json:"documentId" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	VerificationStatus string    `json:"verificationStatus" binding:"required" example:"approved"`
	Comments           string    `json:"comments" example:"Matches CNIC record"`
}

// SubmitReviewRequest represents a final review submission.
type SubmitReviewRequest struct {
	FinalDecision       string                    `json:"finalDecision" binding:"required" example:"approved"`
	ApplicationComments string                    `json:"applicationComments" example:"All documents verified"`
	ApprovedLoanAmount  AmountInput               `json:"approvedLoanAmount" swaggertype:"string" example:"400000"`
	DocumentDecisions   []DocumentDecisionRequest `json:"documentDecisions"`
	PerformedBy         string                    `json:"performedBy"`
}

// VerifyDocumentRequest represents a single document verification.
type VerifyDocumentRequest struct {
	VerificationStatus string `json:"verificationStatus" binding:"required" example:"rejected"`
	PerformedBy        string `json:"performedBy"`
	Comments           string `json:"comments" example:"Scan is unreadable"`
}

// ReopenDocumentRequest represents a request to reset a finalized document.
type ReopenDocumentRequest struct {
	Reason string `json:"reason" example:"Applicant uploaded a clearer copy"`
}

// ScheduleInspectionRequest represents the site inspection scheduling body.
type ScheduleInspectionRequest struct {
	InspectionDate   string `json:"inspectionDate" example:"2030-01-15"`
	InspectionTime   string `json:"inspectionTime" example:"10:30"`
	InspectorName    string `json:"inspectorName" example:"Field Officer"`
	InspectorContact string `json:"inspectorContact" example:"+92-300-0000000"`
	Notes            string `json:"notes" example:"Clinic on first floor"`
	ScheduledBy      string `json:"scheduledBy"`
}

// CloseInspectionRequest represents completing or cancelling an inspection.
type CloseInspectionRequest struct {
	OutcomeNotes string `json:"outcomeNotes" example:"Premises verified"`
}

// AmountInput accepts an amount sent either as a JSON number or a string such as
// "4,00,000". The raw text is kept for workflow.ParseAmount.
type AmountInput string

// UnmarshalJSON implements json.Unmarshaler.
func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("approvedLoanAmount must be a number or string: %w", err)
	}
	*a = AmountInput(n.String())
	return nil
}

// --- Response Types ---

// Response is the generic success envelope used in swag annotations.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

// PaginatedResponse is the list envelope used in swag annotations.
type PaginatedResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
	Meta    PagMeta     `json:"meta"`
}

// ErrorResponseBody is the error envelope used in swag annotations.
type ErrorResponseBody struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"all documents must be reviewed before a final decision"`
	Code    string `json:"code" example:"DOCUMENTS_PENDING"`
}

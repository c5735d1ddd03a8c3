package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Operator is a staff account that signs in to the review dashboard.
type Operator struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"fullName"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Application is a single loan request submitted by a health professional.
type Application struct {
	ID                 uuid.UUID         `db:"id" json:"id"`
	ReferenceNo        string            `db:"reference_no" json:"referenceNo"`
	ApplicantName      string            `db:"applicant_name" json:"applicantName"`
	CNIC               string            `db:"cnic" json:"cnic"`
	Email              string            `db:"email" json:"email"`
	Phone              string            `db:"phone" json:"phone"`
	Profession         string            `db:"profession" json:"profession"`
	OrganizationName   string            `db:"organization_name" json:"organizationName"`
	City               string            `db:"city" json:"city"`
	LoanAmount         float64           `db:"loan_amount" json:"loanAmount"`
	ApprovedLoanAmount *float64          `db:"approved_loan_amount" json:"approvedLoanAmount"`
	Status             ApplicationStatus `db:"status" json:"status"`
	AdminComments      string            `db:"admin_comments" json:"adminComments"`
	ApprovedAt         *time.Time        `db:"approved_at" json:"approvedAt"`
	ApprovedBy         *string           `db:"approved_by" json:"approvedBy"`
	LastActionBy       string            `db:"last_action_by" json:"lastActionBy"`
	CreatedAt          time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updatedAt"`

	DocumentSummary *DocumentSummary `db:"-" json:"documentSummary,omitempty"`
	Documents       []Document       `db:"-" json:"documents,omitempty"`
	Inspections     []SiteInspection `db:"-" json:"inspections,omitempty"`
}

// Document is one uploaded file attached to an application.
type Document struct {
	ID                   uuid.UUID          `db:"id" json:"id"`
	ApplicationID        uuid.UUID          `db:"application_id" json:"applicationId"`
	DocumentType         string             `db:"document_type" json:"documentType"`
	OriginalName         string             `db:"original_name" json:"originalName"`
	FileSize             int64              `db:"file_size" json:"fileSize"`
	ContentType          string             `db:"content_type" json:"contentType"`
	S3Bucket             string             `db:"s3_bucket" json:"-"`
	S3Key                string             `db:"s3_key" json:"-"`
	VerificationStatus   VerificationStatus `db:"verification_status" json:"verificationStatus"`
	VerifiedBy           *string            `db:"verified_by" json:"verifiedBy"`
	VerifiedAt           *time.Time         `db:"verified_at" json:"verifiedAt"`
	VerificationComments string             `db:"verification_comments" json:"verificationComments"`
	CreatedAt            time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time          `db:"updated_at" json:"updatedAt"`
}

// DocumentSummary aggregates the verification state of an application's documents.
// The derived flags are filled by workflow.SummaryFromCounts.
type DocumentSummary struct {
	ApprovedCount int  `json:"approvedCount"`
	RejectedCount int  `json:"rejectedCount"`
	PendingCount  int  `json:"pendingCount"`
	Total         int  `json:"total"`
	AllReviewed   bool `json:"allReviewed"`
	AllApproved   bool `json:"allApproved"`
	AllRejected   bool `json:"allRejected"`
	Mixed         bool `json:"mixed"`
}

// DocumentCounts is the per-application aggregate produced by list queries.
type DocumentCounts struct {
	ApplicationID uuid.UUID `db:"application_id"`
	Approved      int       `db:"approved"`
	Rejected      int       `db:"rejected"`
	Pending       int       `db:"pending"`
}

// SiteInspection is a scheduled physical visit to an approved applicant's premises.
type SiteInspection struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	ApplicationID    uuid.UUID        `db:"application_id" json:"applicationId"`
	Status           InspectionStatus `db:"status" json:"status"`
	InspectionDate   string           `db:"inspection_date" json:"inspectionDate"`
	InspectionTime   string           `db:"inspection_time" json:"inspectionTime"`
	InspectorName    string           `db:"inspector_name" json:"inspectorName"`
	InspectorContact string           `db:"inspector_contact" json:"inspectorContact"`
	Notes            string           `db:"notes" json:"notes"`
	ScheduledBy      string           `db:"scheduled_by" json:"scheduledBy"`
	OutcomeNotes     string           `db:"outcome_notes" json:"outcomeNotes"`
	ClosedBy         *string          `db:"closed_by" json:"closedBy"`
	ClosedAt         *time.Time       `db:"closed_at" json:"closedAt"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// AuditEntry records one mutation performed against an application.
type AuditEntry struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	ApplicationID uuid.UUID       `db:"application_id" json:"applicationId"`
	DocumentID    *uuid.UUID      `db:"document_id" json:"documentId,omitempty"`
	PerformedBy   string          `db:"performed_by" json:"performedBy"`
	Action        AuditAction     `db:"action" json:"action"`
	Changes       json.RawMessage `db:"changes" json:"changes"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}

// Notification is an outbound message waiting in the delivery outbox.
type Notification struct {
	ID            uuid.UUID          `db:"id" json:"id"`
	ApplicationID uuid.UUID          `db:"application_id" json:"applicationId"`
	Kind          NotificationKind   `db:"kind" json:"kind"`
	Recipient     string             `db:"recipient" json:"recipient"`
	Payload       json.RawMessage    `db:"payload" json:"payload"`
	Status        NotificationStatus `db:"status" json:"status"`
	Attempts      int                `db:"attempts" json:"attempts"`
	LastError     string             `db:"last_error" json:"lastError"`
	SentAt        *time.Time         `db:"sent_at" json:"sentAt"`
	CreatedAt     time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updatedAt"`
}

// Stats holds the aggregate counts shown on the dashboard cards.
type Stats struct {
	TotalApplications    int       `db:"total_applications" json:"totalApplications"`
	Pending              int       `db:"pending" json:"pending"`
	UnderReview          int       `db:"under_review" json:"underReview"`
	OnHold               int       `db:"on_hold" json:"onHold"`
	Approved             int       `db:"approved" json:"approved"`
	Rejected             int       `db:"rejected" json:"rejected"`
	TotalRequestedAmount float64   `db:"total_requested_amount" json:"totalRequestedAmount"`
	TotalApprovedAmount  float64   `db:"total_approved_amount" json:"totalApprovedAmount"`
	DocumentsPending     int       `db:"documents_pending" json:"documentsPending"`
	DocumentsApproved    int       `db:"documents_approved" json:"documentsApproved"`
	DocumentsRejected    int       `db:"documents_rejected" json:"documentsRejected"`
	InspectionsScheduled int       `db:"inspections_scheduled" json:"inspectionsScheduled"`
	InspectionsCompleted int       `db:"inspections_completed" json:"inspectionsCompleted"`
	GeneratedAt          time.Time `db:"-" json:"generatedAt"`
	Stale                bool      `db:"-" json:"stale"`
}

// ApplicationFilter narrows an application list query.
type ApplicationFilter struct {
	Status ApplicationStatus
	Search string
}

// DecisionNotice is the payload of a decision notification.
type DecisionNotice struct {
	ReferenceNo        string            `json:"referenceNo"`
	ApplicantName      string            `json:"applicantName"`
	Decision           ApplicationStatus `json:"decision"`
	Comments           string            `json:"comments"`
	ApprovedLoanAmount *float64          `json:"approvedLoanAmount,omitempty"`
}

// InspectionNotice is the payload of an inspection-scheduled notification.
type InspectionNotice struct {
	ReferenceNo      string `json:"referenceNo"`
	ApplicantName    string `json:"applicantName"`
	InspectionDate   string `json:"inspectionDate"`
	InspectionTime   string `json:"inspectionTime"`
	InspectorName    string `json:"inspectorName"`
	InspectorContact string `json:"inspectorContact"`
}

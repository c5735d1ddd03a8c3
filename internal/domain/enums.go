package domain

// UserRole is the role bound to an operator account.
type UserRole string

const (
	RoleInspector  UserRole = "inspector"
	RoleSupervisor UserRole = "supervisor"
	RoleManager    UserRole = "manager"
)

// ValidRoles lists the roles an operator account may hold.
var ValidRoles = map[UserRole]bool{
	RoleInspector:  true,
	RoleSupervisor: true,
	RoleManager:    true,
}

// ApplicationStatus is the lifecycle state of a loan application.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusOnHold      ApplicationStatus = "on_hold"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
)

// ValidApplicationStatuses lists every application status.
var ValidApplicationStatuses = map[ApplicationStatus]bool{
	StatusPending:     true,
	StatusUnderReview: true,
	StatusOnHold:      true,
	StatusApproved:    true,
	StatusRejected:    true,
}

// VerificationStatus is a reviewer's judgment on a single document.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// IsFinal reports whether the verification status is approved or rejected.
func (s VerificationStatus) IsFinal() bool {
	return s == VerificationApproved || s == VerificationRejected
}

// InspectionStatus is the lifecycle state of a site inspection.
type InspectionStatus string

const (
	InspectionScheduled InspectionStatus = "scheduled"
	InspectionCompleted InspectionStatus = "completed"
	InspectionCancelled InspectionStatus = "cancelled"
)

// AuditAction identifies the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditStatusUpdated       AuditAction = "application.status_updated"
	AuditReviewSubmitted     AuditAction = "application.review_submitted"
	AuditDocumentVerified    AuditAction = "document.verified"
	AuditDocumentReopened    AuditAction = "document.reopened"
	AuditInspectionScheduled AuditAction = "inspection.scheduled"
	AuditInspectionCompleted AuditAction = "inspection.completed"
	AuditInspectionCancelled AuditAction = "inspection.cancelled"
)

// NotificationKind identifies the template used for an outbound notification.
type NotificationKind string

const (
	NotificationDecision            NotificationKind = "decision"
	NotificationInspectionScheduled NotificationKind = "inspection_scheduled"
)

// NotificationStatus is the delivery state of a queued notification.
type NotificationStatus string

const (
	NotificationQueued  NotificationStatus = "queued"
	NotificationSending NotificationStatus = "sending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// ExportFormat selects the export file format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

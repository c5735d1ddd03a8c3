package workflow

import (
	"strings"
	"time"

	"loandesk/internal/domain"
)

const (
	inspectionDateLayout = "2006-01-02"
	inspectionTimeLayout = "15:04"
)

// CanScheduleInspection requires an approved application with no inspection
// currently in the scheduled state.
func CanScheduleInspection(app *domain.Application, existing []domain.SiteInspection) error {
	if app.Status != domain.StatusApproved {
		return domain.ErrApplicationNotApproved
	}
	for i := range existing {
		if existing[i].Status == domain.InspectionScheduled {
			return domain.ErrInspectionAlreadyScheduled
		}
	}
	return nil
}

// ValidateInspectionSlot checks the requested date and time. The date is compared by
// calendar day in now's location, so today is allowed.
func ValidateInspectionSlot(date, clock string, now time.Time) error {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return domain.ErrInspectionDateRequired
	}
	day, err := time.ParseInLocation(inspectionDateLayout, date, now.Location())
	if err != nil {
		return domain.ErrInvalidInspectionDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return domain.ErrInspectionDateInPast
	}
	if clock == "" {
		return domain.ErrInspectionTimeRequired
	}
	if _, err := time.Parse(inspectionTimeLayout, clock); err != nil {
		return domain.ErrInvalidInspectionTime
	}
	return nil
}

// CloseInspection moves a scheduled inspection to completed or cancelled.
func CloseInspection(insp *domain.SiteInspection, to domain.InspectionStatus, notes, performer string, now time.Time) error {
	if to != domain.InspectionCompleted && to != domain.InspectionCancelled {
		return domain.ErrInvalidStatus
	}
	if insp.Status != domain.InspectionScheduled {
		return domain.ErrInspectionClosed
	}
	at := now.UTC()
	by := performer
	insp.Status = to
	insp.OutcomeNotes = strings.TrimSpace(notes)
	insp.ClosedAt = &at
	insp.ClosedBy = &by
	return nil
}

package service

import "time"

// SetInspectionClock replaces the clock an InspectionService reads.
func SetInspectionClock(svc InspectionService, now func() time.Time) {
	svc.(*inspectionService).now = now
}

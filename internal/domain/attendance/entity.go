package attendance

import (
	"time"
)

type Status string

const (
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusFlagged   Status = "flagged"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Violation codes reported by the check-in/check-out validator. A record
// carrying violations is flagged for admin review instead of being blocked:
// violations stop silent approval, not work.
const (
	ViolationOutsideGeofence   = "outside_geofence"
	ViolationOutsideTimeWindow = "outside_time_window"
	ViolationMissingCheckOut   = "missing_check_out"
)

// Record is one employee's attendance for one calendar day. At most one
// record exists per (employee, date); the check-out timestamp, when set,
// is strictly after the check-in timestamp.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time // work day, midnight in the engine timezone

	CheckInAt  time.Time
	CheckInLat float64
	CheckInLng float64

	CheckOutAt  *time.Time
	CheckOutLat *float64
	CheckOutLng *float64

	Status     Status
	Violations []string

	FlaggedAt  *time.Time
	ResolvedBy *string
	ResolvedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for admin views
	EmployeeName *string
}

// Open reports whether the record still accepts a check-out.
func (r Record) Open() bool {
	return r.CheckOutAt == nil && (r.Status == StatusCheckedIn || r.Status == StatusFlagged)
}

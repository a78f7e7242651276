package leave

import (
	"time"
)

type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypeEmergency Type = "emergency"
	TypeUnpaid    Type = "unpaid"
)

// Types lists every known leave type; unpaid leave carries no quota.
var Types = []Type{TypeAnnual, TypeSick, TypeEmergency, TypeUnpaid}

func ValidType(t string) bool {
	for _, known := range Types {
		if Type(t) == known {
			return true
		}
	}
	return false
}

// HasQuota reports whether the type draws from a yearly allotment.
func (t Type) HasQuota() bool {
	return t != TypeUnpaid
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Request is a leave request. Once resolved it is immutable except for
// audit fields; cancellation is only possible while pending and only by
// the owning employee.
type Request struct {
	ID         string
	EmployeeID string
	Type       Type
	StartDate  time.Time // inclusive
	EndDate    time.Time // inclusive, >= StartDate
	Days       int
	Reason     string

	Status          Status
	ResolverID      *string
	ResolvedAt      *time.Time
	RejectionReason *string

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for admin views
	EmployeeName *string
}

// Quota is an employee's yearly allotment for one leave type.
type Quota struct {
	ID            string
	EmployeeID    string
	Type          Type
	Year          int
	AllocatedDays int
	UsedDays      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q Quota) Remaining() int {
	return q.AllocatedDays - q.UsedDays
}

// DayCount returns the inclusive number of calendar days in [start, end].
func DayCount(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

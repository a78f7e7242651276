package approval

import (
	"time"
)

// Kind discriminates the source entity of a pending item. The pipeline
// dispatches by matching on it; the three workflows share no base type.
type Kind string

const (
	KindAttendance Kind = "attendance"
	KindLeave      Kind = "leave"
	KindAdvance    Kind = "advance"
)

func ValidKind(k string) bool {
	switch Kind(k) {
	case KindAttendance, KindLeave, KindAdvance:
		return true
	}
	return false
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Item is a read-time projection of one pending unit of admin work. It is
// never persisted; the source entity stays owned by its workflow.
type Item struct {
	Kind         Kind      `json:"kind"`
	Ref          string    `json:"ref"` // source entity id
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	Summary      string    `json:"summary"`
	SubmittedAt  time.Time `json:"submitted_at"` // submission or flag time
}

// ItemRef addresses one item for resolution.
type ItemRef struct {
	Kind Kind
	ID   string
}

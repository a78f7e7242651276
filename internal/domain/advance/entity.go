package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Request is a salary advance request. Outstanding balance is the sum of
// approved, unsettled advances; an advance can only be submitted while
// amount <= cap - outstanding at submission time. Settlement is payroll
// bookkeeping, not money movement.
type Request struct {
	ID         string
	EmployeeID string
	Amount     decimal.Decimal
	Reason     string

	// OutstandingAtSubmit snapshots the balance the cap check saw.
	OutstandingAtSubmit decimal.Decimal

	Status          Status
	ResolverID      *string
	ResolvedAt      *time.Time
	RejectionReason *string

	Settled   bool
	SettledAt *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for admin views
	EmployeeName *string
}

package advance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository - advance_requests table
type Repository interface {
	// CreateWithinCap inserts the request only when
	// outstanding + amount <= cap, computed against the live sum of the
	// employee's approved unsettled advances in the same statement.
	// Fails with ErrCapExceeded and writes nothing otherwise. A pending
	// request of the employee with the same amount and reason makes it
	// fail with ErrDuplicateRequest instead.
	CreateWithinCap(ctx context.Context, req Request, cap decimal.Decimal) (Request, error)

	GetByID(ctx context.Context, id string) (Request, error)

	// OutstandingTotal sums approved, unsettled advance amounts.
	OutstandingTotal(ctx context.Context, employeeID string) (decimal.Decimal, error)

	// UpdateStatusIf moves the request from -> to in one preconditioned
	// write; ErrAlreadyResolved when the current status no longer matches.
	UpdateStatusIf(ctx context.Context, id string, from, to Status, resolverID *string, rejectionReason *string, at time.Time) error

	ListPending(ctx context.Context) ([]Request, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)

	// ApprovedTotalInRange sums advances approved inside [from, to], for
	// the payroll aggregator's net adjustments.
	ApprovedTotalInRange(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)

	// SettleApproved marks the employee's approved unsettled advances as
	// settled and returns how many rows it touched.
	SettleApproved(ctx context.Context, employeeID string, at time.Time) (int64, error)
}

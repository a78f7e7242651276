package leave

import (
	"context"
	"time"
)

// RequestRepository - leave_requests table
type RequestRepository interface {
	// Create inserts the request unless the employee already has a pending
	// request with the same type and date range; a replayed submission
	// fails with ErrDuplicateRequest and writes nothing.
	Create(ctx context.Context, req Request) (Request, error)

	GetByID(ctx context.Context, id string) (Request, error)

	// LockEmployee serializes approvals of the employee's requests for the
	// rest of the surrounding transaction, so the approved-overlap
	// re-check cannot race a concurrent approval.
	LockEmployee(ctx context.Context, employeeID string) error

	// HasApprovedOverlap reports whether [start, end] intersects an approved
	// request of the employee. excludeID skips the request being approved.
	HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error)

	// UpdateStatusIf moves the request from -> to in one preconditioned
	// write; when the current status no longer matches it fails with
	// ErrAlreadyResolved and changes nothing.
	UpdateStatusIf(ctx context.Context, id string, from, to Status, resolverID *string, rejectionReason *string, at time.Time) error

	ListPending(ctx context.Context) ([]Request, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)

	// ListApprovedInRange returns approved requests whose date range
	// intersects [from, to], for the payroll aggregator.
	ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Request, error)
}

// QuotaRepository - leave_quotas table
type QuotaRepository interface {
	Get(ctx context.Context, employeeID string, typ Type, year int) (Quota, error)

	GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]Quota, error)

	// Upsert creates or replaces the allocation for (employee, type, year).
	Upsert(ctx context.Context, quota Quota) (Quota, error)

	// ConsumeIfAvailable decrements the remaining quota by days, only when
	// the remaining balance covers it; otherwise ErrQuotaExceeded with no
	// change. Runs in the approval transaction.
	ConsumeIfAvailable(ctx context.Context, employeeID string, typ Type, year int, days int) error
}

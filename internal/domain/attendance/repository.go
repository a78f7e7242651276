package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records. Transition
// preconditions are encoded in the writes themselves so that a losing racer
// gets the domain error instead of silently overwriting state.
type Repository interface {
	// Create inserts the day's record. The (employee, date) pair is unique;
	// a second insert for the same day fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, rec Record) (Record, error)

	GetByID(ctx context.Context, id string) (Record, error)

	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)

	// CompleteCheckOut writes the check-out leg. The update only commits when
	// the record is still open (checked_in or flagged, no check-out yet) and
	// the check-out timestamp is strictly after check-in; otherwise
	// ErrNotCheckedIn / ErrCheckOutBeforeCheckIn.
	CompleteCheckOut(ctx context.Context, id string, at time.Time, lat, lng float64, status Status, violations []string) error

	// ResolveFlagged moves flagged → approved|rejected. Only commits when the
	// current status is still flagged: ErrAlreadyResolved when it was already
	// approved or rejected, ErrNotFlagged for any other status.
	ResolveFlagged(ctx context.Context, id string, decision Status, resolverID string, at time.Time) error

	// FlagOpen marks a still-open record flagged with an extra violation,
	// used by the end-of-day job. No-ops (ErrNotCheckedIn) when the record
	// was closed in the meantime.
	FlagOpen(ctx context.Context, id string, violation string, at time.Time) error

	ListFlagged(ctx context.Context) ([]Record, error)

	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]Record, error)

	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)

	// CountWorkedDays counts completed or approved records in the period.
	CountWorkedDays(ctx context.Context, employeeID string, from, to time.Time) (int, error)
}

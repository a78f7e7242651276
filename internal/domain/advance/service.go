package advance

import (
	"context"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
)

// Service defines the advance state machine operations.
type Service interface {
	// Submit re-validates the cap against the live outstanding balance and
	// creates a pending request.
	Submit(ctx context.Context, actor identity.Actor, req SubmitRequest) (RequestResponse, error)

	// Cancel withdraws the actor's own pending request.
	Cancel(ctx context.Context, actor identity.Actor, requestID string) error

	// Approve is a pure status transition; the amount was validated at
	// submission.
	Approve(ctx context.Context, actor identity.Actor, requestID string) error

	Reject(ctx context.Context, actor identity.Actor, req RejectRequest) error

	MyRequests(ctx context.Context, actor identity.Actor) ([]RequestResponse, error)

	MyBalance(ctx context.Context, actor identity.Actor) (BalanceResponse, error)

	// Settle marks an employee's approved advances as repaid through payroll
	// (admin bookkeeping only).
	Settle(ctx context.Context, actor identity.Actor, employeeID string) (int64, error)

	ListPending(ctx context.Context, actor identity.Actor) ([]RequestResponse, error)
}

package leave

import (
	"context"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
)

// Service defines the leave state machine operations.
type Service interface {
	// Submit validates the range and overlap against approved leave, then
	// creates a pending request. Quota is not checked here: concurrent
	// pending requests may legitimately exceed it in aggregate.
	Submit(ctx context.Context, actor identity.Actor, req SubmitRequest) (RequestResponse, error)

	// Cancel withdraws the actor's own pending request.
	Cancel(ctx context.Context, actor identity.Actor, requestID string) error

	// Approve re-checks overlap and quota at resolution time and decrements
	// the quota atomically with the status transition. A quota shortfall
	// leaves the request pending for manual override or rejection.
	Approve(ctx context.Context, actor identity.Actor, requestID string) error

	Reject(ctx context.Context, actor identity.Actor, req RejectRequest) error

	MyRequests(ctx context.Context, actor identity.Actor) ([]RequestResponse, error)

	MyQuota(ctx context.Context, actor identity.Actor, year int) ([]QuotaResponse, error)

	// AdjustQuota sets an employee's yearly allocation (admin only).
	AdjustQuota(ctx context.Context, actor identity.Actor, req AdjustQuotaRequest) (QuotaResponse, error)

	ListPending(ctx context.Context, actor identity.Actor) ([]RequestResponse, error)
}

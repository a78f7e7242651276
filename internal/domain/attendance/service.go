package attendance

import (
	"context"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
)

// Service defines the attendance state machine operations.
type Service interface {
	// CheckIn opens the actor's record for today. Validator violations do not
	// block the check-in, they flag the record for admin review.
	CheckIn(ctx context.Context, actor identity.Actor, req CheckInRequest) (RecordResponse, error)

	// CheckOut closes today's open record.
	CheckOut(ctx context.Context, actor identity.Actor, req CheckOutRequest) (RecordResponse, error)

	// Resolve applies an admin decision to a flagged record.
	Resolve(ctx context.Context, actor identity.Actor, req ResolveRequest) (RecordResponse, error)

	// History returns the actor's own records for a date range.
	History(ctx context.Context, actor identity.Actor, filter HistoryFilter) ([]RecordResponse, error)

	// ListFlagged returns records awaiting review (admin only).
	ListFlagged(ctx context.Context, actor identity.Actor) ([]RecordResponse, error)
}

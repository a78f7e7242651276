package approval

import (
	"context"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
)

// Service is the unified admin approval pipeline over flagged attendance,
// pending leave and pending advance items.
type Service interface {
	// ListPending returns the queue oldest-first by submission/flag
	// timestamp, ties broken by entity id.
	ListPending(ctx context.Context, actor identity.Actor) ([]Item, error)

	// Resolve dispatches the decision to the owning state machine. At most
	// one resolution per item ever succeeds; the loser of a race gets
	// ErrAlreadyResolved from the owning domain.
	Resolve(ctx context.Context, actor identity.Actor, ref ItemRef, decision Decision, reason string) error
}

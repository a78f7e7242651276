package payroll

import (
	"context"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
)

// Service is the read-only salary/balance aggregator. Deterministic for
// the same underlying data; staff may read their own summary, admins any.
type Service interface {
	ComputeSummary(ctx context.Context, actor identity.Actor, req SummaryRequest) (SummaryResponse, error)
}

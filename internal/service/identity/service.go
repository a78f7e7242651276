package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
)

type ResolverImpl struct {
	employee.Repository
}

func NewResolver(employeeRepo employee.Repository) identity.Resolver {
	return &ResolverImpl{Repository: employeeRepo}
}

// Resolve implements identity.Resolver. Unknown users are never
// auto-provisioned and inactive employees cannot act.
func (r *ResolverImpl) Resolve(ctx context.Context, externalUserID string) (identity.Actor, error) {
	emp, err := r.Repository.GetByExternalUserID(ctx, externalUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, employee.ErrEmployeeNotFound) {
			return identity.Actor{}, identity.ErrUnknownUser
		}
		return identity.Actor{}, fmt.Errorf("failed to resolve external user: %w", err)
	}

	if !emp.IsActive() {
		return identity.Actor{}, identity.ErrEmployeeInactive
	}

	return identity.Actor{EmployeeID: emp.ID, Role: emp.Role}, nil
}

package identity

import (
	"context"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
)

// Actor is the resolved caller of an engine operation.
type Actor struct {
	EmployeeID string
	Role       employee.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == employee.RoleAdmin
}

// Resolver maps a verified chat-platform user id to an internal employee.
// Resolution never provisions: unknown users fail with ErrUnknownUser and
// only admin provisioning creates employees.
type Resolver interface {
	Resolve(ctx context.Context, externalUserID string) (Actor, error)
}

package employee

import (
	"context"
)

// Service covers admin provisioning and maintenance of employees.
// Role gating happens in the HTTP middleware; Deactivate additionally
// receives the acting employee id to refuse self-deactivation.
type Service interface {
	Provision(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string, actorID string) error
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
}

package employee

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByExternalUserID resolves a chat-platform user id to an employee.
	GetByExternalUserID(ctx context.Context, externalUserID string) (Employee, error)

	Update(ctx context.Context, emp Employee) error

	// SetStatus flips the soft employment-status flag. Employees are never
	// hard-deleted so historical records keep their references.
	SetStatus(ctx context.Context, id string, status Status) error

	List(ctx context.Context) ([]Employee, error)

	// ListActive returns active employees, used by scheduled jobs.
	ListActive(ctx context.Context) ([]Employee, error)
}

package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrExternalUserExists      = errors.New("chat account already linked to an employee")
	ErrInvalidRole             = errors.New("role must be staff or admin")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrCannotDeactivateSelf    = errors.New("cannot deactivate your own employee record")
)

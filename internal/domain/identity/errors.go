package identity

import "errors"

var (
	ErrUnknownUser      = errors.New("no employee is linked to this chat account")
	ErrEmployeeInactive = errors.New("employee account is inactive")
	ErrAdminRequired    = errors.New("admin privilege required")
	ErrForbidden        = errors.New("not allowed to act on this resource")
)

package advance

import "errors"

var (
	ErrRequestNotFound  = errors.New("advance request not found")
	ErrCapExceeded      = errors.New("requested amount exceeds the available advance cap")
	ErrDuplicateRequest = errors.New("an identical pending advance request already exists")
	ErrAlreadyResolved  = errors.New("advance request has already been resolved")
)

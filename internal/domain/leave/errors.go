package leave

import "errors"

var (
	ErrRequestNotFound  = errors.New("leave request not found")
	ErrOverlap          = errors.New("date range overlaps an approved leave")
	ErrDuplicateRequest = errors.New("an identical pending leave request already exists")
	ErrQuotaExceeded    = errors.New("insufficient leave quota")
	ErrQuotaNotFound    = errors.New("no leave quota for this type and year")
	ErrAlreadyResolved  = errors.New("leave request has already been resolved")
)

package approval

import "errors"

var (
	ErrUnknownKind     = errors.New("unknown approval item kind")
	ErrAlreadyResolved = errors.New("approval item has already been resolved")
)

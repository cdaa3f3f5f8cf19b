package billing

import "errors"

var (
	ErrLineNotFound  = errors.New("line item not found")
	ErrUnknownField  = errors.New("unknown field")
	ErrBadFieldValue = errors.New("value not allowed for field")
)

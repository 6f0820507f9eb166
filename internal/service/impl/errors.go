package impl

import "errors"

var (
	ErrMissingField   = errors.New("missing required field")
	ErrPasswordLength = errors.New("password must be at least 6 characters")
	ErrEmptyPassword  = errors.New("empty password")
	ErrInvalidStatus  = errors.New("invalid task status")
)

package interfaces

import "errors"

// Unique-key violations reported by Create and Update.
var (
	ErrDuplicateUsername = errors.New("username already in use")
	ErrDuplicateEmail    = errors.New("email already in use")
)

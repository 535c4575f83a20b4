package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	// ErrNotFound covers both "doesn't exist" and "owned by someone else".
	// Handlers surface a uniform message so existence is never leaked.
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

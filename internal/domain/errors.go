package domain

import "errors"

// Domain errors (no external dependencies). Infrastructure wraps its own
// failures; use cases return these sentinels so handlers can map them to
// HTTP status codes.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate resource")
	ErrConflict          = errors.New("conflict with current state")
	ErrInvalidTransition = errors.New("invalid status transition")
)

package services

import "errors"

// Expected failure classes surfaced to controllers. Wrap with
// fmt.Errorf("%w: ...") to attach detail; controllers map each class
// to an HTTP status.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrExhausted        = errors.New("exhausted")
)

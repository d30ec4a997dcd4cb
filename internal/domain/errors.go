package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrMalformed = errors.New("malformed")

	// ErrSharingCodeTaken is returned by storage when a generated code collides; callers regenerate.
	ErrSharingCodeTaken = errors.New("sharing code already in use")
)

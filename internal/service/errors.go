package service

import "errors"

// Error taxonomy the handlers map onto HTTP statuses: validation → 400,
// not found → 404, conflict → 409, anything else → 500.
var (
	ErrValidation = errors.New("invalid request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	// ErrSignatureMismatch is a bad request, not an auth failure: the
	// caller presented a signature that does not match the recomputed one.
	ErrSignatureMismatch = errors.New("invalid signature")
)

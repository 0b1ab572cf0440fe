package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStateConflict rejects an operation that is valid in general but not
	// in the entity's current state. Callers should not retry without
	// changing state first.
	ErrStateConflict = errors.New("state conflict")
	// ErrUniverseLocked rejects mutation of a keyword universe inside an
	// active lock cycle.
	ErrUniverseLocked = errors.New("keyword universe is locked")
	// ErrMissingCredentials is returned at construction time when a client
	// is missing required credential fields. Never degraded.
	ErrMissingCredentials = errors.New("missing credentials")
)

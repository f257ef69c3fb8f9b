// Package errors holds the error taxonomy shared by every service.
// Module-level errors wrap one of these so handlers can classify with errors.Is.
package errors

import "errors"

var (
	// ErrUnauthenticated no valid session
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized authenticated, but the role may not perform the operation
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput empty or missing required field
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound referenced entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrOptimisticLock record was modified by another operation since it was read
	ErrOptimisticLock = errors.New("record was modified by another operation, reload and retry")
)

package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrTransient marks a transaction aborted by the store (serialization
	// failure, deadlock) that may succeed when retried.
	ErrTransient = errors.New("transient storage failure")
)

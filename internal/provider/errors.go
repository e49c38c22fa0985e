package provider

import "errors"

// Sentinel errors for backend operations.
var (
	// ErrTimeout indicates the backend did not answer within the deadline.
	ErrTimeout = errors.New("provider timeout")

	// ErrBackend indicates the backend answered with an error or could not
	// be reached at all.
	ErrBackend = errors.New("provider backend error")
)

// Package errs defines the sentinel errors shared by the ept packages.
//
// Callers match them with errors.Is; packages wrap them with additional
// context using fmt.Errorf and the %w verb.
package errs

import "errors"

var (
	// ErrInvalidAddress is returned when a node key string is not "d-x-y-z".
	ErrInvalidAddress = errors.New("invalid node address")

	// ErrMalformedMetadata is returned for a bad bounds array, an unrecognized
	// data type or an unsupported field type/size combination.
	ErrMalformedMetadata = errors.New("malformed metadata")

	// ErrMalformedRecord is returned when a node payload is not a whole number
	// of records, usually a truncated fetch.
	ErrMalformedRecord = errors.New("malformed record data")

	// ErrUnsupportedOperation is returned when mutating a read-only point buffer
	// or adding a non-property field to a finalized layout.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrPoolStopped is returned when a task is submitted to a stopped pool.
	ErrPoolStopped = errors.New("attempted to add a task to a stopped pool")

	// ErrTransport is returned when a resource cannot be retrieved.
	ErrTransport = errors.New("transport error")

	// ErrNotFound is returned alongside ErrTransport when the resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

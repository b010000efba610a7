// Package storage implements the content-addressed key/value layer that
// backs the Room: a memory backend for tests and ephemeral rooms, and a
// filesystem backend that maps colon-delimited keys onto directories below
// a base path with atomic write-then-rename semantics.
package storage

import "errors"

// Sentinel errors returned by Backend implementations. Callers should use
// errors.Is for comparison. A tool handler that returns one of these has it
// reported to the client as an isError tool result carrying the error
// text, not as a JSON-RPC error code.
var (
	// ErrNotFound is returned by Get when the key does not exist. Delete of
	// a missing key succeeds without error.
	ErrNotFound = errors.New("storage: key not found")

	// ErrAlreadyExists is returned by SetIfNotExists when the key is
	// already present.
	ErrAlreadyExists = errors.New("storage: key already exists")

	// ErrInvalidKey is returned when a key is empty, contains a raw path
	// separator, starts with a colon, or contains a ".." segment after
	// colon-to-separator expansion.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrIOError wraps an underlying I/O failure from the filesystem
	// backend.
	ErrIOError = errors.New("storage: io error")
)

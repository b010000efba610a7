// Package auth implements the room's credential and permission layer:
// role-to-capability matrix, token issuance backed by SHA-256 hashes, and
// constant-time verification. No plaintext token is ever persisted.
package auth

import "errors"

var (
	// ErrAuthDisabled signals that auth is disabled for the room. No
	// Manager method returns it; CheckPermission verifies tokens whether
	// or not auth is enabled.
	ErrAuthDisabled = errors.New("auth: disabled for this room")

	// ErrInvalidToken is returned when a token fails verification: wrong
	// hash, unknown token, or expired.
	ErrInvalidToken = errors.New("auth: invalid or expired token")

	// ErrPermissionDenied is returned when a role lacks the capability an
	// operation requires.
	ErrPermissionDenied = errors.New("auth: permission denied")

	// ErrUnknownRole is returned when a role string does not map to a
	// known Role constant.
	ErrUnknownRole = errors.New("auth: unknown role")
)

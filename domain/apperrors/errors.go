// Package apperrors defines the error taxonomy shared by services, handlers
// and the client. Handlers map these to HTTP status codes; services never
// return transport errors.
package apperrors

import "errors"

var (
	// ErrUnauthorized: missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput: malformed fields, bad enum values, empty required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers both a missing record and a record owned by someone
	// else. The two cases are deliberately indistinguishable so that no
	// response leaks whether a foreign record exists.
	ErrNotFound = errors.New("not found")

	// ErrConflict: uniqueness violation (duplicate email/username).
	ErrConflict = errors.New("already exists")

	// ErrInternal: unexpected backend failure, surfaced immediately, no retries.
	ErrInternal = errors.New("internal error")
)

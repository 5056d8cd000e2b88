// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Outcome kinds of auth operations.
// Every error returned by the auth usecase matches exactly one of them via errors.Is.
var (
	// ErrValidation indicates malformed or missing input. The caller can resubmit corrected input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a uniqueness violation during registration.
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated indicates that login credentials did not match.
	// It is returned for unknown users and wrong passwords alike.
	ErrUnauthenticated = errors.New("invalid username or password")

	// ErrNotFound indicates that the targeted user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrConfiguration indicates missing or malformed signing parameters.
	// It is detected at startup and never reached per request.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInternal indicates an unexpected failure in the store, the hasher or the signer.
	ErrInternal = errors.New("internal error")
)

// Conflict details. Both match ErrConflict.
var (
	ErrUsernameTaken = Wrap(ErrConflict, "username already exists")
	ErrEmailTaken    = Wrap(ErrConflict, "email already exists")
)

// kindError attaches a caller-facing message to an outcome kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Wrap returns an error that matches kind and reads as msg.
func Wrap(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

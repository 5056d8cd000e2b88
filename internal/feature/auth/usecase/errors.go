// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

// Signals returned by UserRepository implementations.
var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned by Insert when the username or email is already taken.
	// Stores must enforce this as a hard constraint.
	ErrDuplicateUser = errors.New("user already exists")
)

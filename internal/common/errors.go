// Package common defines shared constants and sentinel errors used across
// the client and server sides of the identity core. Callers should use
// errors.Is to match these values; wrapping layers must keep them reachable.
package common

import "errors"

var (
	// Credential store errors.
	ErrEmailAlreadyInUse = errors.New("auth/email-already-in-use")
	ErrUserNotFound      = errors.New("auth/user-not-found")
	ErrWrongPassword     = errors.New("auth/wrong-password")

	// Profile store errors.
	ErrProfileNotFound = errors.New("profile not found")

	// Session errors.
	ErrNoAuthenticatedUser = errors.New("no authenticated user")

	// Validation errors for patch/extra documents and roles.
	ErrInvalidField = errors.New("invalid field")

	// Photo uploads need a configured bucket.
	ErrPhotoStorageDisabled = errors.New("photo storage disabled")

	ErrorInternal = errors.New("internal error")
)

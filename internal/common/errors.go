// Package common defines shared constants and sentinel errors used across
// TaskVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal        = errors.New("internal error")
	ErrUnauthenticated = errors.New("please authenticate")

	// Credential errors. ErrInvalidCredentials is deliberately the only
	// signal for both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email/password")
	ErrWeakCredential     = errors.New("password is too weak")
	ErrCorruptCredential  = errors.New("stored credential hash is corrupt")

	// Update allow-list violation. The whole update is rejected.
	ErrInvalidUpdate = errors.New("invalid update field")

	// Token lifecycle errors, coarsened to ErrUnauthenticated before they
	// reach a caller.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("malformed token")
)

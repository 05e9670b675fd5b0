// Package auth implements credential verification, password hashing and
// signed-token issuance for the backend.
package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers unknown user, wrong password and inactive
	// account. Callers must not distinguish between them in responses.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned for malformed, forged or expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is a refinement of ErrInvalidToken for observability;
	// errors.Is(err, ErrInvalidToken) still holds.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrAlreadyExists is returned when registration hits a username conflict.
	ErrAlreadyExists = errors.New("username already exists")

	// ErrInvalidInput is returned when registration input fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable marks credential store failures. It must never be
	// presented to a caller as a credential problem.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

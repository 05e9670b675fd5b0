// Package repository provides MongoDB-backed persistence for the backend.
package repository

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when an insert collides with the unique
	// username index.
	ErrUsernameTaken = errors.New("username already exists")
)

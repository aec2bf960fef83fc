// Package storage defines the store interfaces and shared error values used
// by the memory, postgres and clickhouse implementations.
package storage

import "errors"

// Shared storage errors. Implementations translate backend-specific failures
// into these so callers can branch with errors.Is.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a row whose key already
	// exists. Simulation records are append-only and never updated.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

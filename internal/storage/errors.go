package storage

import "errors"

// Storage errors.
var (
	// ErrNotFound is returned when the source table or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSource is returned for an unknown source kind.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrReadOnlyQuery is returned when a source query is not a single SELECT.
	ErrReadOnlyQuery = errors.New("source query must be a single SELECT statement")
)

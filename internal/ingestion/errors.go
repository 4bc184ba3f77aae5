package ingestion

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor Excel.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptySource is returned when a file has no header row.
	ErrEmptySource = errors.New("source has no header row")

	// ErrUnknownEncoding is returned for an unrecognized encoding name.
	ErrUnknownEncoding = errors.New("unknown text encoding")
)

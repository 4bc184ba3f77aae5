package pipeline

import "errors"

var (
	// ErrNoDataset is returned when a pass is requested before any load.
	ErrNoDataset = errors.New("no dataset loaded")

	// ErrInvalidRequest is returned for unknown buckets, dimensions or metrics.
	ErrInvalidRequest = errors.New("invalid request")
)
